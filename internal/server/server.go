package server

import (
	"backend-yogida/internal/apperr"
	"backend-yogida/internal/auth"
	"backend-yogida/internal/bookmark"
	"backend-yogida/internal/config"
	"backend-yogida/internal/like"
	"backend-yogida/internal/post"
	"backend-yogida/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.FiberErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	allow := post.NewAllowlist(s.Cfg.AllowedTagList(), s.Cfg.AllowedCityList())

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	post.RegisterRoutes(s.App.Group("/posts"), post.NewService(s.DB, allow), jwtMiddleware)
	bookmark.RegisterRoutes(s.App.Group("/bookmarks"), bookmark.NewService(s.DB), jwtMiddleware)
	like.RegisterRoutes(s.App.Group("/likes"), like.NewService(s.DB, s.Redis), jwtMiddleware)
	storage.RegisterRoutes(s.App.Group("/storage"), storage.NewService(s.DB), jwtMiddleware)
}
