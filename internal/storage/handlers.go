package storage

import (
	"context"
	"time"

	"backend-yogida/internal/apperr"
	"backend-yogida/internal/auth"
	"backend-yogida/internal/db"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Service registers uploaded place images so their URLs can be used as a
// stop's place_image_src.
type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) SaveObject(ctx context.Context, userID, url, kind string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO storage_objects (id, user_id, url, kind)
		VALUES ($1,$2,$3,$4)
	`, id, userID, url, kind)
	if err != nil {
		return "", apperr.Persistence(err)
	}
	return id, nil
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/upload", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			FileName string `json:"file_name"`
			Kind     string `json:"kind"`
		}
		_ = c.BodyParser(&body)
		if body.FileName == "" {
			body.FileName = "upload"
		}
		if body.Kind == "" {
			body.Kind = "place_image"
		}
		url := "https://storage.example/" + body.FileName
		id, err := svc.SaveObject(c.Context(), auth.UserID(c), url, body.Kind)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"id":         id,
			"url":        url,
			"expires_at": time.Now().Add(15 * time.Minute),
		})
	})
}
