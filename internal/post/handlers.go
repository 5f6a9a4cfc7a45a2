package post

import (
	"strings"

	"backend-yogida/internal/apperr"
	"backend-yogida/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		posts, err := listBySort(c, svc)
		if err != nil {
			return err
		}
		return c.JSON(posts)
	})

	r.Get("/my-page", authMiddleware, func(c *fiber.Ctx) error {
		posts, err := svc.ByUser(c.Context(), auth.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(posts)
	})

	r.Get("/filter", func(c *fiber.Ctx) error {
		raw := c.Query("tag")
		if raw == "" {
			return apperr.InvalidInput("tag query parameter is required")
		}
		posts, err := svc.ByTags(c.Context(), strings.Split(raw, ","))
		if err != nil {
			return err
		}
		return c.JSON(posts)
	})

	r.Get("/search", func(c *fiber.Ctx) error {
		city := c.Query("city")
		if city == "" {
			return apperr.InvalidInput("city query parameter is required")
		}
		posts, err := svc.ByDestination(c.Context(), city)
		if err != nil {
			return err
		}
		return c.JSON(posts)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		p, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(p)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Post
		if err := c.BodyParser(&req); err != nil {
			return apperr.InvalidInput("invalid post payload")
		}
		created, err := svc.Create(c.Context(), auth.UserID(c), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Post
		if err := c.BodyParser(&req); err != nil {
			return apperr.InvalidInput("invalid post payload")
		}
		updated, err := svc.Update(c.Context(), auth.UserID(c), c.Params("id"), req)
		if err != nil {
			return err
		}
		return c.JSON(updated)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), auth.UserID(c), c.Params("id")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func listBySort(c *fiber.Ctx, svc *Service) ([]Post, error) {
	switch c.Query("sort") {
	case "latest":
		return svc.Latest(c.Context())
	case "oldest":
		return svc.Oldest(c.Context())
	case "likes":
		return svc.MostLiked(c.Context())
	default:
		return svc.All(c.Context())
	}
}
