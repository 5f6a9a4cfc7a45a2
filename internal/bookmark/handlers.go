package bookmark

import (
	"backend-yogida/internal/apperr"
	"backend-yogida/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		stops, err := svc.ForUser(c.Context(), auth.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(stops)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			PostID           string `json:"post_id"`
			SingleScheduleID string `json:"single_schedule_id"`
		}
		if err := c.BodyParser(&body); err != nil {
			return apperr.InvalidInput("invalid bookmark payload")
		}
		created, err := svc.Create(c.Context(), auth.UserID(c), body.SingleScheduleID, body.PostID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Delete("/", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			BookmarkIDs []string `json:"bookmark_ids"`
		}
		if err := c.BodyParser(&body); err != nil {
			return apperr.InvalidInput("bookmark_ids must be a list")
		}
		deleted, err := svc.DeleteMany(c.Context(), auth.UserID(c), body.BookmarkIDs)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"deleted_count": deleted})
	})
}
