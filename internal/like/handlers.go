package like

import (
	"backend-yogida/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/:postId", func(c *fiber.Ctx) error {
		count, err := svc.Count(c.Context(), c.Params("postId"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"like_count": count})
	})

	r.Post("/:postId", authMiddleware, func(c *fiber.Ctx) error {
		count, err := svc.Like(c.Context(), auth.UserID(c), c.Params("postId"))
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"like_count": count})
	})

	r.Delete("/:postId", authMiddleware, func(c *fiber.Ctx) error {
		count, err := svc.Unlike(c.Context(), auth.UserID(c), c.Params("postId"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"like_count": count})
	})
}
