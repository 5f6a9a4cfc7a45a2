package apperr

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// FiberErrorHandler maps typed application errors to HTTP responses. The
// wrapped cause of a persistence error is logged, never sent to clients.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Kind == KindPersistence {
			log.Printf("persistence error on %s %s: %v", c.Method(), c.Path(), err)
		}
		return c.Status(ae.Status).JSON(fiber.Map{
			"error":   string(ae.Kind),
			"message": ae.Message,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error":   "error",
			"message": fe.Message,
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal",
		"message": "internal server error",
	})
}
