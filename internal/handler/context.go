package handler

import (
	"errors"

	"go-storepos/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helpers to read the authorized request context (set by RequireStore).
func storeID(c *fiber.Ctx) uuid.UUID {
	id, ok := c.Locals("store_id").(uuid.UUID)
	if !ok {
		return uuid.Nil // shouldn't happen behind the middleware
	}
	return id
}

func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

// respondError maps the ledger's error taxonomy onto HTTP statuses.
// InsufficientStock and ValidationError are expected, self-correctable
// client errors; StorageFailure stays opaque beyond "try again".
func respondError(c *fiber.Ctx, err error) error {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return c.Status(400).JSON(fiber.Map{"error": ve.Error(), "field": ve.Field})
	}
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		return c.Status(404).JSON(fiber.Map{"error": nf.Error()})
	}
	var is *apperr.InsufficientStockError
	if errors.As(err, &is) {
		return c.Status(409).JSON(fiber.Map{
			"error":              is.Error(),
			"quantity_remaining": is.Available,
		})
	}
	return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
}
