package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"notefall/mapper"
)

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// entityError maps mapper failures to responses: validation failures
// become a 400 with their message, anything else propagates to the
// central error handler.
func entityError(c *fiber.Ctx, err error) error {
	var ve *mapper.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   ve.Message,
		})
	}
	return err
}
