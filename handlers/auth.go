package handlers

import (
	"github.com/gofiber/fiber/v2"

	"notefall/app"
	"notefall/database"
	"notefall/mapper"
	"notefall/models"
	"notefall/services"
)

// Register handles user registration
func Register(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid request body",
			})
		}

		if req.Username == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Username and password are required",
			})
		}

		unit, err := a.DB.NewUnit(c.Context(), false)
		if err != nil {
			return err
		}
		// Safety net for error paths; a no-op once the outcome below ran.
		defer unit.Complete(database.Rollback)

		result := a.Registration.Register(unit, req)
		if !result.Success {
			unit.Complete(database.Rollback)

			status := fiber.StatusBadRequest
			if result.Error == services.MsgUsernameExists {
				status = fiber.StatusConflict
			}
			return c.Status(status).JSON(fiber.Map{
				"success": false,
				"error":   result.Error,
			})
		}

		if err := unit.Complete(database.Commit); err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"userId":  result.UserID,
			"message": "User registered successfully",
		})
	}
}

// Login handles user authentication
func Login(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid request body",
			})
		}

		if req.Username == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Username and password are required",
			})
		}

		unit, err := a.DB.NewUnit(c.Context(), true)
		if err != nil {
			return err
		}
		defer unit.Complete(database.None)

		result := a.Auth.Login(unit, req)
		if !result.Success {
			unit.Complete(database.None)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   result.Error,
			})
		}

		// Strip the password before transmission.
		userJSON := mapper.New(unit, a.Validator).UserToJSON(*result.User)
		unit.Complete(database.None)

		return c.JSON(fiber.Map{
			"success": true,
			"user":    userJSON,
			"message": "Login successful",
		})
	}
}
