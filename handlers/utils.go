package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"notes-api/database"
	"notes-api/middleware"
	"notes-api/services"
	"notes-api/validator"
)

func errorBody(c *fiber.Ctx, message string) fiber.Map {
	return fiber.Map{"error": message, "request_id": middleware.GetRequestID(c)}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorBody(c, message))
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(errorBody(c, message))
}

func validationFailed(c *fiber.Ctx, errs validator.ValidationErrors) error {
	body := errorBody(c, "Validation failed")
	body["details"] = errs
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

// serviceError maps known service errors to client responses. Anything else
// is returned unchanged so the app error handler answers with a 500.
func serviceError(c *fiber.Ctx, err error) error {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, services.ErrNoteNotFound):
		return notFound(c, "Note not found")
	case errors.Is(err, services.ErrInvalidNote):
		return badRequest(c, "title is required")
	case errors.As(err, &validationErrs):
		return validationFailed(c, validationErrs)
	case errors.Is(err, database.ErrConstraint):
		slog.Warn("constraint violation",
			"request_id", middleware.GetRequestID(c),
			"path", c.Path(),
			"error", err,
		)
		return badRequest(c, "Note violates a storage constraint")
	default:
		return err
	}
}

func noteID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
