package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"notes-api/app"
	"notes-api/models"
	"notes-api/services"
)

const notesPath = "/api/notes"

// ListNotes returns one page of notes, newest first
func ListNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", services.DefaultPage)
		pageSize := c.QueryInt("pageSize", 0)

		list, err := a.Notes.List(c.UserContext(), page, pageSize)
		if err != nil {
			return serviceError(c, err)
		}

		return c.JSON(list)
	}
}

// GetNote retrieves a single note by id
func GetNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := noteID(c)
		if !ok {
			return badRequest(c, "Invalid note id")
		}

		note, err := a.Notes.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}

		return c.JSON(note)
	}
}

// CreateNote stores a new note and points Location at it
func CreateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.NoteRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return serviceError(c, err)
		}

		note, err := a.Notes.Create(c.UserContext(), req)
		if err != nil {
			return serviceError(c, err)
		}

		c.Location(notesPath + "/" + strconv.FormatInt(note.ID, 10))
		return c.Status(fiber.StatusCreated).JSON(note)
	}
}

// UpdateNote replaces title and content of an existing note
func UpdateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := noteID(c)
		if !ok {
			return badRequest(c, "Invalid note id")
		}

		var req models.NoteRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(&req); err != nil {
			return serviceError(c, err)
		}

		if err := a.Notes.Update(c.UserContext(), id, req); err != nil {
			return serviceError(c, err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DeleteNote permanently removes a note
func DeleteNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := noteID(c)
		if !ok {
			return badRequest(c, "Invalid note id")
		}

		if err := a.Notes.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
