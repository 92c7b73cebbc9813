package services

import (
	"context"
	"time"

	"notes-api/models"
)

// NoteRepository defines the interface for note data access
type NoteRepository interface {
	ListNotes(ctx context.Context, limit, offset int) ([]models.Note, int64, error)
	GetNote(ctx context.Context, id int64) (*models.Note, error)
	CreateNote(ctx context.Context, note *models.Note) error
	UpdateNote(ctx context.Context, id int64, title string, content *string, updatedAt time.Time) (int64, error)
	DeleteNote(ctx context.Context, id int64) (int64, error)
}

// OperationRecorder counts note operations by outcome.
type OperationRecorder interface {
	IncrementNoteOperations(operation string, success bool)
}
