package services

import (
	"context"
	"math"
	"strings"
	"time"

	"notes-api/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination bounds applied to list requests.
type Pagination struct {
	DefaultPageSize int
	MaxPageSize     int
}

// NoteService handles business logic for notes
type NoteService struct {
	repo       NoteRepository
	recorder   OperationRecorder
	pagination Pagination
	now        func() time.Time
}

// NewNoteService creates a new note service
func NewNoteService(repo NoteRepository, recorder OperationRecorder, pagination Pagination) *NoteService {
	if pagination.DefaultPageSize < 1 {
		pagination.DefaultPageSize = DefaultPageSize
	}
	if pagination.MaxPageSize < 1 {
		pagination.MaxPageSize = MaxPageSize
	}
	if pagination.DefaultPageSize > pagination.MaxPageSize {
		pagination.DefaultPageSize = pagination.MaxPageSize
	}

	return &NoteService{
		repo:       repo,
		recorder:   recorder,
		pagination: pagination,
		now:        utcNow,
	}
}

// utcNow is truncated to microseconds so the value returned to the caller is
// the value every supported store keeps.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Normalize clamps page and pageSize into the accepted range.
func (p Pagination) Normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = p.DefaultPageSize
	}
	if pageSize > p.MaxPageSize {
		pageSize = p.MaxPageSize
	}
	return page, pageSize
}

// pageOffset saturates at math.MaxInt instead of overflowing for huge pages.
func pageOffset(page, pageSize int) int {
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// List retrieves one page of notes, newest id first
func (ns *NoteService) List(ctx context.Context, page, pageSize int) (*models.NoteList, error) {
	page, pageSize = ns.pagination.Normalize(page, pageSize)
	offset := pageOffset(page, pageSize)

	notes, total, err := ns.repo.ListNotes(ctx, pageSize, offset)
	ns.record("list", err)
	if err != nil {
		return nil, err
	}

	return &models.NoteList{
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		Notes:      notes,
	}, nil
}

// Get retrieves a note by id
func (ns *NoteService) Get(ctx context.Context, id int64) (*models.Note, error) {
	note, err := ns.repo.GetNote(ctx, id)
	ns.record("get", err)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

// Create stamps both timestamps with the same instant and stores the note
func (ns *NoteService) Create(ctx context.Context, req models.NoteRequest) (*models.Note, error) {
	if strings.TrimSpace(req.Title) == "" {
		ns.record("create", ErrInvalidNote)
		return nil, ErrInvalidNote
	}

	now := ns.now()
	note := &models.Note{
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := ns.repo.CreateNote(ctx, note)
	ns.record("create", err)
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Update replaces title and content of an existing note; created_at is left alone
func (ns *NoteService) Update(ctx context.Context, id int64, req models.NoteRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		ns.record("update", ErrInvalidNote)
		return ErrInvalidNote
	}

	affected, err := ns.repo.UpdateNote(ctx, id, req.Title, req.Content, ns.now())
	if err == nil && affected == 0 {
		err = ErrNoteNotFound
	}
	ns.record("update", err)
	return err
}

// Delete permanently removes a note
func (ns *NoteService) Delete(ctx context.Context, id int64) error {
	affected, err := ns.repo.DeleteNote(ctx, id)
	if err == nil && affected == 0 {
		err = ErrNoteNotFound
	}
	ns.record("delete", err)
	return err
}

func (ns *NoteService) record(operation string, err error) {
	if ns.recorder != nil {
		ns.recorder.IncrementNoteOperations(operation, err == nil)
	}
}
