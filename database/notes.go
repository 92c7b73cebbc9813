package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"notes-api/models"
)

const notesTable = "notes"

var noteColumns = []string{"id", "title", "content", "created_at", "updated_at"}

// QueryObserver receives one observation per repository call.
type QueryObserver interface {
	ObserveQuery(queryType string, success bool, duration time.Duration)
}

type Repository struct {
	db       *DB
	observer QueryObserver
}

func NewRepository(db *DB, observer QueryObserver) *Repository {
	return &Repository{db: db, observer: observer}
}

// withConn holds one pooled connection for the duration of fn and always
// returns it to the pool, whatever fn returns.
func (r *Repository) withConn(ctx context.Context, queryType string, fn func(conn *sqlx.Conn) error) (err error) {
	start := time.Now()
	defer func() {
		if r.observer != nil {
			r.observer.ObserveQuery(queryType, err == nil, time.Since(start))
		}
	}()

	conn, err := r.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

// ==================== NOTE OPERATIONS ====================

// ListNotes returns one page of notes ordered by id descending, and the total
// number of notes in the table.
func (r *Repository) ListNotes(ctx context.Context, limit, offset int) ([]models.Note, int64, error) {
	pageQuery, pageArgs, err := r.db.builder.
		Select(noteColumns...).
		From(notesTable).
		OrderBy("id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, errorSqlBuild(err)
	}

	countQuery, countArgs, err := r.db.builder.Select("COUNT(*)").From(notesTable).ToSql()
	if err != nil {
		return nil, 0, errorSqlBuild(err)
	}

	// Initialize with empty slice to avoid returning nil
	notes := make([]models.Note, 0, limit)
	var total int64

	err = r.withConn(ctx, "list", func(conn *sqlx.Conn) error {
		if err := conn.SelectContext(ctx, &notes, pageQuery, pageArgs...); err != nil {
			return fmt.Errorf("failed to list notes: %w", err)
		}
		if err := conn.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
			return fmt.Errorf("failed to count notes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	for i := range notes {
		normalizeTimes(&notes[i])
	}
	return notes, total, nil
}

// GetNote returns nil, nil when no note has the given id.
func (r *Repository) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	query, args, err := r.db.builder.
		Select(noteColumns...).
		From(notesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, errorSqlBuild(err)
	}

	var note models.Note
	var found bool
	err = r.withConn(ctx, "get", func(conn *sqlx.Conn) error {
		err := conn.GetContext(ctx, &note, query, args...)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get note %d: %w", id, err)
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return nil, err
	}

	normalizeTimes(&note)
	return &note, nil
}

// CreateNote inserts the note and sets note.ID to the generated identifier.
// The insert and the id read are a single INSERT ... RETURNING statement.
func (r *Repository) CreateNote(ctx context.Context, note *models.Note) error {
	query, args, err := r.db.builder.
		Insert(notesTable).
		Columns("title", "content", "created_at", "updated_at").
		Values(note.Title, note.Content, note.CreatedAt, note.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return errorSqlBuild(err)
	}

	return r.withConn(ctx, "create", func(conn *sqlx.Conn) error {
		if err := conn.QueryRowxContext(ctx, query, args...).Scan(&note.ID); err != nil {
			return fmt.Errorf("failed to create note: %w", translateError(err))
		}
		return nil
	})
}

// UpdateNote rewrites title, content and updated_at of the note with the
// given id and reports how many rows matched.
func (r *Repository) UpdateNote(ctx context.Context, id int64, title string, content *string, updatedAt time.Time) (int64, error) {
	query, args, err := r.db.builder.
		Update(notesTable).
		SetMap(map[string]interface{}{
			"title":      title,
			"content":    content,
			"updated_at": updatedAt,
		}).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, errorSqlBuild(err)
	}

	var affected int64
	err = r.withConn(ctx, "update", func(conn *sqlx.Conn) error {
		result, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to update note %d: %w", id, translateError(err))
		}
		affected, err = result.RowsAffected()
		return err
	})
	return affected, err
}

// DeleteNote permanently removes the note and reports how many rows matched.
func (r *Repository) DeleteNote(ctx context.Context, id int64) (int64, error) {
	query, args, err := r.db.builder.
		Delete(notesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, errorSqlBuild(err)
	}

	var affected int64
	err = r.withConn(ctx, "delete", func(conn *sqlx.Conn) error {
		result, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to delete note %d: %w", id, err)
		}
		affected, err = result.RowsAffected()
		return err
	})
	return affected, err
}

// Ping checks that a connection can be acquired and used.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func errorSqlBuild(err error) error {
	return fmt.Errorf("failed to build sql query: %w", err)
}

func normalizeTimes(note *models.Note) {
	note.CreatedAt = note.CreatedAt.UTC()
	note.UpdatedAt = note.UpdatedAt.UTC()
}
