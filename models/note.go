package models

import "time"

type Note struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   *string   `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// NoteRequest is the body accepted by create and update.
// Any id or timestamps sent by the client are dropped by decoding into this type.
type NoteRequest struct {
	Title   string  `json:"title" validate:"required,notblank"`
	Content *string `json:"content"`
}

// NoteList is one page of notes plus the unfiltered row count.
type NoteList struct {
	TotalCount int64  `json:"totalCount"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	Notes      []Note `json:"notes"`
}
