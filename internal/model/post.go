package model

import (
	"time"

	"github.com/google/uuid"
)

// displayTimeLayout matches the format the views expect.
const displayTimeLayout = "2006-01-02 15:04:05"

// PostDocument is the raw document shape stored in the posts collection.
// Field presence is not guaranteed; use Post for decoded values with defaults.
type PostDocument struct {
	Title     string `json:"title,omitempty"`
	Content   string `json:"content,omitempty"`
	Author    string `json:"author,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

type Post struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Author    string     `json:"author"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	// Timestamp is the serialized write time carried inside the document itself,
	// kept for records imported without a created_at column value.
	Timestamp string `json:"timestamp,omitempty"`
}

// DisplayTime formats the post's write time as "YYYY-MM-DD HH:MM:SS".
// Posts without a usable timestamp render as "Unknown Date"; this never fails.
func (p *Post) DisplayTime() string {
	if p.CreatedAt != nil && !p.CreatedAt.IsZero() {
		return p.CreatedAt.Format(displayTimeLayout)
	}
	if p.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, p.Timestamp); err == nil {
			return t.Format(displayTimeLayout)
		}
	}
	return "Unknown Date"
}

// PostSummary is a listing row: snippet instead of full content.
type PostSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Snippet   string    `json:"snippet"`
	Author    string    `json:"author"`
	Timestamp string    `json:"timestamp"`
	IsAuthor  bool      `json:"is_author"`
}
