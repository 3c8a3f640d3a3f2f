package models

import "time"

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) Validate() error {
	if c.Content == "" {
		return &ValidationError{Entity: "comment", ID: c.ID, Field: "content", Err: ErrMissingField}
	}
	if c.AuthorID == "" {
		return &ValidationError{Entity: "comment", ID: c.ID, Field: "author_id", Err: ErrMissingField}
	}
	return nil
}
