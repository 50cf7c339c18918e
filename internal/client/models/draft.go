package models

import (
	"slices"
	"time"
)

// DraftAuthor is the byline attached to a draft or a published post.
type DraftAuthor struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// Draft is an unpublished post visible to its creator and to the admins it
// was shared with.
type Draft struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Content      string      `json:"content"`
	Author       DraftAuthor `json:"author"`
	CreatedBy    string      `json:"createdBy"`
	SharedWith   []string    `json:"sharedWith"`
	LastModified time.Time   `json:"lastModified"`
}

// IsSharedWith reports whether subject is a recipient of the draft.
func (d Draft) IsSharedWith(subject string) bool {
	return slices.Contains(d.SharedWith, subject)
}

// DraftForm is the editable state behind the draft editor. ID is empty for a
// draft that has not been saved yet.
type DraftForm struct {
	ID      string      `json:"id,omitempty"`
	Title   string      `json:"title" validate:"required"`
	Content string      `json:"content" validate:"required"`
	Author  DraftAuthor `json:"author"`
	IsDraft bool        `json:"isDraft"`
}

// Reset clears the form after a successful save or publish.
func (f *DraftForm) Reset() {
	*f = DraftForm{}
}

// FormFromDraft loads a stored draft into the editor.
func FormFromDraft(d Draft) DraftForm {
	return DraftForm{
		ID:      d.ID,
		Title:   d.Title,
		Content: d.Content,
		Author:  d.Author,
		IsDraft: true,
	}
}
