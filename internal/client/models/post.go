// Package models defines the resources the client reads from the blog API
// and keeps in its resource cache.
package models

import (
	"slices"
	"time"
)

// Comment is a reader comment attached to a post.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is a published blog post.
//
// Claps holds the subjects who clapped. Comments is nil when the server
// omitted the field, which is different from an empty list.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	ClapCount int       `json:"clapCount"`
	Claps     []string  `json:"claps"`
	Comments  []Comment `json:"comments"`
}

// Clone returns a deep copy of p. Cached posts are replaced, never mutated,
// so every patch starts from a clone.
func (p Post) Clone() Post {
	c := p
	c.Claps = slices.Clone(p.Claps)
	c.Comments = slices.Clone(p.Comments)
	return c
}

// HasClapped reports whether subject is among the post's claps.
func (p Post) HasClapped(subject string) bool {
	return slices.Contains(p.Claps, subject)
}

// HasCommented reports whether subject authored any comment on the post.
func (p Post) HasCommented(subject string) bool {
	return slices.ContainsFunc(p.Comments, func(c Comment) bool { return c.Author == subject })
}

// CommentCount returns the number of comments and whether it is known.
// The count is unknown when the server did not send a comments field.
func (p Post) CommentCount() (int, bool) {
	if p.Comments == nil {
		return 0, false
	}
	return len(p.Comments), true
}
