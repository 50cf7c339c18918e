// Package drafts filters and searches a materialized list of drafts.
package drafts

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/blogsync/internal/client/models"
)

// FilterBy selects drafts by ownership.
type FilterBy int

const (
	All FilterBy = iota
	Mine
	Shared
)

func (f FilterBy) String() string {
	switch f {
	case All:
		return "all"
	case Mine:
		return "mine"
	case Shared:
		return "shared"
	}
	return fmt.Sprintf("filter(%d)", int(f))
}

// ParseFilter accepts all, mine or shared in any case. An empty string is All.
func ParseFilter(s string) (FilterBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "mine":
		return Mine, nil
	case "shared":
		return Shared, nil
	}
	return All, fmt.Errorf("unknown draft filter %q", s)
}

// Filter returns the drafts whose title or content contains query, ignoring
// case, and that pass the ownership filter for subject. The input is not
// modified and the order is kept.
func Filter(list []models.Draft, query string, by FilterBy, subject string) []models.Draft {
	q := strings.ToLower(query)
	out := make([]models.Draft, 0, len(list))
	for _, d := range list {
		if matches(d, q) && owned(d, by, subject) {
			out = append(out, d)
		}
	}
	return out
}

func matches(d models.Draft, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Title), q) ||
		strings.Contains(strings.ToLower(d.Content), q)
}

func owned(d models.Draft, by FilterBy, subject string) bool {
	switch by {
	case Mine:
		return d.CreatedBy == subject
	case Shared:
		return d.IsSharedWith(subject)
	}
	return true
}
