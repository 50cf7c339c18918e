package services

import (
	"fmt"

	"github.com/dmitrijs2005/blogsync/internal/client/cache"
	"github.com/dmitrijs2005/blogsync/internal/client/models"
	"github.com/dmitrijs2005/blogsync/internal/common"
)

// SessionReader exposes the identity of the signed-in user.
type SessionReader interface {
	Identity() (models.Identity, bool)
}

func subjectOf(s SessionReader) (string, error) {
	id, ok := s.Identity()
	if !ok {
		return "", common.ErrAuthRequired
	}
	return id.Subject, nil
}

// valueOf unwraps a typed value from a fetched entry.
func valueOf[T any](e cache.Entry, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	v, ok := e.Value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s", common.ErrNotCached, e.Key)
	}
	return v, nil
}
