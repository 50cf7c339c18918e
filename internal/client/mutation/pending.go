package mutation

import (
	"fmt"

	"github.com/dmitrijs2005/blogsync/internal/client/cache"
	"github.com/google/uuid"
)

// Kind names a user-initiated write.
type Kind string

const (
	KindToggleClap  Kind = "toggle_clap"
	KindAddComment  Kind = "add_comment"
	KindSaveDraft   Kind = "save_draft"
	KindPublish     Kind = "publish"
	KindDeleteDraft Kind = "delete_draft"
	KindShareDraft  Kind = "share_draft"
)

// Status is the phase of a pending mutation.
type Status int

const (
	StatusApplied Status = iota
	StatusCommitting
	StatusCommitted
	StatusRolledBack
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusCommitting:
		return "committing"
	case StatusCommitted:
		return "committed"
	case StatusRolledBack:
		return "rolled_back"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// PendingMutation records one write as it moves through
// Applied -> Committing -> Committed | RolledBack.
//
// Inverse is nil when nothing was applied locally, either because the
// change is empty or because the target was not cached.
type PendingMutation struct {
	ID         uuid.UUID
	TargetKey  cache.Key
	Kind       Kind
	Optimistic cache.Patch
	Inverse    cache.Patch
	Status     Status
}
