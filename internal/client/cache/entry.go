package cache

import "fmt"

// Status is the load state of a cache entry.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Entry is a snapshot of one cached resource.
//
// Value keeps the last good payload while a reload is in flight or after a
// failed reload. Stale marks a value that has been invalidated and must be
// refetched before it is trusted again.
type Entry struct {
	Key     Key
	Value   any
	Status  Status
	Err     error
	Version uint64
	Stale   bool
}

// HasValue reports whether the entry carries a payload.
func (e Entry) HasValue() bool {
	return e.Value != nil
}

// Patch transforms a cached value into a new one. Implementations must not
// modify current in place.
type Patch interface {
	Apply(current any) (any, error)
}

// PatchFunc adapts a function to Patch.
type PatchFunc func(current any) (any, error)

func (f PatchFunc) Apply(current any) (any, error) { return f(current) }
