package cache

import (
	"fmt"
	"sync"

	"github.com/dmitrijs2005/blogsync/internal/common"
)

// Listener receives the new snapshot of an entry after every change.
type Listener func(Entry)

type subscription struct {
	id     uint64
	key    Key
	family Family
	byKey  bool
	fn     Listener
}

// Store is a concurrency-safe map of entries with change notification.
//
// Snapshots are queued under the store's lock in the order the changes were
// made and delivered outside it, one at a time, in subscription order. The
// writer that finds the queue idle delivers; a concurrent writer only queues
// and returns, so listeners never see an older snapshot after a newer one.
// A listener may write to the store; its change is delivered after the
// listener returns.
type Store struct {
	mu       sync.Mutex
	entries  map[Key]*Entry
	subs     []subscription
	nextSub  uint64
	pending  []Entry
	flushing bool
}

func NewStore() *Store {
	return &Store{entries: make(map[Key]*Entry)}
}

// Get returns a snapshot of the entry for key.
func (s *Store) Get(key Key) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Entry{Key: key}, false
	}
	return *e, true
}

// Version returns the current version of key, or 0 when it is not cached.
func (s *Store) Version(key Key) uint64 {
	e, _ := s.Get(key)
	return e.Version
}

// MarkLoading sets the entry to Loading and returns the version a response
// must match to be accepted. The version is not bumped; keeping the
// previous value visible while loading is intended.
func (s *Store) MarkLoading(key Key) uint64 {
	s.mu.Lock()
	e := s.entryLocked(key)
	e.Status = StatusLoading
	e.Err = nil
	snap := *e
	s.queueLocked(snap)
	s.mu.Unlock()

	s.flush()
	return snap.Version
}

// Replace stores value as the fresh payload of key.
func (s *Store) Replace(key Key, value any) Entry {
	s.mu.Lock()
	e := s.entryLocked(key)
	s.readyLocked(e, value)
	snap := *e
	s.queueLocked(snap)
	s.mu.Unlock()

	s.flush()
	return snap
}

// ReplaceIfVersion stores value only when the entry is still at version.
// It reports false, leaving the entry untouched, when the entry has moved on.
func (s *Store) ReplaceIfVersion(key Key, version uint64, value any) (Entry, bool) {
	s.mu.Lock()
	e := s.entryLocked(key)
	if e.Version != version {
		snap := *e
		s.mu.Unlock()
		return snap, false
	}
	s.readyLocked(e, value)
	snap := *e
	s.queueLocked(snap)
	s.mu.Unlock()

	s.flush()
	return snap, true
}

// MarkFailed records a load failure. The previous value, if any, is kept.
func (s *Store) MarkFailed(key Key, err error) Entry {
	s.mu.Lock()
	e := s.entryLocked(key)
	e.Status = StatusFailed
	e.Err = err
	snap := *e
	s.queueLocked(snap)
	s.mu.Unlock()

	s.flush()
	return snap
}

// MarkFailedIfVersion records a failure only when the entry is still at
// version.
func (s *Store) MarkFailedIfVersion(key Key, version uint64, err error) (Entry, bool) {
	s.mu.Lock()
	e := s.entryLocked(key)
	if e.Version != version {
		snap := *e
		s.mu.Unlock()
		return snap, false
	}
	e.Status = StatusFailed
	e.Err = err
	snap := *e
	s.queueLocked(snap)
	s.mu.Unlock()

	s.flush()
	return snap, true
}

// SettleDiscarded moves an entry left in Loading by a discarded response
// back to Idle, or to Ready when it still holds a value.
func (s *Store) SettleDiscarded(key Key) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.Status != StatusLoading {
		s.mu.Unlock()
		return
	}
	if e.Value != nil {
		e.Status = StatusReady
	} else {
		e.Status = StatusIdle
	}
	snap := *e
	s.queueLocked(snap)
	s.mu.Unlock()

	s.flush()
}

// ApplyPatch runs p against the cached value of key and stores the result.
// It returns the entry as it was before the patch.
func (s *Store) ApplyPatch(key Key, p Patch) (Entry, error) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.Value == nil {
		s.mu.Unlock()
		return Entry{Key: key}, fmt.Errorf("%w: %s", common.ErrNotCached, key)
	}
	prior := *e
	next, err := p.Apply(e.Value)
	if err != nil {
		s.mu.Unlock()
		return prior, err
	}
	e.Value = next
	e.Version++
	snap := *e
	s.queueLocked(snap)
	s.mu.Unlock()

	s.flush()
	return prior, nil
}

// Invalidate marks key stale. Any in-flight load for the key is outdated
// by the version bump.
func (s *Store) Invalidate(key Key) {
	s.InvalidateWhere(func(k Key) bool { return k == key })
}

// InvalidateFamily marks every key of family stale.
func (s *Store) InvalidateFamily(family Family) {
	s.InvalidateWhere(func(k Key) bool { return k.Family == family })
}

// InvalidateWhere marks every key matching match stale.
func (s *Store) InvalidateWhere(match func(Key) bool) {
	s.mu.Lock()
	for k, e := range s.entries {
		if !match(k) {
			continue
		}
		e.Stale = true
		e.Version++
		s.queueLocked(*e)
	}
	s.mu.Unlock()

	s.flush()
}

// Subscribe registers fn for changes to key. The returned function removes
// the subscription.
func (s *Store) Subscribe(key Key, fn Listener) func() {
	return s.subscribe(subscription{key: key, byKey: true, fn: fn})
}

// SubscribeFamily registers fn for changes to any key of family.
func (s *Store) SubscribeFamily(family Family, fn Listener) func() {
	return s.subscribe(subscription{family: family, fn: fn})
}

func (s *Store) subscribe(sub subscription) func() {
	s.mu.Lock()
	s.nextSub++
	sub.id = s.nextSub
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, existing := range s.subs {
				if existing.id == sub.id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) queueLocked(e Entry) {
	s.pending = append(s.pending, e)
}

// flush delivers queued snapshots unless another caller is already doing so.
func (s *Store) flush() {
	s.mu.Lock()
	if s.flushing {
		s.mu.Unlock()
		return
	}
	s.flushing = true
	done := false
	defer func() {
		if !done {
			// a listener panicked; let the next writer resume delivery
			s.mu.Lock()
			s.flushing = false
			s.mu.Unlock()
		}
	}()

	for len(s.pending) > 0 {
		e := s.pending[0]
		s.pending[0] = Entry{}
		s.pending = s.pending[1:]
		targets := s.listenersLocked(e.Key)
		s.mu.Unlock()

		for _, fn := range targets {
			fn(e)
		}
		s.mu.Lock()
	}
	s.flushing = false
	done = true
	s.mu.Unlock()
}

func (s *Store) listenersLocked(key Key) []Listener {
	var targets []Listener
	for _, sub := range s.subs {
		if (sub.byKey && sub.key == key) || (!sub.byKey && sub.family == key.Family) {
			targets = append(targets, sub.fn)
		}
	}
	return targets
}

func (s *Store) entryLocked(key Key) *Entry {
	e, ok := s.entries[key]
	if !ok {
		e = &Entry{Key: key}
		s.entries[key] = e
	}
	return e
}

func (s *Store) readyLocked(e *Entry, value any) {
	e.Value = value
	e.Status = StatusReady
	e.Err = nil
	e.Stale = false
	e.Version++
}

// GetAs returns the cached value of key as T.
func GetAs[T any](s *Store, key Key) (T, bool) {
	var zero T
	e, ok := s.Get(key)
	if !ok || e.Value == nil {
		return zero, false
	}
	v, ok := e.Value.(T)
	return v, ok
}
