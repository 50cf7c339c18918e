// Package mutation runs user-initiated writes as a three-phase protocol:
// the change is applied to the cache optimistically, the network call is
// made, and the change is then either committed or rolled back with its
// inverse. Writes to one resource key run strictly one after another.
package mutation

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/blogsync/internal/client/cache"
	"github.com/dmitrijs2005/blogsync/internal/client/client"
	"github.com/dmitrijs2005/blogsync/internal/client/metrics"
	"github.com/dmitrijs2005/blogsync/internal/common"
	"github.com/dmitrijs2005/blogsync/internal/logging"
	"github.com/google/uuid"
)

// Credentials supplies the bearer credential of the current session.
type Credentials interface {
	Credential() string
}

// Request describes one write.
type Request struct {
	Target cache.Key
	Kind   Kind

	// Change is applied to Target before the call. A nil Change is an
	// empty patch.
	Change Change

	// Guard runs once earlier writes of Target have finished and before
	// anything is applied. A non-nil error aborts the mutation.
	Guard func(current cache.Entry) error

	// Call performs the write. Its context carries the credential captured
	// when the mutation started committing.
	Call func(ctx context.Context) error

	// Invalidate lists the families refreshed once the server accepted the
	// write, in addition to Target itself.
	Invalidate []cache.Family
}

type Controller struct {
	store   *cache.Store
	creds   Credentials
	log     logging.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	tails    map[cache.Key]chan struct{}
	inFlight map[cache.Key]*PendingMutation
}

// NewController wires a controller. creds and m may be nil.
func NewController(store *cache.Store, creds Credentials, log logging.Logger, m *metrics.Metrics) *Controller {
	return &Controller{
		store:    store,
		creds:    creds,
		log:      log,
		metrics:  m,
		tails:    make(map[cache.Key]chan struct{}),
		inFlight: make(map[cache.Key]*PendingMutation),
	}
}

// Mutate runs req and returns the final state of its pending mutation.
// Failed calls are never retried: the optimistic change is undone and the
// call's error is returned.
//
// A guard failure or a cancelled wait returns a nil mutation.
func (c *Controller) Mutate(ctx context.Context, req Request) (*PendingMutation, error) {
	release, err := c.enqueue(ctx, req.Target)
	if err != nil {
		return nil, err
	}
	defer release()

	if req.Guard != nil {
		current, _ := c.store.Get(req.Target)
		if err := req.Guard(current); err != nil {
			return nil, err
		}
	}

	pm := &PendingMutation{
		ID:         uuid.New(),
		TargetKey:  req.Target,
		Kind:       req.Kind,
		Optimistic: req.Change,
		Status:     StatusApplied,
	}
	log := c.log.With("mutation_id", pm.ID.String(), "kind", string(req.Kind), "key", req.Target.String())

	c.track(pm)
	defer c.untrack(pm)

	if err := c.apply(ctx, log, pm, req.Change); err != nil {
		return nil, err
	}

	var token string
	if c.creds != nil {
		token = c.creds.Credential()
	}
	c.setStatus(pm, StatusCommitting)
	callErr := req.Call(client.WithCredential(ctx, token))

	if callErr == nil {
		c.setStatus(pm, StatusCommitted)
		c.refresh(req)
		log.Debug(ctx, "mutation committed")
		c.metrics.MutationFinished(string(req.Kind), pm.Status.String())
		return pm, nil
	}

	c.rollback(ctx, log, pm)
	if errors.Is(callErr, common.ErrDecode) {
		// The server accepted the write but its answer could not be read.
		c.refresh(req)
	}
	log.Warn(ctx, "mutation rolled back", "error", callErr)
	c.metrics.MutationFinished(string(req.Kind), pm.Status.String())
	return pm, callErr
}

// InFlight returns a snapshot of the unresolved mutation of key. A mutation
// is visible from the moment its change is applied until its commit or
// rollback has reached the cache, so cache listeners can tell which write
// caused a change.
func (c *Controller) InFlight(key cache.Key) (PendingMutation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pm, ok := c.inFlight[key]
	if !ok {
		return PendingMutation{}, false
	}
	return *pm, true
}

func (c *Controller) track(pm *PendingMutation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight[pm.TargetKey] = pm
}

func (c *Controller) untrack(pm *PendingMutation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[pm.TargetKey] == pm {
		delete(c.inFlight, pm.TargetKey)
	}
}

func (c *Controller) apply(ctx context.Context, log logging.Logger, pm *PendingMutation, change Change) error {
	if change == nil {
		return nil
	}
	prior, err := c.store.ApplyPatch(pm.TargetKey, change)
	switch {
	case errors.Is(err, common.ErrNotCached):
		log.Debug(ctx, "target not cached, skipping optimistic apply")
		return nil
	case err != nil:
		return err
	}
	inverse := change.Inverse(prior.Value)
	c.mu.Lock()
	pm.Inverse = inverse
	c.mu.Unlock()
	return nil
}

// rollback marks pm RolledBack and then restores the prior value, so the
// cache change carrying the inverse is seen with the final status.
func (c *Controller) rollback(ctx context.Context, log logging.Logger, pm *PendingMutation) {
	c.setStatus(pm, StatusRolledBack)
	if pm.Inverse == nil {
		return
	}
	if _, err := c.store.ApplyPatch(pm.TargetKey, pm.Inverse); err != nil {
		log.Error(ctx, "rollback failed, invalidating target", "error", err)
		c.store.Invalidate(pm.TargetKey)
	}
}

func (c *Controller) refresh(req Request) {
	c.store.Invalidate(req.Target)
	for _, f := range req.Invalidate {
		c.store.InvalidateFamily(f)
	}
}

func (c *Controller) setStatus(pm *PendingMutation, s Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pm.Status = s
}
