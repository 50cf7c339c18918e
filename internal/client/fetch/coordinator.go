// Package fetch issues reads against the remote API and writes the results
// into the resource cache. Concurrent reads of one key share a single call,
// and a response that arrives after the entry changed is dropped.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/blogsync/internal/client/cache"
	"github.com/dmitrijs2005/blogsync/internal/client/client"
	"github.com/dmitrijs2005/blogsync/internal/client/metrics"
	"github.com/dmitrijs2005/blogsync/internal/client/retry"
	"github.com/dmitrijs2005/blogsync/internal/common"
	"github.com/dmitrijs2005/blogsync/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Loader performs one read attempt. The context carries the credential
// captured when the fetch was issued.
type Loader func(ctx context.Context) (any, error)

// Credentials supplies the bearer credential of the current session.
type Credentials interface {
	Credential() string
}

type Coordinator struct {
	store   *cache.Store
	policy  retry.Policy
	creds   Credentials
	log     logging.Logger
	metrics *metrics.Metrics
	group   singleflight.Group
}

// NewCoordinator wires a coordinator. creds and m may be nil.
func NewCoordinator(store *cache.Store, policy retry.Policy, creds Credentials, log logging.Logger, m *metrics.Metrics) *Coordinator {
	return &Coordinator{
		store:   store,
		policy:  policy,
		creds:   creds,
		log:     log,
		metrics: m,
	}
}

// Store returns the cache the coordinator writes to.
func (c *Coordinator) Store() *cache.Store {
	return c.store
}

// Fetch loads key through load and stores the result. When a fetch of key
// is already in flight the caller receives that fetch's result instead.
//
// The shared load does not stop when a caller's ctx ends: that caller gets
// ctx.Err() and the current entry, and the others keep waiting for the
// result. A response that arrives after the entry's version moved on is
// discarded; Fetch then returns the current entry and a nil error.
func (c *Coordinator) Fetch(ctx context.Context, key cache.Key, load Loader) (cache.Entry, error) {
	ch := c.group.DoChan(key.String(), func() (any, error) {
		return c.load(context.WithoutCancel(ctx), key, load)
	})

	select {
	case res := <-ch:
		entry, _ := res.Val.(cache.Entry)
		return entry, res.Err
	case <-ctx.Done():
		entry, _ := c.store.Get(key)
		return entry, ctx.Err()
	}
}

// Ensure returns the cached entry when it is ready and fresh and fetches it
// otherwise.
func (c *Coordinator) Ensure(ctx context.Context, key cache.Key, load Loader) (cache.Entry, error) {
	if e, ok := c.store.Get(key); ok && e.Status == cache.StatusReady && !e.Stale {
		return e, nil
	}
	return c.Fetch(ctx, key, load)
}

// Seed stores a value obtained outside a fetch, such as a write response.
func (c *Coordinator) Seed(key cache.Key, value any) cache.Entry {
	return c.store.Replace(key, value)
}

func (c *Coordinator) Invalidate(key cache.Key) {
	c.store.Invalidate(key)
}

func (c *Coordinator) InvalidateFamily(family cache.Family) {
	c.store.InvalidateFamily(family)
}

// load runs the read and issues it once more when its response was
// discarded before the entry ever held a value.
func (c *Coordinator) load(ctx context.Context, key cache.Key, load Loader) (cache.Entry, error) {
	entry, discarded, err := c.run(ctx, key, load)
	if !discarded || entry.HasValue() {
		return entry, err
	}

	c.log.Debug(ctx, "reissuing fetch", "key", key.String())
	entry, discarded, err = c.run(ctx, key, load)
	if discarded && !entry.HasValue() {
		return entry, fmt.Errorf("%w: %s", common.ErrStaleResponseDiscarded, key)
	}
	return entry, err
}

func (c *Coordinator) run(ctx context.Context, key cache.Key, load Loader) (cache.Entry, bool, error) {
	family := string(key.Family)

	var token string
	if c.creds != nil {
		token = c.creds.Credential()
	}
	callCtx := client.WithCredential(ctx, token)

	version := c.store.MarkLoading(key)

	var value any
	err := c.policy.Do(callCtx, func(ctx context.Context) error {
		v, err := load(ctx)
		if err != nil {
			return err
		}
		value = v
		return nil
	}, func(attempt int, err error, wait time.Duration) {
		kind := retry.Classify(err)
		c.log.Debug(ctx, "retrying fetch", "key", key.String(), "attempt", attempt+1, "kind", kind.String(), "delay", wait, "error", err)
		c.metrics.FetchRetried(family, kind.String())
	})

	if err != nil {
		entry, ok := c.store.MarkFailedIfVersion(key, version, err)
		if !ok {
			return c.discard(ctx, key, version, entry), true, nil
		}
		c.log.Warn(ctx, "fetch failed", "key", key.String(), "error", err)
		c.metrics.FetchCompleted(family, "failed")
		return entry, false, err
	}

	entry, ok := c.store.ReplaceIfVersion(key, version, value)
	if !ok {
		return c.discard(ctx, key, version, entry), true, nil
	}
	c.metrics.FetchCompleted(family, "ready")
	return entry, false, nil
}

func (c *Coordinator) discard(ctx context.Context, key cache.Key, issued uint64, current cache.Entry) cache.Entry {
	c.log.Debug(ctx, common.ErrStaleResponseDiscarded.Error(), "key", key.String(), "issued_version", issued, "current_version", current.Version)
	c.metrics.ResponseDiscarded(string(key.Family))
	c.store.SettleDiscarded(key)

	if e, ok := c.store.Get(key); ok {
		return e
	}
	return current
}
