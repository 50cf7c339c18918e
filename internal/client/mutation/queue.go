package mutation

import (
	"context"

	"github.com/dmitrijs2005/blogsync/internal/client/cache"
)

// enqueue blocks until every earlier mutation of key has finished.
// The returned release must be called exactly once when the caller is done.
// If ctx ends while waiting, the caller's slot is released as soon as its
// predecessor finishes, so later mutations keep their order.
func (c *Controller) enqueue(ctx context.Context, key cache.Key) (func(), error) {
	c.mu.Lock()
	prev := c.tails[key]
	mine := make(chan struct{})
	c.tails[key] = mine
	c.mu.Unlock()

	release := func() {
		c.mu.Lock()
		if c.tails[key] == mine {
			delete(c.tails, key)
		}
		c.mu.Unlock()
		close(mine)
	}

	if prev == nil {
		return release, nil
	}

	select {
	case <-prev:
		return release, nil
	case <-ctx.Done():
		go func() {
			<-prev
			release()
		}()
		return nil, ctx.Err()
	}
}
