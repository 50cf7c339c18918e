package mutation

import "github.com/dmitrijs2005/blogsync/internal/client/cache"

// Change is an optimistic patch that knows how to undo itself. Inverse
// receives the value the patch was applied to and returns the patch that
// turns the patched value back into it.
type Change interface {
	cache.Patch
	Inverse(prior any) cache.Patch
}
