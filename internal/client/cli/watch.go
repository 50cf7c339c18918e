package cli

import (
	"github.com/dmitrijs2005/blogsync/internal/client/cache"
	"github.com/dmitrijs2005/blogsync/internal/client/drafts"
	"github.com/dmitrijs2005/blogsync/internal/client/models"
	"github.com/dmitrijs2005/blogsync/internal/client/mutation"
	"github.com/dmitrijs2005/blogsync/internal/client/services"
)

// pendingLookup finds the unresolved write behind a cache change.
type pendingLookup interface {
	InFlight(key cache.Key) (mutation.PendingMutation, bool)
}

// watchPost makes postID the post whose cache changes are reported.
func (a *App) watchPost(postID string) {
	if a.store == nil {
		return
	}
	key := cache.PostKey(postID)

	a.mu.Lock()
	if a.watched == key && a.unwatch != nil {
		a.mu.Unlock()
		return
	}
	old := a.unwatch
	a.watched = key
	a.unwatch = a.store.Subscribe(key, a.onPostChange)
	a.mu.Unlock()

	if old != nil {
		old()
	}
}

func (a *App) setView(q services.DraftQuery) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view = q
}

func (a *App) currentView() services.DraftQuery {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// pendingChange returns the write that produced e when e is its optimistic
// apply or its rollback. Superseded snapshots are ignored.
func (a *App) pendingChange(e cache.Entry) (mutation.PendingMutation, bool) {
	if a.pending == nil || a.store == nil {
		return mutation.PendingMutation{}, false
	}
	if e.Version < a.store.Version(e.Key) {
		return mutation.PendingMutation{}, false
	}
	pm, ok := a.pending.InFlight(e.Key)
	if !ok || (pm.Status != mutation.StatusApplied && pm.Status != mutation.StatusRolledBack) {
		return mutation.PendingMutation{}, false
	}
	return pm, true
}

func (a *App) onPostChange(e cache.Entry) {
	pm, ok := a.pendingChange(e)
	if !ok {
		return
	}
	p, ok := e.Value.(models.Post)
	if !ok {
		return
	}

	switch pm.Kind {
	case mutation.KindAddComment:
		a.printf("%s %s, %s comments\n", kindLabel(pm.Kind), phase(pm.Status), commentCount(p))
	default:
		a.printf("%s %s, %d claps\n", kindLabel(pm.Kind), phase(pm.Status), p.ClapCount)
	}
}

func (a *App) onDraftsChange(e cache.Entry) {
	q := a.currentView()
	if e.Key != q.Key() {
		return
	}
	pm, ok := a.pendingChange(e)
	if !ok {
		return
	}
	list, _ := e.Value.([]models.Draft)
	shown := drafts.Filter(list, q.Query, q.By, a.subject())
	a.printf("%s %s, %d drafts listed\n", kindLabel(pm.Kind), phase(pm.Status), len(shown))
}

func phase(s mutation.Status) string {
	if s == mutation.StatusRolledBack {
		return "rolled back"
	}
	return "applied"
}

func kindLabel(k mutation.Kind) string {
	switch k {
	case mutation.KindToggleClap:
		return "clap"
	case mutation.KindAddComment:
		return "comment"
	case mutation.KindDeleteDraft:
		return "delete"
	}
	return string(k)
}
