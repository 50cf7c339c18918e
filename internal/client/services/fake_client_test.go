package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/blogsync/internal/client/cache"
	"github.com/dmitrijs2005/blogsync/internal/client/fetch"
	"github.com/dmitrijs2005/blogsync/internal/client/models"
	"github.com/dmitrijs2005/blogsync/internal/client/mutation"
	"github.com/dmitrijs2005/blogsync/internal/client/retry"
	"github.com/dmitrijs2005/blogsync/internal/logging"
)

// fakeClient implements client.Client. Unset hooks succeed with zero values.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	getPost     func(ctx context.Context, id string) (*models.Post, error)
	recent      func(ctx context.Context, n int) ([]models.Post, error)
	toggleClap  func(ctx context.Context, id string) error
	addComment  func(ctx context.Context, postID, content, author string) (*models.Comment, error)
	listDrafts  func(ctx context.Context, filter, search string) ([]models.Draft, error)
	createDraft func(ctx context.Context, form models.DraftForm) (*models.Draft, error)
	updateDraft func(ctx context.Context, form models.DraftForm) (*models.Draft, error)
	deleteDraft func(ctx context.Context, id string) error
	shareDraft  func(ctx context.Context, id string, adminIDs []string) error
	publish     func(ctx context.Context, form models.DraftForm) (*models.Post, error)
	listUsers   func(ctx context.Context) ([]models.UserSummary, error)
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	f.record("Login")
	return &models.LoginResult{}, nil
}

func (f *fakeClient) Register(ctx context.Context, req models.RegisterRequest) error {
	f.record("Register")
	return nil
}

func (f *fakeClient) GetPost(ctx context.Context, id string) (*models.Post, error) {
	f.record("GetPost")
	if f.getPost != nil {
		return f.getPost(ctx, id)
	}
	return &models.Post{ID: id}, nil
}

func (f *fakeClient) RecentPosts(ctx context.Context, number int) ([]models.Post, error) {
	f.record("RecentPosts")
	if f.recent != nil {
		return f.recent(ctx, number)
	}
	return []models.Post{}, nil
}

func (f *fakeClient) FeaturedPosts(ctx context.Context) ([]models.Post, error) {
	f.record("FeaturedPosts")
	return []models.Post{{ID: "f1"}}, nil
}

func (f *fakeClient) TrendingPosts(ctx context.Context) ([]models.Post, error) {
	f.record("TrendingPosts")
	return []models.Post{{ID: "t1"}}, nil
}

func (f *fakeClient) ToggleClap(ctx context.Context, postID string) error {
	f.record("ToggleClap")
	if f.toggleClap != nil {
		return f.toggleClap(ctx, postID)
	}
	return nil
}

func (f *fakeClient) AddComment(ctx context.Context, postID, content, author string) (*models.Comment, error) {
	f.record("AddComment")
	if f.addComment != nil {
		return f.addComment(ctx, postID, content, author)
	}
	return &models.Comment{ID: "c-server", Content: content, Author: author}, nil
}

func (f *fakeClient) ListDrafts(ctx context.Context, filter, search string) ([]models.Draft, error) {
	f.record("ListDrafts")
	if f.listDrafts != nil {
		return f.listDrafts(ctx, filter, search)
	}
	return []models.Draft{}, nil
}

func (f *fakeClient) CreateDraft(ctx context.Context, form models.DraftForm) (*models.Draft, error) {
	f.record("CreateDraft")
	if f.createDraft != nil {
		return f.createDraft(ctx, form)
	}
	return &models.Draft{ID: "new-id", Title: form.Title}, nil
}

func (f *fakeClient) UpdateDraft(ctx context.Context, form models.DraftForm) (*models.Draft, error) {
	f.record("UpdateDraft")
	if f.updateDraft != nil {
		return f.updateDraft(ctx, form)
	}
	return &models.Draft{ID: form.ID, Title: form.Title}, nil
}

func (f *fakeClient) DeleteDraft(ctx context.Context, id string) error {
	f.record("DeleteDraft")
	if f.deleteDraft != nil {
		return f.deleteDraft(ctx, id)
	}
	return nil
}

func (f *fakeClient) ShareDraft(ctx context.Context, id string, adminIDs []string) error {
	f.record("ShareDraft")
	if f.shareDraft != nil {
		return f.shareDraft(ctx, id, adminIDs)
	}
	return nil
}

func (f *fakeClient) Publish(ctx context.Context, form models.DraftForm) (*models.Post, error) {
	f.record("Publish")
	if f.publish != nil {
		return f.publish(ctx, form)
	}
	return &models.Post{ID: "p-new", Title: form.Title}, nil
}

func (f *fakeClient) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	f.record("ListUsers")
	if f.listUsers != nil {
		return f.listUsers(ctx)
	}
	return []models.UserSummary{}, nil
}

// fakeSession is a signed-in (or signed-out) session.
type fakeSession struct {
	identity *models.Identity
}

func (s fakeSession) Identity() (models.Identity, bool) {
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

func (s fakeSession) Credential() string {
	if s.identity == nil {
		return ""
	}
	return "tok"
}

func signedIn(subject string) fakeSession {
	return fakeSession{identity: &models.Identity{Subject: subject, Role: "admin"}}
}

type harness struct {
	api   *fakeClient
	store *cache.Store
	fetch *fetch.Coordinator
	mut   *mutation.Controller
}

func newHarness(sess fakeSession) *harness {
	log := logging.NewDiscardLogger()
	store := cache.NewStore()
	policy := retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
	return &harness{
		api:   &fakeClient{},
		store: store,
		fetch: fetch.NewCoordinator(store, policy, sess, log, nil),
		mut:   mutation.NewController(store, sess, log, nil),
	}
}
