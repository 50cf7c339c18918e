package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/blogsync/internal/client/cache"
	"github.com/dmitrijs2005/blogsync/internal/client/client"
	"github.com/dmitrijs2005/blogsync/internal/client/drafts"
	"github.com/dmitrijs2005/blogsync/internal/client/fetch"
	"github.com/dmitrijs2005/blogsync/internal/client/models"
	"github.com/dmitrijs2005/blogsync/internal/client/mutation"
	"github.com/dmitrijs2005/blogsync/internal/common"
	"github.com/go-playground/validator/v10"
)

// DraftQuery selects a drafts listing.
type DraftQuery struct {
	By    drafts.FilterBy
	Query string
}

// Key is the cache key of the listing.
func (q DraftQuery) Key() cache.Key {
	return cache.DraftsKey(q.By.String(), q.Query)
}

// DraftService manages unpublished posts.
//
// Save and Publish reset the form only when the server accepted the write;
// on any error the form keeps what the user typed.
type DraftService interface {
	Drafts(ctx context.Context, q DraftQuery) ([]models.Draft, error)
	Listed(q DraftQuery) []models.Draft
	Admins(ctx context.Context) ([]models.UserSummary, error)
	Save(ctx context.Context, form *models.DraftForm) (*models.Draft, error)
	Publish(ctx context.Context, form *models.DraftForm) (*models.Post, error)
	Delete(ctx context.Context, q DraftQuery, id string) error
	Share(ctx context.Context, id string, adminIDs []string) error
}

type draftService struct {
	api       client.Client
	fetch     *fetch.Coordinator
	mutations *mutation.Controller
	session   SessionReader
	validate  *validator.Validate
}

func NewDraftService(api client.Client, f *fetch.Coordinator, m *mutation.Controller, session SessionReader) DraftService {
	return &draftService{
		api:       api,
		fetch:     f,
		mutations: m,
		session:   session,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Drafts returns the listing for q, narrowed locally by search text and
// ownership.
func (s *draftService) Drafts(ctx context.Context, q DraftQuery) ([]models.Draft, error) {
	subject, err := subjectOf(s.session)
	if err != nil {
		return nil, err
	}

	list, err := valueOf[[]models.Draft](s.fetch.Ensure(ctx, q.Key(), func(ctx context.Context) (any, error) {
		list, err := s.api.ListDrafts(ctx, q.By.String(), q.Query)
		if err != nil {
			return nil, err
		}
		return list, nil
	}))
	if err != nil {
		return nil, err
	}
	return drafts.Filter(list, q.Query, q.By, subject), nil
}

// Listed returns the cached listing for q, narrowed like Drafts, without
// going to the server. It is nil when the listing is not cached or nobody is
// signed in.
func (s *draftService) Listed(q DraftQuery) []models.Draft {
	id, ok := s.session.Identity()
	if !ok {
		return nil
	}
	list, ok := cache.GetAs[[]models.Draft](s.fetch.Store(), q.Key())
	if !ok {
		return nil
	}
	return drafts.Filter(list, q.Query, q.By, id.Subject)
}

func (s *draftService) Admins(ctx context.Context) ([]models.UserSummary, error) {
	if _, err := subjectOf(s.session); err != nil {
		return nil, err
	}
	return valueOf[[]models.UserSummary](s.fetch.Ensure(ctx, cache.UsersKey(), func(ctx context.Context) (any, error) {
		users, err := s.api.ListUsers(ctx)
		if err != nil {
			return nil, err
		}
		return users, nil
	}))
}

func (s *draftService) Save(ctx context.Context, form *models.DraftForm) (*models.Draft, error) {
	if err := s.check(form); err != nil {
		return nil, err
	}

	submitted := *form
	submitted.IsDraft = true

	var saved *models.Draft
	_, err := s.mutations.Mutate(ctx, mutation.Request{
		Target: cache.DraftKey(submitted.ID),
		Kind:   mutation.KindSaveDraft,
		Call: func(ctx context.Context) error {
			var err error
			if submitted.ID != "" {
				saved, err = s.api.UpdateDraft(ctx, submitted)
			} else {
				saved, err = s.api.CreateDraft(ctx, submitted)
			}
			return err
		},
		Invalidate: []cache.Family{cache.FamilyDrafts},
	})
	if err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}

	form.Reset()
	return saved, nil
}

func (s *draftService) Publish(ctx context.Context, form *models.DraftForm) (*models.Post, error) {
	if err := s.check(form); err != nil {
		return nil, err
	}

	submitted := *form
	submitted.IsDraft = false

	var post *models.Post
	_, err := s.mutations.Mutate(ctx, mutation.Request{
		Target: cache.DraftKey(submitted.ID),
		Kind:   mutation.KindPublish,
		Call: func(ctx context.Context) error {
			var err error
			post, err = s.api.Publish(ctx, submitted)
			return err
		},
		Invalidate: []cache.Family{
			cache.FamilyDrafts,
			cache.FamilyRecent,
			cache.FamilyFeatured,
			cache.FamilyTrending,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}

	if post != nil && post.ID != "" {
		s.fetch.Seed(cache.PostKey(post.ID), *post)
	}
	form.Reset()
	return post, nil
}

// Delete removes a draft. It disappears from the q listing at once and is
// put back in place if the server refuses.
func (s *draftService) Delete(ctx context.Context, q DraftQuery, id string) error {
	if _, err := subjectOf(s.session); err != nil {
		return err
	}

	_, err := s.mutations.Mutate(ctx, mutation.Request{
		Target: q.Key(),
		Kind:   mutation.KindDeleteDraft,
		Change: removeDraft{id: id},
		Call: func(ctx context.Context) error {
			return s.api.DeleteDraft(ctx, id)
		},
		Invalidate: []cache.Family{cache.FamilyDrafts},
	})
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (s *draftService) Share(ctx context.Context, id string, adminIDs []string) error {
	if len(adminIDs) == 0 {
		return common.ErrNoRecipients
	}
	if _, err := subjectOf(s.session); err != nil {
		return err
	}

	_, err := s.mutations.Mutate(ctx, mutation.Request{
		Target: cache.DraftKey(id),
		Kind:   mutation.KindShareDraft,
		Call: func(ctx context.Context) error {
			return s.api.ShareDraft(ctx, id, adminIDs)
		},
		Invalidate: []cache.Family{cache.FamilyDrafts},
	})
	if err != nil {
		return fmt.Errorf("share draft: %w", err)
	}
	return nil
}

func (s *draftService) check(form *models.DraftForm) error {
	if _, err := subjectOf(s.session); err != nil {
		return err
	}
	if err := s.validate.Struct(form); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}
