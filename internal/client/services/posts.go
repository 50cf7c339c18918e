package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogsync/internal/client/cache"
	"github.com/dmitrijs2005/blogsync/internal/client/client"
	"github.com/dmitrijs2005/blogsync/internal/client/fetch"
	"github.com/dmitrijs2005/blogsync/internal/client/models"
	"github.com/dmitrijs2005/blogsync/internal/client/mutation"
	"github.com/dmitrijs2005/blogsync/internal/common"
	"github.com/google/uuid"
)

// PostService reads published posts and applies reader interactions.
//
// Reads serve a fresh cached copy when there is one. ToggleClap and
// AddComment are optimistic: the cache shows the change immediately and
// is rolled back if the server rejects it.
type PostService interface {
	Post(ctx context.Context, id string) (models.Post, error)
	Recent(ctx context.Context) ([]models.Post, error)
	Featured(ctx context.Context) ([]models.Post, error)
	Trending(ctx context.Context) ([]models.Post, error)
	ToggleClap(ctx context.Context, postID string) error
	AddComment(ctx context.Context, postID, content string) (*models.Comment, error)
}

type postService struct {
	api         client.Client
	fetch       *fetch.Coordinator
	mutations   *mutation.Controller
	session     SessionReader
	recentCount int
}

func NewPostService(api client.Client, f *fetch.Coordinator, m *mutation.Controller, session SessionReader, recentCount int) PostService {
	return &postService{
		api:         api,
		fetch:       f,
		mutations:   m,
		session:     session,
		recentCount: recentCount,
	}
}

func (s *postService) Post(ctx context.Context, id string) (models.Post, error) {
	return valueOf[models.Post](s.fetch.Ensure(ctx, cache.PostKey(id), func(ctx context.Context) (any, error) {
		p, err := s.api.GetPost(ctx, id)
		if err != nil {
			return nil, err
		}
		return *p, nil
	}))
}

func (s *postService) Recent(ctx context.Context) ([]models.Post, error) {
	return s.list(ctx, cache.RecentKey(s.recentCount), func(ctx context.Context) ([]models.Post, error) {
		return s.api.RecentPosts(ctx, s.recentCount)
	})
}

func (s *postService) Featured(ctx context.Context) ([]models.Post, error) {
	return s.list(ctx, cache.FeaturedKey(), s.api.FeaturedPosts)
}

func (s *postService) Trending(ctx context.Context) ([]models.Post, error) {
	return s.list(ctx, cache.TrendingKey(), s.api.TrendingPosts)
}

func (s *postService) list(ctx context.Context, key cache.Key, load func(context.Context) ([]models.Post, error)) ([]models.Post, error) {
	return valueOf[[]models.Post](s.fetch.Ensure(ctx, key, func(ctx context.Context) (any, error) {
		posts, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return posts, nil
	}))
}

func (s *postService) ToggleClap(ctx context.Context, postID string) error {
	subject, err := subjectOf(s.session)
	if err != nil {
		return err
	}

	_, err = s.mutations.Mutate(ctx, mutation.Request{
		Target: cache.PostKey(postID),
		Kind:   mutation.KindToggleClap,
		Change: toggleClap{subject: subject},
		Call: func(ctx context.Context) error {
			return s.api.ToggleClap(ctx, postID)
		},
		Invalidate: []cache.Family{cache.FamilyTrending},
	})
	if err != nil {
		return fmt.Errorf("toggle clap: %w", err)
	}
	return nil
}

func (s *postService) AddComment(ctx context.Context, postID, content string) (*models.Comment, error) {
	subject, err := subjectOf(s.session)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment is empty", common.ErrValidation)
	}

	local := models.Comment{
		ID:        "tmp-" + uuid.NewString(),
		Content:   content,
		Author:    subject,
		CreatedAt: time.Now(),
	}

	var created *models.Comment
	_, err = s.mutations.Mutate(ctx, mutation.Request{
		Target: cache.PostKey(postID),
		Kind:   mutation.KindAddComment,
		Change: appendComment{comment: local},
		Guard: func(current cache.Entry) error {
			if p, ok := current.Value.(models.Post); ok && p.HasCommented(subject) {
				return common.ErrDuplicateComment
			}
			return nil
		},
		Call: func(ctx context.Context) error {
			c, err := s.api.AddComment(ctx, postID, content, subject)
			created = c
			return err
		},
	})
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return created, nil
}
