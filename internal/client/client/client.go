package client

import (
	"context"

	"github.com/dmitrijs2005/blogsync/internal/client/models"
)

// Client is the contract of the remote blog API consumed by the client.
// Protected calls read the bearer credential from the context (see
// WithCredential); the credential is captured when the call is issued.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	Register(ctx context.Context, req models.RegisterRequest) error

	GetPost(ctx context.Context, id string) (*models.Post, error)
	RecentPosts(ctx context.Context, number int) ([]models.Post, error)
	FeaturedPosts(ctx context.Context) ([]models.Post, error)
	TrendingPosts(ctx context.Context) ([]models.Post, error)
	ToggleClap(ctx context.Context, postID string) error
	AddComment(ctx context.Context, postID, content, author string) (*models.Comment, error)

	ListDrafts(ctx context.Context, filter, search string) ([]models.Draft, error)
	CreateDraft(ctx context.Context, form models.DraftForm) (*models.Draft, error)
	UpdateDraft(ctx context.Context, form models.DraftForm) (*models.Draft, error)
	DeleteDraft(ctx context.Context, id string) error
	ShareDraft(ctx context.Context, id string, adminIDs []string) error
	Publish(ctx context.Context, form models.DraftForm) (*models.Post, error)

	ListUsers(ctx context.Context) ([]models.UserSummary, error)
}

type credentialKey struct{}

// WithCredential returns a context carrying the bearer credential to attach
// to outbound requests. An empty token clears it.
func WithCredential(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, credentialKey{}, token)
}

// CredentialFrom returns the credential stored by WithCredential, or "".
func CredentialFrom(ctx context.Context) string {
	token, _ := ctx.Value(credentialKey{}).(string)
	return token
}
