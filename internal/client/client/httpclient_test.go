package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/blogsync/internal/client/models"
	"github.com/dmitrijs2005/blogsync/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, setup func(r chi.Router)) *HTTPClient {
	t.Helper()
	r := chi.NewRouter()
	setup(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/api/v1/", 2*time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin_ReturnsPayload(t *testing.T) {
	var gotBody map[string]string
	c := newTestServer(t, func(r chi.Router) {
		r.Post("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			writeJSON(w, http.StatusOK, map[string]any{
				"data": map[string]string{"token": "tok", "username": "bob", "email": "bob@example.org", "role": "admin"},
			})
		})
	})

	res, err := c.Login(context.Background(), "bob@example.org", "secret")
	require.NoError(t, err)
	assert.Equal(t, &models.LoginResult{Token: "tok", Username: "bob", Email: "bob@example.org", Role: "admin"}, res)
	assert.Equal(t, map[string]string{"email": "bob@example.org", "password": "secret"}, gotBody)
}

func TestLogin_MissingTokenIsDecodeError(t *testing.T) {
	c := newTestServer(t, func(r chi.Router) {
		r.Post("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{}})
		})
	})

	_, err := c.Login(context.Background(), "a", "b")
	require.ErrorIs(t, err, common.ErrDecode)
}

func TestLogin_RejectedCarriesServerMessage(t *testing.T) {
	c := newTestServer(t, func(r chi.Router) {
		r.Post("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		})
	})

	_, err := c.Login(context.Background(), "a", "b")
	require.ErrorIs(t, err, common.ErrClient)

	var se *common.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Status)
	assert.Equal(t, "invalid credentials", se.Message)
}

func TestGetPost_AttachesCredentialFromContext(t *testing.T) {
	var gotAuth string
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/api/v1/blog/{id}", func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			writeJSON(w, http.StatusOK, models.Post{ID: chi.URLParam(r, "id"), Title: "Hello", ClapCount: 2})
		})
	})

	ctx := WithCredential(context.Background(), "tok")
	post, err := c.GetPost(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "42", post.ID)
	assert.Equal(t, 2, post.ClapCount)
}

func TestGetPost_NoCredentialNoHeader(t *testing.T) {
	gotAuth := "unset"
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/api/v1/blog/{id}", func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			writeJSON(w, http.StatusOK, models.Post{ID: "1"})
		})
	})

	_, err := c.GetPost(context.Background(), "1")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestGetPost_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name:    "server error",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			want:    common.ErrServer,
		},
		{
			name:    "not found",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
			want:    common.ErrClient,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"id":`))
			},
			want: common.ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(r chi.Router) { r.Get("/api/v1/blog/{id}", tt.handler) })
			_, err := c.GetPost(context.Background(), "1")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewHTTPClient(base, time.Second)
	_, err := c.FeaturedPosts(context.Background())
	require.ErrorIs(t, err, common.ErrNetwork)
}

func TestCanceledContextIsNotNetworkError(t *testing.T) {
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/api/v1/blog/trending", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []models.Post{})
		})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.TrendingPosts(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, common.ErrNetwork)
}

func TestRecentAndDraftQueries(t *testing.T) {
	var recentNumber, filter, search string
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/api/v1/blog/recent", func(w http.ResponseWriter, r *http.Request) {
			recentNumber = r.URL.Query().Get("number")
			writeJSON(w, http.StatusOK, []models.Post{{ID: "1"}, {ID: "2"}})
		})
		r.Get("/api/v1/blog/drafts", func(w http.ResponseWriter, r *http.Request) {
			filter = r.URL.Query().Get("filter")
			search = r.URL.Query().Get("search")
			writeJSON(w, http.StatusOK, []models.Draft{{ID: "d1", CreatedBy: "bob"}})
		})
	})

	posts, err := c.RecentPosts(context.Background(), 4)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "4", recentNumber)

	drafts, err := c.ListDrafts(context.Background(), "mine", "go")
	require.NoError(t, err)
	assert.Equal(t, []models.Draft{{ID: "d1", CreatedBy: "bob"}}, drafts)
	assert.Equal(t, "mine", filter)
	assert.Equal(t, "go", search)
}

func TestWrites(t *testing.T) {
	var (
		clapped   string
		comment   map[string]string
		shared    map[string][]string
		deleted   string
		updatedID string
	)
	c := newTestServer(t, func(r chi.Router) {
		r.Post("/api/v1/blog/{id}/clap", func(w http.ResponseWriter, r *http.Request) {
			clapped = chi.URLParam(r, "id")
			w.WriteHeader(http.StatusOK)
		})
		r.Post("/api/v1/comment/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&comment)
			writeJSON(w, http.StatusCreated, models.Comment{ID: "c9", Content: comment["content"], Author: comment["author"]})
		})
		r.Post("/api/v1/blog/drafts/{id}/share", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&shared)
			w.WriteHeader(http.StatusNoContent)
		})
		r.Delete("/api/v1/blog/drafts/{id}", func(w http.ResponseWriter, r *http.Request) {
			deleted = chi.URLParam(r, "id")
			w.WriteHeader(http.StatusNoContent)
		})
		r.Put("/api/v1/blog/drafts/{id}", func(w http.ResponseWriter, r *http.Request) {
			updatedID = chi.URLParam(r, "id")
			w.WriteHeader(http.StatusOK)
		})
		r.Post("/api/v1/blog/create", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, models.Post{ID: "p1", Title: "Published"})
		})
	})
	ctx := WithCredential(context.Background(), "tok")

	require.NoError(t, c.ToggleClap(ctx, "p1"))
	assert.Equal(t, "p1", clapped)

	cm, err := c.AddComment(ctx, "p1", "nice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "c9", cm.ID)
	assert.Equal(t, map[string]string{"content": "nice", "postId": "p1", "author": "bob"}, comment)

	require.NoError(t, c.ShareDraft(ctx, "d1", []string{"amy", "joe"}))
	assert.Equal(t, map[string][]string{"adminIds": {"amy", "joe"}}, shared)

	require.NoError(t, c.DeleteDraft(ctx, "d1"))
	assert.Equal(t, "d1", deleted)

	d, err := c.UpdateDraft(ctx, models.DraftForm{ID: "d2", Title: "T"})
	require.NoError(t, err)
	assert.Nil(t, d, "empty body yields no draft")
	assert.Equal(t, "d2", updatedID)

	p, err := c.Publish(ctx, models.DraftForm{Title: "Published"})
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}

func TestPublish_MalformedResponseAfterSuccess(t *testing.T) {
	c := newTestServer(t, func(r chi.Router) {
		r.Post("/api/v1/blog/create", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`<html>ok</html>`))
		})
	})

	_, err := c.Publish(context.Background(), models.DraftForm{Title: "x"})
	require.ErrorIs(t, err, common.ErrDecode)
}

func TestCredentialFrom_Empty(t *testing.T) {
	assert.Empty(t, CredentialFrom(context.Background()))
	assert.Equal(t, "t", CredentialFrom(WithCredential(context.Background(), "t")))
}
