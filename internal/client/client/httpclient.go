package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogsync/internal/client/models"
	"github.com/dmitrijs2005/blogsync/internal/common"
)

// HTTPClient implements Client over the JSON REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client rooted at baseURL (e.g.
// "http://localhost:8080/api/v1"). A zero timeout means no client timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type loginResponse struct {
	Data models.LoginResult `json:"data"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Token == "" {
		return nil, fmt.Errorf("%w: login response has no token", common.ErrDecode)
	}
	return &resp.Data, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", nil, req, nil)
}

func (c *HTTPClient) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodGet, "/blog/"+url.PathEscape(id), nil, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *HTTPClient) RecentPosts(ctx context.Context, number int) ([]models.Post, error) {
	q := url.Values{"number": {strconv.Itoa(number)}}
	return c.listPosts(ctx, "/blog/recent", q)
}

func (c *HTTPClient) FeaturedPosts(ctx context.Context) ([]models.Post, error) {
	return c.listPosts(ctx, "/blog/featured", nil)
}

func (c *HTTPClient) TrendingPosts(ctx context.Context) ([]models.Post, error) {
	return c.listPosts(ctx, "/blog/trending", nil)
}

func (c *HTTPClient) listPosts(ctx context.Context, path string, q url.Values) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, path, q, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *HTTPClient) ToggleClap(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodPost, "/blog/"+url.PathEscape(postID)+"/clap", nil, struct{}{}, nil)
}

func (c *HTTPClient) AddComment(ctx context.Context, postID, content, author string) (*models.Comment, error) {
	body := map[string]string{"content": content, "postId": postID, "author": author}

	var comment *models.Comment
	if err := c.doOptional(ctx, http.MethodPost, "/comment/"+url.PathEscape(postID)+"/comments", body, &comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (c *HTTPClient) ListDrafts(ctx context.Context, filter, search string) ([]models.Draft, error) {
	q := url.Values{"filter": {filter}, "search": {search}}

	var drafts []models.Draft
	if err := c.do(ctx, http.MethodGet, "/blog/drafts", q, nil, &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

func (c *HTTPClient) CreateDraft(ctx context.Context, form models.DraftForm) (*models.Draft, error) {
	var draft *models.Draft
	if err := c.doOptional(ctx, http.MethodPost, "/blog/drafts", form, &draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (c *HTTPClient) UpdateDraft(ctx context.Context, form models.DraftForm) (*models.Draft, error) {
	var draft *models.Draft
	if err := c.doOptional(ctx, http.MethodPut, "/blog/drafts/"+url.PathEscape(form.ID), form, &draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (c *HTTPClient) DeleteDraft(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/blog/drafts/"+url.PathEscape(id), nil, nil, nil)
}

func (c *HTTPClient) ShareDraft(ctx context.Context, id string, adminIDs []string) error {
	body := map[string][]string{"adminIds": adminIDs}
	return c.do(ctx, http.MethodPost, "/blog/drafts/"+url.PathEscape(id)+"/share", nil, body, nil)
}

func (c *HTTPClient) Publish(ctx context.Context, form models.DraftForm) (*models.Post, error) {
	var post *models.Post
	if err := c.doOptional(ctx, http.MethodPost, "/blog/create", form, &post); err != nil {
		return nil, err
	}
	return post, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	var users []models.UserSummary
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// doOptional is do for writes whose response body may be empty; out is left
// untouched in that case. A non-empty body that is not valid JSON is an
// ErrDecode even though the write itself succeeded.
func (c *HTTPClient) doOptional(ctx context.Context, method, path string, body any, out any) error {
	var raw json.RawMessage
	if err := c.do(ctx, method, path, nil, body, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", common.ErrDecode, method, path, err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := CredentialFrom(ctx); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		return fmt.Errorf("%w: %s %s: %v", common.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %v", common.ErrNetwork, method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = bytes.TrimSpace(data)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", common.ErrDecode, method, path, err)
	}
	return nil
}

// mapStatus turns a non-2xx response into a *common.StatusError, keeping the
// server-reported message when the body carries one.
func mapStatus(status int, body []byte) error {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Message == "" {
		er.Message = strings.TrimSpace(string(body))
	}
	if er.Message == "" {
		er.Message = http.StatusText(status)
	}
	return &common.StatusError{Status: status, Message: er.Message}
}
