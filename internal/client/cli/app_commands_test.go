package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/blogsync/internal/client/drafts"
	"github.com/dmitrijs2005/blogsync/internal/client/models"
	"github.com/dmitrijs2005/blogsync/internal/client/services"
	"github.com/dmitrijs2005/blogsync/internal/client/session"
	"github.com/dmitrijs2005/blogsync/internal/common"
	"github.com/dmitrijs2005/blogsync/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func newTestApp(sm sessionManager, ps services.PostService, ds services.DraftService, r *bufio.Reader) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{
		log:     logging.NewDiscardLogger(),
		session: sm,
		posts:   ps,
		drafts:  ds,
		reader:  r,
		out:     out,
	}, out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

type fakeSession struct {
	current *session.Session

	loginEmail, loginPassword string
	loginErr                  error
	registered                *models.RegisterRequest
	registerErr               error
	loggedOut                 bool
}

func (f *fakeSession) Restore(ctx context.Context) *session.Session { return f.current }
func (f *fakeSession) Login(ctx context.Context, email, password string) (*session.Session, error) {
	f.loginEmail, f.loginPassword = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.current = &session.Session{Credential: "tok", Identity: models.Identity{Subject: "alice", Email: email}}
	return f.current, nil
}
func (f *fakeSession) Logout(ctx context.Context) { f.loggedOut = true; f.current = nil }
func (f *fakeSession) Register(ctx context.Context, req models.RegisterRequest) error {
	f.registered = &req
	return f.registerErr
}
func (f *fakeSession) Current() *session.Session { return f.current }

func signedInAs(subject string) *fakeSession {
	return &fakeSession{current: &session.Session{Credential: "tok", Identity: models.Identity{Subject: subject}}}
}

type fakePosts struct {
	post    models.Post
	postErr []error
	postN   int
	recent  []models.Post
	clapped []string
	clapErr error
	comment string
	commErr error
}

func (f *fakePosts) Post(ctx context.Context, id string) (models.Post, error) {
	f.postN++
	if len(f.postErr) > 0 {
		err := f.postErr[0]
		f.postErr = f.postErr[1:]
		if err != nil {
			return models.Post{}, err
		}
	}
	return f.post, nil
}
func (f *fakePosts) Recent(ctx context.Context) ([]models.Post, error)   { return f.recent, nil }
func (f *fakePosts) Featured(ctx context.Context) ([]models.Post, error) { return nil, nil }
func (f *fakePosts) Trending(ctx context.Context) ([]models.Post, error) { return nil, nil }
func (f *fakePosts) ToggleClap(ctx context.Context, postID string) error {
	f.clapped = append(f.clapped, postID)
	return f.clapErr
}
func (f *fakePosts) AddComment(ctx context.Context, postID, content string) (*models.Comment, error) {
	f.comment = content
	if f.commErr != nil {
		return nil, f.commErr
	}
	return &models.Comment{ID: "c1", Content: content}, nil
}

type fakeDrafts struct {
	list        []models.Draft
	query       services.DraftQuery
	listedQuery services.DraftQuery
	saved       *models.DraftForm
	saveErr     error
	deleted     string
	delQuery    services.DraftQuery
	shareID     string
	shareTo     []string
	shareErr    error
}

func (f *fakeDrafts) Drafts(ctx context.Context, q services.DraftQuery) ([]models.Draft, error) {
	f.query = q
	return f.list, nil
}
func (f *fakeDrafts) Listed(q services.DraftQuery) []models.Draft {
	f.listedQuery = q
	return f.list
}
func (f *fakeDrafts) Admins(ctx context.Context) ([]models.UserSummary, error) {
	return []models.UserSummary{{ID: "u1", Username: "root", Email: "root@example.com"}}, nil
}
func (f *fakeDrafts) Save(ctx context.Context, form *models.DraftForm) (*models.Draft, error) {
	snapshot := *form
	f.saved = &snapshot
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	form.Reset()
	return &models.Draft{ID: "d9"}, nil
}
func (f *fakeDrafts) Publish(ctx context.Context, form *models.DraftForm) (*models.Post, error) {
	form.Reset()
	return &models.Post{ID: "p9"}, nil
}
func (f *fakeDrafts) Delete(ctx context.Context, q services.DraftQuery, id string) error {
	f.deleted, f.delQuery = id, q
	return nil
}
func (f *fakeDrafts) Share(ctx context.Context, id string, adminIDs []string) error {
	f.shareID, f.shareTo = id, adminIDs
	return f.shareErr
}

// ------------ tests ------------

func TestLogin_Success(t *testing.T) {
	stubPassword(t, "secret")
	sm := &fakeSession{}
	a, out := newTestApp(sm, nil, nil, readerFromLines("alice@example.com"))

	require.NoError(t, a.Login(context.Background(), nil))

	assert.Equal(t, "alice@example.com", sm.loginEmail)
	assert.Equal(t, "secret", sm.loginPassword)
	assert.Contains(t, out.String(), "Signed in as alice")
	assert.True(t, a.isLoggedIn())
}

func TestLogin_ShowsServerReason(t *testing.T) {
	stubPassword(t, "bad")
	sm := &fakeSession{loginErr: &common.AuthError{Reason: "Invalid credentials"}}
	a, out := newTestApp(sm, nil, nil, readerFromLines("alice@example.com"))

	err := a.Login(context.Background(), nil)

	var authErr *common.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, out.String(), "sign in failed: Invalid credentials")
	assert.False(t, a.isLoggedIn())
}

func TestRegister_PassesFields(t *testing.T) {
	stubPassword(t, "hunter22")
	sm := &fakeSession{}
	a, out := newTestApp(sm, nil, nil, readerFromLines("bob", "bob@example.com"))

	require.NoError(t, a.Register(context.Background(), nil))
	require.NotNil(t, sm.registered)
	assert.Equal(t, models.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "hunter22"}, *sm.registered)
	assert.Contains(t, out.String(), "Account created")
}

func TestLogout_ClearsLocalState(t *testing.T) {
	sm := signedInAs("alice")
	a, _ := newTestApp(sm, nil, nil, readerFromLines())
	a.form.Title = "unsaved"

	require.NoError(t, a.Logout(context.Background(), nil))

	assert.True(t, sm.loggedOut)
	assert.Empty(t, a.form.Title)
}

func TestRecent_UnknownCommentCount(t *testing.T) {
	ps := &fakePosts{recent: []models.Post{
		{ID: "1", Title: "Known", Author: "a", Comments: []models.Comment{{ID: "c"}}},
		{ID: "2", Title: "Unknown", Author: "b"},
	}}
	a, out := newTestApp(&fakeSession{}, ps, nil, readerFromLines())

	require.NoError(t, a.Recent(context.Background(), nil))

	assert.Contains(t, out.String(), "[1] Known by a (0 claps, 1 comments)")
	assert.Contains(t, out.String(), "[2] Unknown by b (0 claps, ? comments)")
}

func TestPost_ManualRetryAfterNetworkFailure(t *testing.T) {
	netErr := fmt.Errorf("%w: connection refused", common.ErrNetwork)
	ps := &fakePosts{post: models.Post{ID: "7", Title: "Hello"}, postErr: []error{netErr, nil}}
	a, out := newTestApp(&fakeSession{}, ps, nil, readerFromLines())

	require.Error(t, a.Post(context.Background(), []string{"7"}))
	assert.Contains(t, out.String(), "3 attempts left")
	require.NotNil(t, a.lastFailed)

	require.NoError(t, a.Retry(context.Background(), nil))
	assert.Nil(t, a.lastFailed)
	assert.Contains(t, out.String(), "Hello")
	assert.Equal(t, 2, ps.postN)
}

func TestRetry_BudgetRunsOut(t *testing.T) {
	srvErr := &common.StatusError{Status: 503}
	ps := &fakePosts{postErr: []error{srvErr, srvErr, srvErr, srvErr, srvErr}}
	a, out := newTestApp(&fakeSession{}, ps, nil, readerFromLines())
	ctx := context.Background()

	_ = a.Post(ctx, []string{"1"})
	for range 3 {
		_ = a.Retry(ctx, nil)
	}
	assert.Contains(t, out.String(), "no retries left")
	assert.Nil(t, a.lastFailed)

	out.Reset()
	require.NoError(t, a.Retry(ctx, nil))
	assert.Contains(t, out.String(), "Nothing to retry")
	assert.Equal(t, 4, ps.postN)
}

func TestPost_NotFoundIsNotRetryable(t *testing.T) {
	ps := &fakePosts{postErr: []error{&common.StatusError{Status: 404}}}
	a, out := newTestApp(&fakeSession{}, ps, nil, readerFromLines())

	require.Error(t, a.Post(context.Background(), []string{"x"}))
	assert.Contains(t, out.String(), "Not found")
	assert.Nil(t, a.lastFailed)
}

func TestPost_Usage(t *testing.T) {
	a, out := newTestApp(&fakeSession{}, &fakePosts{}, nil, readerFromLines())
	require.ErrorIs(t, a.Post(context.Background(), nil), errUsage)
	assert.Contains(t, out.String(), "Usage: post <id>")
}

func TestClap_ReportsError(t *testing.T) {
	ps := &fakePosts{clapErr: common.ErrAuthRequired}
	a, out := newTestApp(&fakeSession{}, ps, nil, readerFromLines())

	require.ErrorIs(t, a.Clap(context.Background(), []string{"5"}), common.ErrAuthRequired)
	assert.Equal(t, []string{"5"}, ps.clapped)
	assert.Contains(t, out.String(), "Please log in first")
}

func TestComment_Duplicate(t *testing.T) {
	ps := &fakePosts{commErr: common.ErrDuplicateComment}
	a, out := newTestApp(signedInAs("alice"), ps, nil, readerFromLines("great post", ""))

	require.ErrorIs(t, a.Comment(context.Background(), []string{"5"}), common.ErrDuplicateComment)
	assert.Equal(t, "great post", ps.comment)
	assert.Contains(t, out.String(), "already commented")
}

func TestDrafts_FilterAndQuery(t *testing.T) {
	ds := &fakeDrafts{list: []models.Draft{{ID: "d1", Title: "Go tips", CreatedBy: "alice"}}}
	a, out := newTestApp(signedInAs("alice"), nil, ds, readerFromLines())

	require.NoError(t, a.Drafts(context.Background(), []string{"MINE", "go", "tips"}))

	assert.Equal(t, services.DraftQuery{By: drafts.Mine, Query: "go tips"}, ds.query)
	assert.Equal(t, ds.query, a.currentView())
	assert.Contains(t, out.String(), "[d1] Go tips (by alice)")
}

func TestDrafts_BadFilter(t *testing.T) {
	ds := &fakeDrafts{}
	a, _ := newTestApp(signedInAs("alice"), nil, ds, readerFromLines())
	require.ErrorIs(t, a.Drafts(context.Background(), []string{"others"}), errUsage)
}

func TestEdit_KeepsValuesOnEmptyAnswers(t *testing.T) {
	ds := &fakeDrafts{list: []models.Draft{{
		ID: "d1", Title: "Old", Content: "body",
		Author: models.DraftAuthor{FirstName: "A", LastName: "L", Email: "a@example.com"},
	}}}
	a, _ := newTestApp(signedInAs("alice"), nil, ds, readerFromLines("New title", "", "", "", ""))
	a.setView(services.DraftQuery{By: drafts.Mine})

	require.NoError(t, a.Edit(context.Background(), []string{"d1"}))
	assert.Equal(t, drafts.Mine, ds.listedQuery.By, "edit reads the listing being viewed")

	assert.Equal(t, "d1", a.form.ID)
	assert.Equal(t, "New title", a.form.Title)
	assert.Equal(t, "body", a.form.Content)
	assert.Equal(t, "a@example.com", a.form.Author.Email)
}

func TestEdit_DraftNotListed(t *testing.T) {
	a, out := newTestApp(signedInAs("alice"), nil, &fakeDrafts{}, readerFromLines())

	require.NoError(t, a.Edit(context.Background(), []string{"d1"}))
	assert.Contains(t, out.String(), "Draft not listed")
	assert.Empty(t, a.form.ID)
}

func TestSave_FormKeptOnError(t *testing.T) {
	ds := &fakeDrafts{saveErr: fmt.Errorf("%w: title is required", common.ErrValidation)}
	a, out := newTestApp(signedInAs("alice"), nil, ds, readerFromLines())
	a.form = models.DraftForm{Content: "typed text"}

	require.Error(t, a.Save(context.Background(), nil))
	assert.Equal(t, "typed text", a.form.Content)
	assert.Contains(t, out.String(), "title is required")
}

func TestSaveAndPublish_Success(t *testing.T) {
	ds := &fakeDrafts{}
	a, out := newTestApp(signedInAs("alice"), nil, ds, readerFromLines())
	a.form = models.DraftForm{Title: "T", Content: "C"}

	require.NoError(t, a.Save(context.Background(), nil))
	assert.Equal(t, "T", ds.saved.Title)
	assert.Contains(t, out.String(), "Draft d9 saved")

	a.form = models.DraftForm{Title: "T", Content: "C"}
	require.NoError(t, a.Publish(context.Background(), nil))
	assert.Contains(t, out.String(), "Published as post p9")
	assert.Empty(t, a.form.Title)
}

func TestDelete_UsesCurrentView(t *testing.T) {
	ds := &fakeDrafts{}
	a, _ := newTestApp(signedInAs("alice"), nil, ds, readerFromLines())
	a.setView(services.DraftQuery{By: drafts.Shared})

	require.NoError(t, a.Delete(context.Background(), []string{"d1"}))

	assert.Equal(t, "d1", ds.deleted)
	assert.Equal(t, drafts.Shared, ds.delQuery.By)
}

func TestShare_NoRecipients(t *testing.T) {
	ds := &fakeDrafts{shareErr: common.ErrNoRecipients}
	a, out := newTestApp(signedInAs("alice"), nil, ds, readerFromLines())

	err := a.Share(context.Background(), []string{"d1"})
	require.True(t, errors.Is(err, common.ErrNoRecipients))
	assert.Equal(t, "d1", ds.shareID)
	assert.Contains(t, out.String(), "no recipients selected")
}

func TestWhoami(t *testing.T) {
	a, out := newTestApp(&fakeSession{}, nil, nil, readerFromLines())
	require.NoError(t, a.Whoami(context.Background(), nil))
	assert.Contains(t, out.String(), "Not signed in")

	a.session = signedInAs("alice")
	assert.Equal(t, "(alice)", a.getStatus())
}
