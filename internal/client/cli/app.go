package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/blogsync/internal/client/cache"
	"github.com/dmitrijs2005/blogsync/internal/client/client"
	"github.com/dmitrijs2005/blogsync/internal/client/config"
	"github.com/dmitrijs2005/blogsync/internal/client/fetch"
	"github.com/dmitrijs2005/blogsync/internal/client/metrics"
	"github.com/dmitrijs2005/blogsync/internal/client/models"
	"github.com/dmitrijs2005/blogsync/internal/client/mutation"
	"github.com/dmitrijs2005/blogsync/internal/client/retry"
	"github.com/dmitrijs2005/blogsync/internal/client/services"
	"github.com/dmitrijs2005/blogsync/internal/client/session"
	"github.com/dmitrijs2005/blogsync/internal/filex"
	"github.com/dmitrijs2005/blogsync/internal/logging"
)

// sessionManager is the part of session.Store the CLI drives.
type sessionManager interface {
	Restore(ctx context.Context) *session.Session
	Login(ctx context.Context, email, password string) (*session.Session, error)
	Logout(ctx context.Context)
	Register(ctx context.Context, req models.RegisterRequest) error
	Current() *session.Session
}

// failedRead is a read the user may retry by hand a bounded number of times.
type failedRead struct {
	name   string
	run    func(ctx context.Context) error
	budget *retry.Budget
}

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	session sessionManager
	posts   services.PostService
	drafts  services.DraftService

	store   *cache.Store
	pending pendingLookup

	reader *bufio.Reader
	out    io.Writer

	form       models.DraftForm
	lastFailed *failedRead

	// guarded by mu; cache listeners read them from other goroutines
	mu          sync.Mutex
	view        services.DraftQuery
	watched     cache.Key
	unwatch     func()
	unsubscribe []func()
}

// NewApp opens the local database and wires every layer of the client.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := filex.EnsureParentDir(c.DBPath); err != nil {
		log.Error(ctx, "error preparing database directory", "error", err)
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout)
	m := metrics.New()

	sess := session.NewStore(api, session.NewSQLPersistence(db), log.With("component", "session"))

	store := cache.NewStore()
	policy := retry.Policy{
		MaxAttempts: c.RetryMaxAttempts,
		BaseDelay:   c.RetryBaseDelay,
		MaxDelay:    c.RetryMaxDelay,
	}
	coordinator := fetch.NewCoordinator(store, policy, sess, log.With("component", "fetch"), m)
	controller := mutation.NewController(store, sess, log.With("component", "mutation"), m)

	// Cached data belongs to the user who loaded it.
	sess.Subscribe(func(*session.Session) {
		for _, f := range []cache.Family{cache.FamilyDrafts, cache.FamilyUsers, cache.FamilyPost} {
			store.InvalidateFamily(f)
		}
	})

	a := &App{
		config:  c,
		log:     log,
		db:      db,
		metrics: m,
		session: sess,
		posts:   services.NewPostService(api, coordinator, controller, sess, c.RecentCount),
		drafts:  services.NewDraftService(api, coordinator, controller, sess),
		store:   store,
		pending: controller,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	a.unsubscribe = append(a.unsubscribe, store.SubscribeFamily(cache.FamilyDrafts, a.onDraftsChange))
	return a, nil
}

// Run restores the previous session, starts the metrics listener when
// configured and serves the REPL until the user exits or ctx ends.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	if a.config.MetricsAddr != "" {
		go a.serveMetrics(ctx, a.config.MetricsAddr, a.metrics.Handler())
	}

	if sess := a.session.Restore(ctx); sess != nil {
		a.printf("Welcome back, %s\n", displayName(sess.Identity))
	}

	a.println("blogsync CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) close(ctx context.Context) {
	a.mu.Lock()
	unsubs := a.unsubscribe
	if a.unwatch != nil {
		unsubs = append(unsubs, a.unwatch)
	}
	a.unsubscribe, a.unwatch = nil, nil
	a.mu.Unlock()
	for _, fn := range unsubs {
		fn()
	}

	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(ctx, "error closing database", "error", err)
	}
}

func (a *App) serveMetrics(ctx context.Context, addr string, h http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.log.Info(ctx, "metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error(ctx, "metrics listener failed", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Current() != nil
}

func (a *App) getStatus() string {
	sess := a.session.Current()
	if sess == nil {
		return ""
	}
	return "(" + displayName(sess.Identity) + ")"
}

func displayName(id models.Identity) string {
	if id.HasSubject() {
		return id.Subject
	}
	if id.Email != "" {
		return id.Email
	}
	return "anonymous"
}
