package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/blogsync/internal/client/models"
	"github.com/dmitrijs2005/blogsync/internal/common"
	"github.com/dmitrijs2005/blogsync/internal/logging"
	"github.com/go-playground/validator/v10"
)

// Authenticator is the remote auth endpoint.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	Register(ctx context.Context, req models.RegisterRequest) error
}

// Session is an authenticated session.
type Session struct {
	Credential string
	Identity   models.Identity
}

// Listener receives the new session after login, restore or logout.
// A nil session means signed out.
type Listener func(*Session)

type Store struct {
	auth     Authenticator
	persist  Persistence
	log      logging.Logger
	validate *validator.Validate

	mu      sync.RWMutex
	current *Session
	subs    map[uint64]Listener
	nextSub uint64
}

func NewStore(auth Authenticator, persist Persistence, log logging.Logger) *Store {
	return &Store{
		auth:     auth,
		persist:  persist,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		subs:     make(map[uint64]Listener),
	}
}

// Restore loads the persisted session. A missing, partial or undecodable
// session is cleared and reported as nil; Restore never fails.
func (s *Store) Restore(ctx context.Context) *Session {
	token, user, err := s.persist.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to load persisted session", "error", err)
		return nil
	}
	if token == "" && len(user) == 0 {
		return nil
	}
	if token == "" || len(user) == 0 {
		s.log.Warn(ctx, "discarding partial session")
		s.clearPersisted(ctx)
		return nil
	}

	claims, err := DecodeClaims(token)
	if err != nil {
		s.log.Warn(ctx, "discarding undecodable session", "error", err)
		s.clearPersisted(ctx)
		return nil
	}
	var stored models.Identity
	if err := json.Unmarshal(user, &stored); err != nil {
		s.log.Warn(ctx, "discarding session with malformed identity", "error", err)
		s.clearPersisted(ctx)
		return nil
	}

	sess := &Session{Credential: token, Identity: mergeIdentity(claims, stored)}
	s.set(sess)
	s.log.Debug(ctx, "session restored", "subject", sess.Identity.Subject)
	return sess
}

// Login authenticates against the server and makes the result the current
// session. A rejection is returned as *common.AuthError carrying the
// server's reason; transport failures are returned as is. The store is left
// unchanged on any failure.
func (s *Store) Login(ctx context.Context, email, password string) (*Session, error) {
	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		var se *common.StatusError
		if errors.As(err, &se) && errors.Is(err, common.ErrClient) {
			return nil, &common.AuthError{Reason: se.Message, Err: err}
		}
		return nil, err
	}

	claims, err := DecodeClaims(res.Token)
	if err != nil {
		return nil, err
	}
	identity := mergeIdentity(claims, models.Identity{Subject: res.Username, Email: res.Email, Role: res.Role})

	user, err := json.Marshal(identity)
	if err != nil {
		return nil, fmt.Errorf("encode identity: %w", err)
	}
	if err := s.persist.Save(ctx, res.Token, user); err != nil {
		return nil, err
	}

	sess := &Session{Credential: res.Token, Identity: identity}
	s.set(sess)
	s.log.Info(ctx, "signed in", "subject", identity.Subject)
	return sess, nil
}

// Logout drops the session from memory and storage. It always succeeds and
// a second call has no effect.
func (s *Store) Logout(ctx context.Context) {
	s.clearPersisted(ctx)

	s.mu.Lock()
	had := s.current != nil
	s.current = nil
	s.mu.Unlock()

	if had {
		s.log.Info(ctx, "signed out")
		s.notify(nil)
	}
}

// Register creates an account. It does not sign in.
func (s *Store) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return s.auth.Register(ctx, req)
}

// Current returns a copy of the live session, or nil.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

// Credential returns the bearer credential, or "" when signed out.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Credential
}

// Identity returns the identity of the live session.
func (s *Store) Identity() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Identity{}, false
	}
	return s.current.Identity, true
}

// Subscribe registers fn for session changes and returns a function that
// removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) set(sess *Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	c := *sess
	s.notify(&c)
}

func (s *Store) notify(sess *Session) {
	s.mu.RLock()
	targets := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		targets = append(targets, fn)
	}
	s.mu.RUnlock()

	for _, fn := range targets {
		fn(sess)
	}
}

func (s *Store) clearPersisted(ctx context.Context) {
	if err := s.persist.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear persisted session", "error", err)
	}
}
