// Package session holds the identity of the signed-in advisor and the
// bearer token transport calls attach. A Session is created once per
// process and passed to its collaborators; there is no global instance.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotAuthenticated is returned when an operation needs a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// User is the signed-in identity as reported by the backend.
type User struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// State is a snapshot delivered to subscribers on every change.
type State struct {
	User          *User
	Authenticated bool
}

// Authenticator exchanges credentials for a token. The REST client
// implements it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, *User, error)
}

// Session is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	auth  Authenticator
	token string
	user  *User
	now   func() time.Time

	subMu  sync.Mutex
	subs   map[int]chan State
	nextID int
}

// New creates a signed-out session.
func New(auth Authenticator) *Session {
	return &Session{
		auth: auth,
		now:  time.Now,
		subs: make(map[int]chan State),
	}
}

// SetAuthenticator replaces the authenticator. It exists because the REST
// client and the session each need the other.
func (s *Session) SetAuthenticator(auth Authenticator) {
	s.mu.Lock()
	s.auth = auth
	s.mu.Unlock()
}

// Login authenticates and stores the resulting token and user.
func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	s.mu.RLock()
	auth := s.auth
	s.mu.RUnlock()
	if auth == nil {
		return nil, errors.New("session has no authenticator")
	}

	token, user, err := auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.Restore(token, user)
	return user, nil
}

// Restore installs a previously issued token, for example one read from
// disk. An expired token leaves the session signed out.
func (s *Session) Restore(token string, user *User) {
	if token == "" || s.expired(token) {
		s.Logout()
		return
	}
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	s.publish()
}

// Logout clears the identity. It is also what the transport calls when the
// backend answers 401.
func (s *Session) Logout() {
	s.mu.Lock()
	changed := s.token != "" || s.user != nil
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	if changed {
		s.publish()
	}
}

// Token returns the bearer token, or "" when signed out or expired.
func (s *Session) Token() string {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" || s.expired(token) {
		return ""
	}
	return token
}

// CurrentUser returns the signed-in user, or ErrNotAuthenticated.
func (s *Session) CurrentUser() (*User, error) {
	if s.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, ErrNotAuthenticated
	}
	u := *s.user
	return &u, nil
}

// SetUser replaces the cached user, keeping the token.
func (s *Session) SetUser(u *User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	s.publish()
}

// Subscribe returns a channel that receives the current state and every
// later change, plus a function that ends the subscription. Slow readers
// only ever see the latest state.
func (s *Session) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	deliver(ch, s.state())

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Session) state() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{Authenticated: s.token != ""}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

func (s *Session) publish() {
	st := s.state()
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		deliver(ch, st)
	}
}

// deliver replaces any undelivered state with st.
func deliver(ch chan State, st State) {
	for {
		select {
		case ch <- st:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// expired reads the exp claim without verifying the signature; only the
// backend can verify, the session just avoids sending stale tokens.
func (s *Session) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}
