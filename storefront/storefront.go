// Package storefront keeps the client-side state of a pizza shopper: the session, the
// cart, and the flows that change them. State is only changed after the backend
// confirms an operation.
package storefront

import (
	"context"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"jwtpizza/apperror"
	"jwtpizza/client"
	"jwtpizza/logger"
	"jwtpizza/model"
	"jwtpizza/repository"
)

// Session is an authenticated user together with their token.
type Session struct {
	User  *model.User
	Token string
}

// Confirm asks the shopper to approve a destructive action. Returning false cancels it.
type Confirm func(prompt string) bool

type Storefront struct {
	api client.API
	log logger.Logger

	mu      sync.Mutex
	session *Session
	cart    Cart
}

func New(api client.API, log logger.Logger) *Storefront {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Storefront{api: api, log: log}
}

// Session returns a copy of the current session.
func (s *Storefront) Session() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return Session{}, false
	}
	return Session{User: s.session.User.Clone(), Token: s.session.Token}, true
}

func (s *Storefront) User() *model.User {
	sess, ok := s.Session()
	if !ok {
		return nil
	}
	return sess.User
}

func (s *Storefront) LoggedIn() bool {
	_, ok := s.Session()
	return ok
}

func (s *Storefront) token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

func (s *Storefront) setSession(res *model.AuthResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &Session{User: res.User.Clone(), Token: res.Token}
}

func (s *Storefront) clearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
}

func (s *Storefront) Login(ctx context.Context, email, password string) (*model.User, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.setSession(res)
	s.log.Info("logged in", map[string]interface{}{"userId": res.User.ID.String()})
	return res.User, nil
}

// Register creates a diner account and logs it in.
func (s *Storefront) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	res, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	s.setSession(res)
	return res.User, nil
}

// Resume restores a session from a previously issued token.
func (s *Storefront) Resume(ctx context.Context, token string) (*model.User, error) {
	user, err := s.api.Me(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.New(apperror.Unauthorized, "session expired")
	}
	s.setSession(&model.AuthResult{User: user, Token: token})
	return user, nil
}

// Logout always ends the local session, whatever the backend answers.
func (s *Storefront) Logout(ctx context.Context) {
	token := s.token()
	s.clearSession()
	if token == "" {
		return
	}
	if err := s.api.Logout(ctx, token); err != nil {
		s.log.WithError(err).Warn("remote logout failed", nil)
	}
}

// UpdateProfile changes the logged in user's profile and swaps in the new token.
func (s *Storefront) UpdateProfile(ctx context.Context, req model.UpdateUserRequest) (*model.User, error) {
	sess, ok := s.Session()
	if !ok {
		return nil, apperror.New(apperror.Unauthorized, "login required")
	}
	res, err := s.api.UpdateUser(ctx, sess.Token, sess.User.ID, req)
	if err != nil {
		return nil, err
	}
	s.setSession(res)
	return res.User, nil
}

// DeleteUser removes a user after confirmation. It reports whether the delete ran.
// Deleting oneself ends the session.
func (s *Storefront) DeleteUser(ctx context.Context, user *model.User, confirm Confirm) (bool, error) {
	if user == nil {
		return false, apperror.New(apperror.MissingFields, "no user selected")
	}
	if confirm != nil && !confirm("Are you sure you want to delete the user: "+user.Name+"?") {
		return false, nil
	}
	sess, _ := s.Session()
	if err := s.api.DeleteUser(ctx, sess.Token, user.ID); err != nil {
		return false, err
	}
	if sess.User != nil && sess.User.ID == user.ID {
		s.clearSession()
	}
	s.log.Info("user deleted", map[string]interface{}{"userId": user.ID.String()})
	return true, nil
}

func (s *Storefront) Users(ctx context.Context, page repository.Page) (*model.UserPage, error) {
	return s.api.ListUsers(ctx, s.token(), page)
}

func (s *Storefront) Menu(ctx context.Context) ([]model.MenuItem, error) {
	return s.api.Menu(ctx)
}

func (s *Storefront) AddMenuItem(ctx context.Context, item model.MenuItem) ([]model.MenuItem, error) {
	return s.api.AddMenuItem(ctx, s.token(), item)
}

// Initials abbreviates a display name, e.g. "Kai Chen" becomes "KC".
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
