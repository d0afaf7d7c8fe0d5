package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dori/taskhive/internal/model"
)

// ErrLoginSuperseded is returned by a login that finished after a newer login
// or a logout had started
var ErrLoginSuperseded = errors.New("login superseded")

// PendingLogin is an in-flight login
type PendingLogin struct {
	done   chan struct{}
	cancel context.CancelFunc
	ok     bool
	err    error
}

// Wait blocks until the login settles
func (p *PendingLogin) Wait() (bool, error) {
	<-p.done
	return p.ok, p.err
}

// Done is closed once the login settles
func (p *PendingLogin) Done() <-chan struct{} {
	return p.done
}

// Cancel abandons the login. The session is left as it is.
func (p *PendingLogin) Cancel() {
	p.cancel()
}

// Login signs in with email and password after the simulated round trip.
// Only the shape of the credentials is checked: a non-empty email and a
// password of at least six characters. The session binds to the user with
// that email, or to the default user. Emails match case-insensitively. A
// rejected attempt leaves the session and any other pending login alone.
func (s *Store) Login(ctx context.Context, email, password string) (bool, error) {
	return s.LoginAsync(ctx, email, password).Wait()
}

// LoginAsync starts Login without waiting for it
func (s *Store) LoginAsync(ctx context.Context, email, password string) *PendingLogin {
	return s.startLogin(ctx, "password", s.opts.LoginDelay, func() (string, bool) {
		if !(model.Credentials{Email: email, Password: password}).Valid() {
			return "", false
		}
		return s.userIDForEmail(email), true
	})
}

// LoginWithGoogle always signs in as the default user after its delay
func (s *Store) LoginWithGoogle(ctx context.Context) (bool, error) {
	return s.LoginWithGoogleAsync(ctx).Wait()
}

// LoginWithGoogleAsync starts LoginWithGoogle without waiting for it
func (s *Store) LoginWithGoogleAsync(ctx context.Context) *PendingLogin {
	return s.startLogin(ctx, "google", s.opts.GoogleDelay, func() (string, bool) {
		return s.opts.DefaultUserID, true
	})
}

// Logout clears the session and invalidates any login still in flight
func (s *Store) Logout() {
	s.mutate(Change{Kind: ChangeSession}, func(st *State, _ time.Time) bool {
		s.authSeq.Add(1)
		st.Session = model.Session{}
		return true
	})
	s.log.Infow("logged out")
}

func (s *Store) startLogin(ctx context.Context, method string, delay time.Duration, resolve func() (string, bool)) *PendingLogin {
	ctx, cancel := context.WithCancel(ctx)
	p := &PendingLogin{done: make(chan struct{}), cancel: cancel}

	// only accepted credentials take a token
	userID, ok := resolve()
	var token uint64
	if ok {
		token = s.authSeq.Add(1)
	}

	go func() {
		defer close(p.done)
		defer cancel()

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			p.err = ctx.Err()
			s.log.Debugw("login cancelled", "method", method)
			return
		case <-timer.C:
		}

		if !ok {
			s.log.Infow("login rejected", "method", method)
			return
		}

		applied := s.mutate(Change{Kind: ChangeSession}, func(st *State, _ time.Time) bool {
			if s.authSeq.Load() != token {
				return false
			}
			st.Session = model.Session{Authenticated: true, CurrentUserID: userID}
			return true
		})
		if !applied {
			p.err = ErrLoginSuperseded
			s.log.Debugw("login superseded", "method", method)
			return
		}
		p.ok = true
		s.log.Infow("logged in", "method", method, "user_id", userID)
	}()
	return p
}

func (s *Store) userIDForEmail(email string) string {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u.ID
		}
	}
	return s.opts.DefaultUserID
}
