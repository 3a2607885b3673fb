// Package session persists which identity is signed in on a session id.
package session

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMissingID = errors.New("session: missing id or uid")
	ErrExpired   = errors.New("session: expires_at must be in the future")
)

// Session binds a session id to the identity signed in on it. A session
// with no record is signed out.
type Session struct {
	ID        string    `json:"id"`
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store keeps session records until they expire. Get returns nil for a
// session that was never stored, was deleted or has expired.
type Store interface {
	Put(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

func (s Session) validate(now time.Time) error {
	if s.ID == "" || s.UID == "" {
		return ErrMissingID
	}
	if !s.live(now) {
		return ErrExpired
	}
	return nil
}

func (s Session) live(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
