// Package identity is the identity provider: it checks credentials and
// tells subscribers which identity is signed in on a session.
package identity

import "context"

type Identity struct {
	UID   string
	Email string
}

// Provider is the identity provider as seen by one session.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context) error
	// Subscribe sends the current identity (nil when signed out) right away
	// and then every change, until ctx is done.
	Subscribe(ctx context.Context) (<-chan *Identity, error)
}
