// Package events carries identity-change notifications between the process
// that signs a session in or out and every gate watching that session.
package events

import (
	"context"
)

const IdentityExchange = "identity"

// IdentityEvent reports the identity now signed in on Session. An empty UID
// means the session signed out.
type IdentityEvent struct {
	Session string
	UID     string
	Email   string
}

func (e *IdentityEvent) SignedOut() bool {
	return e.UID == ""
}

type Bus interface {
	Publish(ctx context.Context, event *IdentityEvent) error
	// Consume delivers events for one session until ctx is done, then closes
	// the returned channel.
	Consume(ctx context.Context, session string) (<-chan *IdentityEvent, error)
}
