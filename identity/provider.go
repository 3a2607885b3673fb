package identity

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gym-backend/events"
	"gym-backend/log"
	"gym-backend/session"
)

// SessionProvider is the Provider of a single session. The signed-in
// identity lives in the session store; changes travel over the bus.
type SessionProvider struct {
	id       string
	creds    *Credentials
	sessions session.Store
	bus      events.Bus
	ttl      time.Duration
}

func NewSessionProvider(id string, creds *Credentials, sessions session.Store, bus events.Bus, ttl time.Duration) *SessionProvider {
	return &SessionProvider{
		id:       id,
		creds:    creds,
		sessions: sessions,
		bus:      bus,
		ttl:      ttl,
	}
}

func (p *SessionProvider) ID() string {
	return p.id
}

func (p *SessionProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	id, err := p.creds.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}

	err = p.sessions.Put(ctx, session.Session{
		ID:        p.id,
		UID:       id.UID,
		Email:     id.Email,
		ExpiresAt: time.Now().Add(p.ttl),
	})
	if err != nil {
		log.Logger.Error("failed storing session", zap.String("session", p.id), zap.Error(err))
		return nil, err
	}

	err = p.bus.Publish(ctx, &events.IdentityEvent{Session: p.id, UID: id.UID, Email: id.Email})
	if err != nil {
		log.Logger.Error("failed publishing sign-in", zap.String("session", p.id), zap.Error(err))
		return nil, err
	}

	return id, nil
}

func (p *SessionProvider) SignOut(ctx context.Context) error {
	if err := p.sessions.Delete(ctx, p.id); err != nil {
		log.Logger.Error("failed deleting session", zap.String("session", p.id), zap.Error(err))
		return err
	}

	return p.bus.Publish(ctx, &events.IdentityEvent{Session: p.id})
}

// Current reads the identity signed in on the session, nil when signed out.
func (p *SessionProvider) Current(ctx context.Context) (*Identity, error) {
	s, err := p.sessions.Get(ctx, p.id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}

	return &Identity{UID: s.UID, Email: s.Email}, nil
}

func (p *SessionProvider) Subscribe(ctx context.Context) (<-chan *Identity, error) {
	ctx, cancel := context.WithCancel(ctx)

	// Consume before reading the current identity so a change landing in
	// between is not lost.
	in, err := p.bus.Consume(ctx, p.id)
	if err != nil {
		cancel()
		return nil, err
	}

	current, err := p.Current(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan *Identity, 1)
	out <- current
	last := current

	go func() {
		defer cancel()
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-in:
				if !ok {
					return
				}

				var id *Identity
				if !e.SignedOut() {
					id = &Identity{UID: e.UID, Email: e.Email}
				}
				// The event of a sign-in racing the initial read repeats it.
				if same(id, last) {
					continue
				}
				last = id

				select {
				case out <- id:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func same(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
