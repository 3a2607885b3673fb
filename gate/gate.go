// Package gate resolves the identity signed in on a session to a role and
// decides which screens that session may reach.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gym-backend/errs"
	"gym-backend/identity"
	"gym-backend/log"
)

// Gate owns the published State of one session. It is the only writer; any
// number of readers use State, Watch or Await.
type Gate struct {
	resolver Resolver

	lock     sync.Mutex
	token    uint64
	state    State
	watchers map[uuid.UUID]chan State
}

func New(resolver Resolver) *Gate {
	return &Gate{
		resolver: resolver,
		watchers: make(map[uuid.UUID]chan State),
	}
}

func (g *Gate) State() State {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.state
}

// OnIdentityChanged publishes the new identity and resolves its role in the
// background. Every call supersedes the resolutions started before it.
func (g *Gate) OnIdentityChanged(ctx context.Context, id *identity.Identity) {
	g.lock.Lock()
	g.token++
	token := g.token

	if id == nil {
		g.publish(State{})
		g.lock.Unlock()
		return
	}

	g.publish(State{Identity: id, Loading: true})
	g.lock.Unlock()

	go g.resolve(ctx, token, id)
}

func (g *Gate) resolve(ctx context.Context, token uint64, id *identity.Identity) {
	role, err := g.resolver.Resolve(ctx, id)
	if err == nil && !role.Valid() {
		err = fmt.Errorf("resolver returned role %q", role)
	}
	if err != nil && !errors.Is(err, errs.ErrIdentityLookupFailed) && !errors.Is(err, errs.ErrNoRole) {
		err = fmt.Errorf("%w: %s", errs.ErrIdentityLookupFailed, err)
	}

	g.lock.Lock()
	defer g.lock.Unlock()

	if token != g.token {
		log.Logger.Debug("discarding stale role resolution", zap.String("uid", id.UID))
		return
	}

	if err != nil {
		log.Logger.Warn("role resolution failed", zap.String("uid", id.UID), zap.Error(err))
		g.publish(State{Identity: id, Err: err})
		return
	}

	log.Logger.Debug("role resolved", zap.String("uid", id.UID), zap.Stringer("role", role))
	g.publish(State{Identity: id, Role: role})
}

// Retry re-runs the resolution of an identity whose lookup failed. It
// reports whether a resolution was started. An identity change racing it
// always wins.
func (g *Gate) Retry(ctx context.Context) bool {
	g.lock.Lock()
	s := g.state
	if s.Identity == nil || s.Loading || s.Err == nil {
		g.lock.Unlock()
		return false
	}

	g.token++
	token := g.token
	g.publish(State{Identity: s.Identity, Loading: true})
	g.lock.Unlock()

	go g.resolve(ctx, token, s.Identity)
	return true
}

// Run feeds identity changes from p into the gate until ctx is done or the
// subscription ends.
func (g *Gate) Run(ctx context.Context, p identity.Provider) error {
	ch, err := p.Subscribe(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case id, ok := <-ch:
			if !ok {
				return ctx.Err()
			}
			g.OnIdentityChanged(ctx, id)
		}
	}
}

// Watch delivers the current state and then every change. A slow reader
// only ever misses intermediate states, never the latest one.
func (g *Gate) Watch(ctx context.Context) <-chan State {
	ch := make(chan State, 1)
	ID := uuid.New()

	g.lock.Lock()
	ch <- g.state
	g.watchers[ID] = ch
	g.lock.Unlock()

	go func() {
		<-ctx.Done()
		g.lock.Lock()
		defer g.lock.Unlock()
		delete(g.watchers, ID)
		close(ch)
	}()

	return ch
}

// Await blocks until the published state satisfies pred or ctx is done.
func (g *Gate) Await(ctx context.Context, pred func(State) bool) (State, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for s := range g.Watch(ctx) {
		if pred(s) {
			return s, nil
		}
	}

	return g.State(), ctx.Err()
}

// publish must be called with g.lock held.
func (g *Gate) publish(s State) {
	g.state = s
	for _, ch := range g.watchers {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}
