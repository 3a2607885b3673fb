// Package hub keeps one running gate per live session.
package hub

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gym-backend/errs"
	"gym-backend/events"
	"gym-backend/gate"
	"gym-backend/identity"
	"gym-backend/log"
	"gym-backend/session"
)

type Hub struct {
	creds    *identity.Credentials
	sessions session.Store
	bus      events.Bus
	resolver gate.Resolver
	ttl      time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	lock sync.Mutex
	live map[string]*Session
}

// Session is a live session: its identity provider and the gate following it.
type Session struct {
	ID       string
	Provider *identity.SessionProvider
	Gate     *gate.Gate

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// SettleTimeout bounds how long a request waits for a role resolution. Past
// it the request sees the session as pending.
const SettleTimeout = 2 * time.Second

func New(creds *identity.Credentials, sessions session.Store, bus events.Bus, resolver gate.Resolver, ttl time.Duration) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		creds:    creds,
		sessions: sessions,
		bus:      bus,
		resolver: resolver,
		ttl:      ttl,
		ctx:      ctx,
		cancel:   cancel,
		live:     make(map[string]*Session),
	}
}

func (h *Hub) NewID() string {
	return uuid.NewString()
}

// Open returns the live session id, starting its gate when needed.
func (h *Hub) Open(id string) *Session {
	h.lock.Lock()
	defer h.lock.Unlock()

	if s, ok := h.live[id]; ok {
		return s
	}

	ctx, cancel := context.WithCancel(h.ctx)
	s := &Session{
		ID:       id,
		Provider: identity.NewSessionProvider(id, h.creds, h.sessions, h.bus, h.ttl),
		Gate:     gate.New(h.resolver),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	h.live[id] = s

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer close(s.done)

		err := s.Gate.Run(ctx, s.Provider)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Logger.Error("session gate stopped", zap.String("session", id), zap.Error(err))
		}
	}()

	log.Logger.Debug("session opened", zap.String("session", id))
	return s
}

// Resume returns the session live here, or opens it when the session store
// still holds a signed-in identity for it. A live session whose stored
// identity expired is closed with a null identity.
func (h *Hub) Resume(ctx context.Context, id string) (*Session, error) {
	stored, err := h.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		h.expire(id)
		return nil, errs.ErrSessionNotFound
	}

	return h.Open(id), nil
}

// Reap closes every live, signed-in session the store no longer holds and
// returns how many it closed. Sessions still signing in are left alone.
func (h *Hub) Reap(ctx context.Context) (int, error) {
	h.lock.Lock()
	ids := make([]string, 0, len(h.live))
	for id, s := range h.live {
		if s.Gate.State().Identity != nil {
			ids = append(ids, id)
		}
	}
	h.lock.Unlock()

	n := 0
	for _, id := range ids {
		stored, err := h.sessions.Get(ctx, id)
		if err != nil {
			return n, err
		}
		if stored == nil {
			h.expire(id)
			n++
		}
	}

	return n, nil
}

// RunReaper calls Reap every interval until ctx is done.
func (h *Hub) RunReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := h.Reap(ctx)
			if err != nil {
				log.Logger.Error("failed reaping sessions", zap.Error(err))
			}
			if n > 0 {
				log.Logger.Info("reaped expired sessions", zap.Int("count", n))
			}
		}
	}
}

// expire stops a live session and leaves its gate on a null identity, so
// every watcher sees it signed out.
func (h *Hub) expire(id string) {
	h.lock.Lock()
	s, ok := h.live[id]
	delete(h.live, id)
	h.lock.Unlock()

	if !ok {
		return
	}

	s.cancel()
	<-s.done
	s.Gate.OnIdentityChanged(h.ctx, nil)
	log.Logger.Info("session expired", zap.String("session", id))
}

func (h *Hub) Lookup(id string) (*Session, bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	s, ok := h.live[id]
	return s, ok
}

// Close stops the gate of a session. The stored identity is left alone.
func (h *Hub) Close(id string) {
	h.lock.Lock()
	s, ok := h.live[id]
	delete(h.live, id)
	h.lock.Unlock()

	if ok {
		s.cancel()
		log.Logger.Debug("session closed", zap.String("session", id))
	}
}

func (h *Hub) Len() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.live)
}

func (h *Hub) Shutdown() {
	h.cancel()
	h.wg.Wait()

	h.lock.Lock()
	h.live = make(map[string]*Session)
	h.lock.Unlock()
}

// SignIn signs the session in and waits at most SettleTimeout for the gate
// to resolve the new identity. The returned state may still be loading.
func (s *Session) SignIn(ctx context.Context, email, password string) (*identity.Identity, gate.State, error) {
	id, err := s.Provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, gate.State{}, err
	}

	return id, s.Wait(ctx, gate.SettledFor(id.UID), SettleTimeout), nil
}

// SignOut clears the stored identity and waits at most SettleTimeout for
// the gate to publish it.
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.Provider.SignOut(ctx); err != nil {
		return err
	}

	s.Wait(ctx, gate.SettledFor(""), SettleTimeout)
	return nil
}

// Wait waits at most d for pred to hold. Past that it returns the current
// state, which may still be loading.
func (s *Session) Wait(ctx context.Context, pred func(gate.State) bool, d time.Duration) gate.State {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	st, err := s.Gate.Await(ctx, pred)
	if err != nil {
		return s.Gate.State()
	}
	return st
}

// Retry restarts a failed resolution. It runs on the session's own context
// so it outlives the request asking for it.
func (s *Session) Retry() bool {
	return s.Gate.Retry(s.ctx)
}
