package gate

import (
	"context"
	"errors"
	"sync"

	"gym-backend/identity"
	"gym-backend/store"
)

var errStoreDown = errors.New("store down")

type resolverFunc func(ctx context.Context, id *identity.Identity) (Role, error)

func (f resolverFunc) Resolve(ctx context.Context, id *identity.Identity) (Role, error) {
	return f(ctx, id)
}

type resolution struct {
	role Role
	err  error
}

// heldResolver blocks every resolution until the test releases it by uid.
type heldResolver struct {
	lock    sync.Mutex
	pending map[string]chan resolution
}

func newHeldResolver() *heldResolver {
	return &heldResolver{pending: make(map[string]chan resolution)}
}

func (h *heldResolver) chanFor(uid string) chan resolution {
	h.lock.Lock()
	defer h.lock.Unlock()

	ch, ok := h.pending[uid]
	if !ok {
		ch = make(chan resolution, 1)
		h.pending[uid] = ch
	}
	return ch
}

func (h *heldResolver) Resolve(ctx context.Context, id *identity.Identity) (Role, error) {
	select {
	case r := <-h.chanFor(id.UID):
		return r.role, r.err
	case <-ctx.Done():
		return RoleNone, ctx.Err()
	}
}

func (h *heldResolver) release(uid string, role Role, err error) {
	h.chanFor(uid) <- resolution{role: role, err: err}
}

// flakyStore fails Find while down is set.
type flakyStore struct {
	store.Store

	lock sync.Mutex
	down bool
}

func (f *flakyStore) setDown(down bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.down = down
}

func (f *flakyStore) Find(ctx context.Context, collection, field string, op store.Operator, value interface{}) ([]store.Record, error) {
	f.lock.Lock()
	down := f.down
	f.lock.Unlock()

	if down {
		return nil, errStoreDown
	}
	return f.Store.Find(ctx, collection, field, op, value)
}

type chanProvider struct {
	ch chan *identity.Identity
}

func (p *chanProvider) SignIn(context.Context, string, string) (*identity.Identity, error) {
	return nil, errors.New("not supported")
}

func (p *chanProvider) SignOut(context.Context) error {
	return errors.New("not supported")
}

func (p *chanProvider) Subscribe(context.Context) (<-chan *identity.Identity, error) {
	return p.ch, nil
}
