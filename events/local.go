package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type identitySubscriber struct {
	ID      uuid.UUID
	Session string
	Ch      chan *IdentityEvent
	done    <-chan struct{}
}

// LocalBus fans identity events out to subscribers in this process.
type LocalBus struct {
	lock        sync.Mutex
	subscribers []*identitySubscriber
}

func NewLocalBus() *LocalBus {
	return &LocalBus{}
}

func (b *LocalBus) Consume(ctx context.Context, session string) (<-chan *IdentityEvent, error) {
	ch := make(chan *IdentityEvent, 8)
	ID := uuid.New()

	b.lock.Lock()
	b.subscribers = append(b.subscribers, &identitySubscriber{ID: ID, Session: session, Ch: ch, done: ctx.Done()})
	b.lock.Unlock()

	go func() {
		<-ctx.Done()
		b.lock.Lock()
		defer b.lock.Unlock()

		for k, v := range b.subscribers {
			if v.ID == ID {
				a := b.subscribers
				a[k] = a[len(a)-1]
				a[len(a)-1] = nil
				b.subscribers = a[:len(a)-1]
				break
			}
		}
		close(ch)
	}()

	return ch, nil
}

func (b *LocalBus) Publish(ctx context.Context, event *IdentityEvent) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	for _, v := range b.subscribers {
		if v.Session != event.Session {
			continue
		}

		select {
		case v.Ch <- event:
		case <-v.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
