package events

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"gym-backend/errs"
	"gym-backend/log"
)

// AMQPBus routes identity events through a topic exchange keyed by session
// id, so every instance serving a session sees sign-ins made on another.
type AMQPBus struct {
	Conn *amqp.Connection
}

func DialAMQP(url string) (*AMQPBus, error) {
	log.Logger.Info("Trying to connect to rabbitmq...")

	var conn *amqp.Connection
	t := time.Second
	for i := 0; i < 6; i++ {
		var err error
		conn, err = amqp.Dial(url)
		if err != nil {
			if i == 5 {
				return nil, err
			}
			log.Logger.Warn("rabbitmq not reachable, retrying", zap.Duration("backoff", t), zap.Error(err))
			time.Sleep(t)
			t *= 2

			continue
		}

		break
	}
	log.Logger.Info("Connected to rabbitmq")

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		IdentityExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &AMQPBus{Conn: conn}, nil
}

func (b *AMQPBus) Close() error {
	return b.Conn.Close()
}

func (b *AMQPBus) Consume(ctx context.Context, session string) (<-chan *IdentityEvent, error) {
	rch, err := b.Conn.Channel()
	if err != nil {
		return nil, queueErr(err)
	}
	q, err := rch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		rch.Close()
		return nil, queueErr(err)
	}

	err = rch.QueueBind(
		q.Name,
		session,
		IdentityExchange,
		false,
		nil,
	)
	if err != nil {
		rch.Close()
		return nil, queueErr(err)
	}

	msgs, err := rch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		rch.Close()
		return nil, queueErr(err)
	}

	ch := make(chan *IdentityEvent)
	go func() {
		defer close(ch)
		defer func() {
			err := rch.Close()
			if err != nil {
				log.Logger.Debug("unable to close channel", zap.Error(err))
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					log.Logger.Warn("identity queue closed", zap.String("session", session))
					return
				}

				var e *IdentityEvent
				err := gob.NewDecoder(bytes.NewReader(d.Body)).Decode(&e)
				if err != nil {
					log.Logger.Error("unable to decode event", zap.Error(err))
					continue
				}

				select {
				case ch <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func (b *AMQPBus) Publish(ctx context.Context, event *IdentityEvent) error {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(event)
	if err != nil {
		return err
	}

	rch, err := b.Conn.Channel()
	if err != nil {
		return queueErr(err)
	}
	defer rch.Close()

	err = rch.Publish(IdentityExchange, event.Session, false, false, amqp.Publishing{
		ContentType: "application/x-gob",
		Timestamp:   time.Now(),
		Body:        buf.Bytes(),
	})
	if err != nil {
		return queueErr(err)
	}
	return nil
}

func queueErr(err error) error {
	return fmt.Errorf("%w: %s", errs.ErrQueue, err)
}
