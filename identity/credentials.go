package identity

import (
	"context"
	"errors"
	"net/mail"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gym-backend/entity"
	"gym-backend/errs"
	"gym-backend/log"
	"gym-backend/store"
)

const bcryptCost = 10

// Credentials verifies and creates email/password identities kept in the
// "auth" collection.
type Credentials struct {
	store store.Store
	cost  int
}

func NewCredentials(s store.Store) *Credentials {
	return &Credentials{store: s, cost: bcryptCost}
}

func (c *Credentials) Verify(ctx context.Context, email, password string) (*Identity, error) {
	if email == "" {
		return nil, errs.ErrEmailRequired
	}

	if password == "" {
		return nil, errs.ErrPasswordRequired
	}

	u, err := c.lookup(ctx, "email", email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrInvalidEmailOrPassword
		}

		log.Logger.Error("database error", zap.Error(err), zap.String("email", email))
		return nil, errs.ErrDatabase
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			log.Logger.Debug("invalid password", zap.String("uid", u.UID))
			return nil, errs.ErrInvalidEmailOrPassword
		}

		return nil, errs.ErrCryptographic
	}

	return &Identity{UID: u.UID, Email: u.Email}, nil
}

// Create registers a new identity. The uid is a fresh object id in hex.
func (c *Credentials) Create(ctx context.Context, email, password string) (*Identity, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errs.ErrEmailAddressFormat
	}

	if password == "" {
		return nil, errs.ErrPasswordRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		log.Logger.Error("failed to generate bcrypt hash", zap.Error(err))
		return nil, errs.ErrCryptographic
	}

	id := primitive.NewObjectID()
	u := &entity.User{
		ID:       id,
		UID:      id.Hex(),
		Email:    email,
		Password: string(hash),
	}

	err = c.store.Insert(ctx, entity.CollectionAuth, u)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			log.Logger.Debug("already has account", zap.String("email", email))
			return nil, errs.ErrAlreadyExists
		}

		log.Logger.Error("failed inserting new user", zap.Error(err))
		return nil, errs.ErrDatabase
	}

	return &Identity{UID: u.UID, Email: u.Email}, nil
}

func (c *Credentials) SetPassword(ctx context.Context, uid, password string) error {
	if password == "" {
		return errs.ErrPasswordRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		log.Logger.Error("failed to generate bcrypt hash", zap.Error(err))
		return errs.ErrCryptographic
	}

	n, err := c.store.Update(ctx, entity.CollectionAuth, "uid", uid, store.Record{"password": string(hash)})
	if err != nil {
		log.Logger.Error("database error", zap.Error(err), zap.String("uid", uid))
		return errs.ErrDatabase
	}
	if n == 0 {
		return errs.ErrNotFound
	}

	return nil
}

// ByEmail returns the identity registered under email.
func (c *Credentials) ByEmail(ctx context.Context, email string) (*Identity, error) {
	u, err := c.lookup(ctx, "email", email)
	if err != nil {
		return nil, err
	}

	return &Identity{UID: u.UID, Email: u.Email}, nil
}

func (c *Credentials) lookup(ctx context.Context, field, value string) (*entity.User, error) {
	recs, err := c.store.Find(ctx, entity.CollectionAuth, field, store.Eq, value)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errs.ErrNotFound
	}

	u := &entity.User{}
	if err := store.Decode(recs[0], u); err != nil {
		return nil, err
	}

	return u, nil
}
