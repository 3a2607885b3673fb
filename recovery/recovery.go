// Package recovery implements password reset by mailed token.
package recovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gym-backend/entity"
	"gym-backend/errs"
	"gym-backend/identity"
	"gym-backend/log"
	"gym-backend/mail"
	"gym-backend/store"
)

const tokenTTL = time.Hour

type Recovery struct {
	store  store.Store
	creds  *identity.Credentials
	mailer mail.Sender
	now    func() time.Time
}

func New(s store.Store, creds *identity.Credentials, mailer mail.Sender) *Recovery {
	return &Recovery{store: s, creds: creds, mailer: mailer, now: time.Now}
}

// Forgot mails a reset token to email. Unknown addresses succeed silently.
func (r *Recovery) Forgot(ctx context.Context, email string) error {
	if email == "" {
		return errs.ErrEmailRequired
	}

	id, err := r.creds.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			log.Logger.Debug("password reset for unknown email", zap.String("email", email))
			return nil
		}

		log.Logger.Error("database error", zap.Error(err))
		return errs.ErrDatabase
	}

	reset := &entity.PasswordReset{
		UID:   id.UID,
		Token: uuid.NewString(),
		TTL:   r.now().Add(tokenTTL),
	}
	if err := r.store.Insert(ctx, entity.CollectionPasswordResets, reset); err != nil {
		log.Logger.Error("failed inserting reset token", zap.Error(err))
		return errs.ErrDatabase
	}

	body := fmt.Sprintf("Use this code to reset your password within the hour: %s", reset.Token)
	return r.mailer.Send(ctx, id.Email, "Password reset", body)
}

func (r *Recovery) Reset(ctx context.Context, token, password string) error {
	if password == "" {
		return errs.ErrPasswordRequired
	}

	recs, err := r.store.Find(ctx, entity.CollectionPasswordResets, "token", store.Eq, token)
	if err != nil {
		log.Logger.Error("database error", zap.Error(err))
		return errs.ErrDatabase
	}
	if len(recs) == 0 {
		return errs.ErrInvalidResetToken
	}

	reset := &entity.PasswordReset{}
	if err := store.Decode(recs[0], reset); err != nil {
		log.Logger.Error("decode error", zap.Error(err))
		return errs.ErrDatabase
	}
	if reset.Used || !reset.TTL.After(r.now()) {
		return errs.ErrInvalidResetToken
	}

	if err := r.creds.SetPassword(ctx, reset.UID, password); err != nil {
		return err
	}

	_, err = r.store.Update(ctx, entity.CollectionPasswordResets, "token", token, store.Record{"used": true})
	if err != nil {
		log.Logger.Error("failed marking reset token used", zap.Error(err))
		return errs.ErrDatabase
	}

	return nil
}
