// Package grant records explicit admin role assignments.
package grant

import (
	"context"
	"errors"
	"time"

	"gym-backend/entity"
	"gym-backend/errs"
	"gym-backend/identity"
	"gym-backend/store"
)

// Admin asserts the admin role for the identity registered under email.
// Granting twice is not an error. Students cannot be made admins.
func Admin(ctx context.Context, s store.Store, email string, now time.Time) (*entity.Admin, error) {
	id, err := identity.NewCredentials(s).ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	students, err := s.Find(ctx, entity.CollectionStudents, "uid", store.Eq, id.UID)
	if err != nil {
		return nil, err
	}
	if len(students) > 0 {
		return nil, errs.ErrRoleMismatch
	}

	a := &entity.Admin{UID: id.UID, Email: id.Email, Granted: now}
	err = s.Insert(ctx, entity.CollectionAdmins, a)
	if err != nil && !errors.Is(err, errs.ErrAlreadyExists) {
		return nil, err
	}

	return a, nil
}

// Revoke removes the admin assignment of email.
func Revoke(ctx context.Context, s store.Store, email string) error {
	id, err := identity.NewCredentials(s).ByEmail(ctx, email)
	if err != nil {
		return err
	}

	n, err := s.Delete(ctx, entity.CollectionAdmins, "uid", id.UID)
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}

	return nil
}
