// Package roster is the student registry: registration, listings and the
// overdue-payment query.
package roster

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"gym-backend/entity"
	"gym-backend/errs"
	"gym-backend/identity"
	"gym-backend/log"
	"gym-backend/mail"
	"gym-backend/store"
)

type Registration struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Plan     string
	DueDate  time.Time
}

type Roster struct {
	store  store.Store
	creds  *identity.Credentials
	mailer mail.Sender
	now    func() time.Time
}

func New(s store.Store, creds *identity.Credentials, mailer mail.Sender) *Roster {
	return &Roster{store: s, creds: creds, mailer: mailer, now: time.Now}
}

// RegisterStudent creates the student's identity and record. A student
// record that cannot be written takes the new identity with it, so no
// identity is ever left without its record.
func (r *Roster) RegisterStudent(ctx context.Context, reg Registration) (*entity.Student, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	if reg.Name == "" {
		return nil, errs.ErrNameRequired
	}

	id, err := r.creds.Create(ctx, reg.Email, reg.Password)
	if err != nil {
		return nil, err
	}

	s := &entity.Student{
		UID:     id.UID,
		Name:    reg.Name,
		Email:   id.Email,
		Phone:   reg.Phone,
		Plan:    reg.Plan,
		DueDate: reg.DueDate,
		Created: r.now(),
	}

	if err := r.store.Insert(ctx, entity.CollectionStudents, s); err != nil {
		log.Logger.Error("failed inserting student", zap.String("uid", id.UID), zap.Error(err))

		if _, derr := r.store.Delete(ctx, entity.CollectionAuth, "uid", id.UID); derr != nil {
			log.Logger.Error("failed removing orphaned identity", zap.String("uid", id.UID), zap.Error(derr))
		}

		if errors.Is(err, errs.ErrAlreadyExists) {
			return nil, errs.ErrAlreadyExists
		}
		return nil, errs.ErrDatabase
	}

	body := fmt.Sprintf("Welcome %s! Sign in with %s to see your plan and payments.", s.Name, s.Email)
	if err := r.mailer.Send(ctx, s.Email, "Welcome to the gym", body); err != nil {
		log.Logger.Warn("welcome mail failed", zap.String("uid", s.UID), zap.Error(err))
	}

	return s, nil
}

func (r *Roster) ListStudents(ctx context.Context) ([]*entity.Student, error) {
	return r.find(ctx, "uid", store.Ne, "")
}

// ListOverdue returns students whose payment was due before now, oldest
// debt first.
func (r *Roster) ListOverdue(ctx context.Context, now time.Time) ([]*entity.Student, error) {
	found, err := r.find(ctx, "due_date", store.Lt, now)
	if err != nil {
		return nil, err
	}

	// Students without a due date owe nothing.
	students := found[:0]
	for _, s := range found {
		if !s.DueDate.IsZero() {
			students = append(students, s)
		}
	}

	sort.SliceStable(students, func(i, j int) bool {
		return students[i].DueDate.Before(students[j].DueDate)
	})

	return students, nil
}

func (r *Roster) Profile(ctx context.Context, uid string) (*entity.Student, error) {
	students, err := r.find(ctx, "uid", store.Eq, uid)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, errs.ErrNotFound
	}

	return students[0], nil
}

func (r *Roster) find(ctx context.Context, field string, op store.Operator, value interface{}) ([]*entity.Student, error) {
	recs, err := r.store.Find(ctx, entity.CollectionStudents, field, op, value)
	if err != nil {
		log.Logger.Error("database error", zap.Error(err))
		return nil, errs.ErrDatabase
	}

	out := make([]*entity.Student, 0, len(recs))
	for _, rec := range recs {
		s := &entity.Student{}
		if err := store.Decode(rec, s); err != nil {
			log.Logger.Error("decode error", zap.Error(err))
			return nil, errs.ErrDatabase
		}
		out = append(out, s)
	}

	if field != "due_date" {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}

	return out, nil
}
