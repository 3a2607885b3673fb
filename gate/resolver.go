package gate

import (
	"context"
	"fmt"

	"gym-backend/config"
	"gym-backend/entity"
	"gym-backend/errs"
	"gym-backend/identity"
	"gym-backend/store"
)

type Resolver interface {
	Resolve(ctx context.Context, id *identity.Identity) (Role, error)
}

type Policy string

const (
	// PolicyInferred treats every identity without a student record as admin.
	PolicyInferred Policy = config.PolicyInferred
	// PolicyExplicit requires an admins record and fails closed otherwise.
	PolicyExplicit Policy = config.PolicyExplicit
)

type StoreResolver struct {
	store  store.Store
	policy Policy
}

func NewStoreResolver(s store.Store, policy Policy) *StoreResolver {
	if policy != PolicyExplicit {
		policy = PolicyInferred
	}

	return &StoreResolver{store: s, policy: policy}
}

func (r *StoreResolver) Resolve(ctx context.Context, id *identity.Identity) (Role, error) {
	students, err := r.store.Find(ctx, entity.CollectionStudents, "uid", store.Eq, id.UID)
	if err != nil {
		return RoleNone, fmt.Errorf("%w: %s", errs.ErrIdentityLookupFailed, err)
	}
	if len(students) > 0 {
		return RoleStudent, nil
	}

	if r.policy == PolicyInferred {
		return RoleAdmin, nil
	}

	admins, err := r.store.Find(ctx, entity.CollectionAdmins, "uid", store.Eq, id.UID)
	if err != nil {
		return RoleNone, fmt.Errorf("%w: %s", errs.ErrIdentityLookupFailed, err)
	}
	if len(admins) > 0 {
		return RoleAdmin, nil
	}

	return RoleNone, errs.ErrNoRole
}
