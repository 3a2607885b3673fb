// Package handler serves the gym backend over gRPC. Every authenticated call
// runs against the live session named by its access token, and role-gated
// services ask that session's gate before doing anything.
package handler

import (
	"context"
	"errors"

	grpc_auth "github.com/grpc-ecosystem/go-grpc-middleware/auth"
	"go.uber.org/zap"

	"gym-backend/errs"
	"gym-backend/gate"
	"gym-backend/hub"
	"gym-backend/jwt"
	"gym-backend/log"
)

type sessionKey struct{}

type base struct {
	hub   *hub.Hub
	jwt   jwt.JWT
	paths gate.Paths
}

// authenticate validates the bearer token and attaches its claims and
// session to ctx.
func (b *base) authenticate(ctx context.Context) (context.Context, error) {
	token, err := grpc_auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, errs.ErrUnauthenticated
	}

	claims, err := b.jwt.ValidateAccessToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, errs.ErrTokenExpired
		}
		return nil, errs.ErrJWT
	}

	s, err := b.hub.Resume(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, errs.ErrSessionNotFound) {
			return nil, errs.ErrUnauthenticated
		}

		log.Logger.Error("failed resuming session", zap.String("session", claims.SessionID), zap.Error(err))
		return nil, errs.ErrDatabase
	}

	ctx = jwt.WithClaims(ctx, claims)
	return context.WithValue(ctx, sessionKey{}, s), nil
}

func sessionFromCtx(ctx context.Context) (*hub.Session, *jwt.Claims, error) {
	s, ok := ctx.Value(sessionKey{}).(*hub.Session)
	if !ok {
		log.Logger.Error("context had no session")
		return nil, nil, errs.ErrUnauthenticated
	}

	claims, ok := jwt.GetClaimsFromCtx(ctx)
	if !ok {
		log.Logger.Error("jwt had no data")
		return nil, nil, errs.ErrJWT
	}

	return s, claims, nil
}

// state returns the gate state of the caller's session, once it settled on
// the token's user or hub.SettleTimeout passed.
func (b *base) state(ctx context.Context) (gate.State, error) {
	s, claims, err := sessionFromCtx(ctx)
	if err != nil {
		return gate.State{}, err
	}

	st := s.Wait(ctx, gate.SettledFor(claims.UserID), hub.SettleTimeout)
	if st.Identity != nil && st.UID() != claims.UserID {
		return gate.State{}, nil
	}

	return st, nil
}

// require authenticates ctx and lets it through only when the session's
// role is the required one.
func (b *base) require(ctx context.Context, role gate.Role) (context.Context, error) {
	ctx, err := b.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	st, err := b.state(ctx)
	if err != nil {
		return nil, err
	}

	d := b.paths.Guard(role, st)
	if d.Action != gate.Render {
		log.Logger.Debug("guard refused call",
			zap.String("uid", st.UID()),
			zap.Stringer("required", role),
			zap.Stringer("action", d.Action),
		)
		return nil, d.Err
	}

	return ctx, nil
}
