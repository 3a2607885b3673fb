package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"gym-backend/errs"
	"gym-backend/internal/throttle"
	"gym-backend/jwt"
	"gym-backend/log"
	pb "gym-backend/proto"
	"gym-backend/recovery"
)

type authHandler struct {
	base
	limiter  *throttle.Limiter
	recovery *recovery.Recovery

	pb.UnimplementedAuthServer
}

func (h *authHandler) AuthFuncOverride(ctx context.Context, fullMethodName string) (context.Context, error) {
	if fullMethodName == "/gym.Auth/SignOut" {
		return h.authenticate(ctx)
	}

	return ctx, nil
}

// SignIn opens a new session for the credentials and returns its tokens
// together with the role the gate resolved.
func (h *authHandler) SignIn(ctx context.Context, req *pb.SignInRequest) (*pb.SignInResponse, error) {
	res := &pb.SignInResponse{}

	if req.Email == "" {
		return nil, errs.ErrEmailRequired
	}

	if !h.limiter.Allow(req.Email) {
		log.Logger.Info("sign-in throttled", zap.String("email", req.Email))
		return nil, errs.ErrRateLimited
	}

	s := h.hub.Open(h.hub.NewID())
	id, st, err := s.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		h.hub.Close(s.ID)
		return nil, err
	}
	logger := log.Logger.With(zap.String("session", s.ID), zap.String("uid", id.UID))

	res.SessionId = s.ID
	res.Role = string(st.Role)

	res.RefreshToken, err = h.jwt.NewRefreshToken(s.ID, id.UID)
	if err != nil {
		logger.Error("jwt failure", zap.Error(err))
		return nil, errs.ErrJWT
	}

	res.AccessToken, err = h.jwt.NewAccessToken(s.ID, id.UID)
	if err != nil {
		logger.Error("jwt failure", zap.Error(err))
		return nil, errs.ErrJWT
	}

	logger.Info("signed in", zap.String("role", res.Role))
	return res, nil
}

func (h *authHandler) SignOut(ctx context.Context, _ *pb.SignOutRequest) (*pb.SignOutResponse, error) {
	s, claims, err := sessionFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.SignOut(ctx); err != nil {
		log.Logger.Error("sign-out failed", zap.String("session", s.ID), zap.Error(err))
		return nil, errs.ErrDatabase
	}
	h.hub.Close(s.ID)

	log.Logger.Info("signed out", zap.String("session", s.ID), zap.String("uid", claims.UserID))
	return &pb.SignOutResponse{}, nil
}

func (h *authHandler) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.RefreshTokenResponse, error) {
	res := &pb.RefreshTokenResponse{}

	claims, err := h.jwt.ValidateRefreshToken(req.Token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, errs.ErrTokenExpired
		}

		return nil, errs.ErrJWT
	}

	s, err := h.hub.Resume(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, errs.ErrSessionNotFound) {
			return nil, errs.ErrUnauthenticated
		}

		log.Logger.Error("database error", zap.Error(err), zap.String("session", claims.SessionID))
		return nil, errs.ErrDatabase
	}

	current, err := s.Provider.Current(ctx)
	if err != nil {
		log.Logger.Error("database error", zap.Error(err), zap.String("session", claims.SessionID))
		return nil, errs.ErrDatabase
	}
	if current == nil || current.UID != claims.UserID {
		return nil, errs.ErrUnauthenticated
	}

	res.Token, err = h.jwt.NewAccessToken(claims.SessionID, claims.UserID)
	if err != nil {
		log.Logger.Error("jwt failure", zap.Error(err))
		return nil, errs.ErrJWT
	}

	return res, nil
}

func (h *authHandler) ForgotPassword(ctx context.Context, req *pb.ForgotPasswordRequest) (*pb.ForgotPasswordResponse, error) {
	if err := h.recovery.Forgot(ctx, req.Email); err != nil {
		return nil, err
	}

	return &pb.ForgotPasswordResponse{}, nil
}

func (h *authHandler) ResetPassword(ctx context.Context, req *pb.ResetPasswordRequest) (*pb.ResetPasswordResponse, error) {
	if err := h.recovery.Reset(ctx, req.Token, req.Password); err != nil {
		return nil, err
	}

	return &pb.ResetPasswordResponse{}, nil
}
