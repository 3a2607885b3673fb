package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gym-backend/errs"
	"gym-backend/log"
)

var codeOf = []struct {
	err  error
	code codes.Code
}{
	{errs.ErrUnauthenticated, codes.Unauthenticated},
	{errs.ErrInvalidEmailOrPassword, codes.Unauthenticated},
	{errs.ErrJWT, codes.Unauthenticated},
	{errs.ErrTokenExpired, codes.Unauthenticated},
	{errs.ErrSessionNotFound, codes.Unauthenticated},
	{errs.ErrRoleMismatch, codes.PermissionDenied},
	{errs.ErrNoRole, codes.PermissionDenied},
	{errs.ErrRolePending, codes.Unavailable},
	{errs.ErrIdentityLookupFailed, codes.Unavailable},
	{errs.ErrRateLimited, codes.ResourceExhausted},
	{errs.ErrEmailRequired, codes.InvalidArgument},
	{errs.ErrPasswordRequired, codes.InvalidArgument},
	{errs.ErrNameRequired, codes.InvalidArgument},
	{errs.ErrEmailAddressFormat, codes.InvalidArgument},
	{errs.ErrInvalidDate, codes.InvalidArgument},
	{errs.ErrInvalidOperator, codes.InvalidArgument},
	{errs.ErrInvalidResetToken, codes.InvalidArgument},
	{errs.ErrUnknownDestination, codes.InvalidArgument},
	{errs.ErrAlreadyExists, codes.AlreadyExists},
	{errs.ErrNotFound, codes.NotFound},
	{errs.ErrDatabase, codes.Internal},
	{errs.ErrQueue, codes.Internal},
	{errs.ErrMail, codes.Internal},
	{errs.ErrCryptographic, codes.Internal},
}

// toStatus turns backend errors into gRPC statuses carrying the error code
// text, e.g. "E0023: role mismatch".
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	for _, c := range codeOf {
		if errors.Is(err, c.err) {
			return status.Error(c.code, c.err.Error())
		}
	}

	log.Logger.Warn("unmapped error", zap.Error(err))
	return status.Error(codes.Unknown, err.Error())
}

func unaryStatus(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	res, err := handler(ctx, req)
	return res, toStatus(err)
}

func streamStatus(srv interface{}, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	return toStatus(handler(srv, ss))
}
