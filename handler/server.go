package handler

import (
	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_auth "github.com/grpc-ecosystem/go-grpc-middleware/auth"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpc_ctxtags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gym-backend/gate"
	"gym-backend/hub"
	"gym-backend/internal/throttle"
	"gym-backend/jwt"
	"gym-backend/log"
	pb "gym-backend/proto"
	"gym-backend/recovery"
	"gym-backend/roster"
)

type Deps struct {
	Hub      *hub.Hub
	Routes   *gate.Routes
	JWT      jwt.JWT
	Roster   *roster.Roster
	Recovery *recovery.Recovery
	Limiter  *throttle.Limiter
}

func recovered(p interface{}) error {
	log.Logger.Error("recovered from panic", zap.Any("panic", p))
	return status.Errorf(codes.Internal, "internal error")
}

// NewServer builds the gRPC server with every service registered.
func NewServer(d Deps, opts ...grpc.ServerOption) *grpc.Server {
	b := base{hub: d.Hub, jwt: d.JWT, paths: d.Routes.Paths()}
	recoveryOpt := grpc_recovery.WithRecoveryHandler(recovered)

	opts = append(opts,
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			grpc_ctxtags.UnaryServerInterceptor(),
			grpc_zap.UnaryServerInterceptor(log.Logger),
			grpc_recovery.UnaryServerInterceptor(recoveryOpt),
			unaryStatus,
			grpc_auth.UnaryServerInterceptor(b.authenticate),
		)),
		grpc.StreamInterceptor(grpc_middleware.ChainStreamServer(
			grpc_ctxtags.StreamServerInterceptor(),
			grpc_zap.StreamServerInterceptor(log.Logger),
			grpc_recovery.StreamServerInterceptor(recoveryOpt),
			streamStatus,
			grpc_auth.StreamServerInterceptor(b.authenticate),
		)),
	)

	s := grpc.NewServer(opts...)
	pb.RegisterAuthServer(s, &authHandler{base: b, limiter: d.Limiter, recovery: d.Recovery})
	pb.RegisterSessionServer(s, &sessionHandler{base: b, routes: d.Routes})
	pb.RegisterAdminServer(s, &adminHandler{base: b, roster: d.Roster})
	pb.RegisterStudentServer(s, &studentHandler{base: b, roster: d.Roster})

	return s
}
