package handler

import (
	"context"

	"gym-backend/gate"
	pb "gym-backend/proto"
	"gym-backend/roster"
)

type studentHandler struct {
	base
	roster *roster.Roster

	pb.UnimplementedStudentServer
}

func (h *studentHandler) AuthFuncOverride(ctx context.Context, fullMethodName string) (context.Context, error) {
	return h.require(ctx, gate.RoleStudent)
}

func (h *studentHandler) GetProfile(ctx context.Context, _ *pb.GetProfileRequest) (*pb.Student, error) {
	_, claims, err := sessionFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	s, err := h.roster.Profile(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return s.ToProto(), nil
}
