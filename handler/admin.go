package handler

import (
	"context"
	"time"

	"gym-backend/entity"
	"gym-backend/errs"
	"gym-backend/gate"
	pb "gym-backend/proto"
	"gym-backend/roster"
)

type adminHandler struct {
	base
	roster *roster.Roster

	pb.UnimplementedAdminServer
}

func (h *adminHandler) AuthFuncOverride(ctx context.Context, fullMethodName string) (context.Context, error) {
	return h.require(ctx, gate.RoleAdmin)
}

func (h *adminHandler) RegisterStudent(ctx context.Context, req *pb.RegisterStudentRequest) (*pb.RegisterStudentResponse, error) {
	reg := roster.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Plan:     req.Plan,
	}

	if req.DueDate != "" {
		due, err := entity.ParseDate(req.DueDate)
		if err != nil {
			return nil, errs.ErrInvalidDate
		}
		reg.DueDate = due
	}

	s, err := h.roster.RegisterStudent(ctx, reg)
	if err != nil {
		return nil, err
	}

	return &pb.RegisterStudentResponse{Student: s.ToProto()}, nil
}

func (h *adminHandler) ListStudents(ctx context.Context, _ *pb.ListStudentsRequest) (*pb.ListStudentsResponse, error) {
	students, err := h.roster.ListStudents(ctx)
	if err != nil {
		return nil, err
	}

	return toStudents(students), nil
}

// ListOverdue lists students whose payment was due before At, or before now
// when At is empty.
func (h *adminHandler) ListOverdue(ctx context.Context, req *pb.ListOverdueRequest) (*pb.ListStudentsResponse, error) {
	at := time.Now()
	if req.At != "" {
		t, err := entity.ParseDate(req.At)
		if err != nil {
			return nil, errs.ErrInvalidDate
		}
		at = t
	}

	students, err := h.roster.ListOverdue(ctx, at)
	if err != nil {
		return nil, err
	}

	return toStudents(students), nil
}

func toStudents(students []*entity.Student) *pb.ListStudentsResponse {
	res := &pb.ListStudentsResponse{Students: make([]*pb.Student, 0, len(students))}
	for _, s := range students {
		res.Students = append(res.Students, s.ToProto())
	}

	return res
}
