package handler

import (
	"context"

	"go.uber.org/zap"

	"gym-backend/gate"
	"gym-backend/log"
	pb "gym-backend/proto"
)

type sessionHandler struct {
	base
	routes *gate.Routes

	pb.UnimplementedSessionServer
}

func toState(st gate.State) *pb.SessionState {
	res := &pb.SessionState{
		Role:    string(st.Role),
		Loading: st.Loading,
	}
	if st.Identity != nil {
		res.Uid = st.Identity.UID
		res.Email = st.Identity.Email
	}
	if st.Err != nil {
		res.Error = st.Err.Error()
	}

	return res
}

// Watch streams the session's gate state, current state first.
func (h *sessionHandler) Watch(_ *pb.WatchRequest, stream pb.Session_WatchServer) error {
	s, claims, err := sessionFromCtx(stream.Context())
	if err != nil {
		return err
	}
	logger := log.Logger.With(zap.String("session", s.ID), zap.String("uid", claims.UserID))

	for st := range s.Gate.Watch(stream.Context()) {
		if err := stream.Send(toState(st)); err != nil {
			logger.Debug("sending failed", zap.Error(err))
			return err
		}
	}

	return nil
}

func (h *sessionHandler) GetState(ctx context.Context, _ *pb.GetStateRequest) (*pb.SessionState, error) {
	st, err := h.state(ctx)
	if err != nil {
		return nil, err
	}

	return toState(st), nil
}

// Navigate asks the gate whether the session may open a destination.
func (h *sessionHandler) Navigate(ctx context.Context, req *pb.NavigateRequest) (*pb.NavigateResponse, error) {
	st, err := h.state(ctx)
	if err != nil {
		return nil, err
	}

	d, err := h.routes.Check(req.Destination, st)
	if err != nil {
		return nil, err
	}

	res := &pb.NavigateResponse{
		Action: d.Action.String(),
		Target: d.Target,
	}
	if d.Err != nil {
		res.Reason = d.Err.Error()
	}

	return res, nil
}

func (h *sessionHandler) Retry(ctx context.Context, _ *pb.RetryRequest) (*pb.RetryResponse, error) {
	s, _, err := sessionFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	return &pb.RetryResponse{Started: s.Retry()}, nil
}
