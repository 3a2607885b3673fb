package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type SessionServer interface {
	Watch(*WatchRequest, Session_WatchServer) error
	GetState(context.Context, *GetStateRequest) (*SessionState, error)
	Navigate(context.Context, *NavigateRequest) (*NavigateResponse, error)
	Retry(context.Context, *RetryRequest) (*RetryResponse, error)
}

type UnimplementedSessionServer struct{}

func (UnimplementedSessionServer) Watch(*WatchRequest, Session_WatchServer) error {
	return status.Errorf(codes.Unimplemented, "method Watch not implemented")
}
func (UnimplementedSessionServer) GetState(context.Context, *GetStateRequest) (*SessionState, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetState not implemented")
}
func (UnimplementedSessionServer) Navigate(context.Context, *NavigateRequest) (*NavigateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Navigate not implemented")
}
func (UnimplementedSessionServer) Retry(context.Context, *RetryRequest) (*RetryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Retry not implemented")
}

func RegisterSessionServer(s grpc.ServiceRegistrar, srv SessionServer) {
	s.RegisterService(&Session_ServiceDesc, srv)
}

type Session_WatchServer interface {
	Send(*SessionState) error
	grpc.ServerStream
}

type sessionWatchServer struct {
	grpc.ServerStream
}

func (x *sessionWatchServer) Send(m *SessionState) error {
	return x.ServerStream.SendMsg(m)
}

func _Session_Watch_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(WatchRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(SessionServer).Watch(m, &sessionWatchServer{stream})
}

func _Session_GetState_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetStateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).GetState(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/gym.Session/GetState"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SessionServer).GetState(ctx, req.(*GetStateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Session_Navigate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(NavigateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).Navigate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/gym.Session/Navigate"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SessionServer).Navigate(ctx, req.(*NavigateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Session_Retry_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RetryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).Retry(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/gym.Session/Retry"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SessionServer).Retry(ctx, req.(*RetryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var Session_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "gym.Session",
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetState", Handler: _Session_GetState_Handler},
		{MethodName: "Navigate", Handler: _Session_Navigate_Handler},
		{MethodName: "Retry", Handler: _Session_Retry_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: _Session_Watch_Handler, ServerStreams: true},
	},
	Metadata: "gym.proto",
}

type SessionClient interface {
	Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (Session_WatchClient, error)
	GetState(ctx context.Context, in *GetStateRequest, opts ...grpc.CallOption) (*SessionState, error)
	Navigate(ctx context.Context, in *NavigateRequest, opts ...grpc.CallOption) (*NavigateResponse, error)
	Retry(ctx context.Context, in *RetryRequest, opts ...grpc.CallOption) (*RetryResponse, error)
}

type sessionClient struct {
	cc grpc.ClientConnInterface
}

func NewSessionClient(cc grpc.ClientConnInterface) SessionClient {
	return &sessionClient{cc}
}

type Session_WatchClient interface {
	Recv() (*SessionState, error)
	grpc.ClientStream
}

type sessionWatchClient struct {
	grpc.ClientStream
}

func (x *sessionWatchClient) Recv() (*SessionState, error) {
	m := new(SessionState)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *sessionClient) Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (Session_WatchClient, error) {
	stream, err := c.cc.NewStream(ctx, &Session_ServiceDesc.Streams[0], "/gym.Session/Watch", withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &sessionWatchClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *sessionClient) GetState(ctx context.Context, in *GetStateRequest, opts ...grpc.CallOption) (*SessionState, error) {
	out := new(SessionState)
	if err := c.cc.Invoke(ctx, "/gym.Session/GetState", in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sessionClient) Navigate(ctx context.Context, in *NavigateRequest, opts ...grpc.CallOption) (*NavigateResponse, error) {
	out := new(NavigateResponse)
	if err := c.cc.Invoke(ctx, "/gym.Session/Navigate", in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sessionClient) Retry(ctx context.Context, in *RetryRequest, opts ...grpc.CallOption) (*RetryResponse, error) {
	out := new(RetryResponse)
	if err := c.cc.Invoke(ctx, "/gym.Session/Retry", in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}
