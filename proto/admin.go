package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type AdminServer interface {
	RegisterStudent(context.Context, *RegisterStudentRequest) (*RegisterStudentResponse, error)
	ListStudents(context.Context, *ListStudentsRequest) (*ListStudentsResponse, error)
	ListOverdue(context.Context, *ListOverdueRequest) (*ListStudentsResponse, error)
}

type UnimplementedAdminServer struct{}

func (UnimplementedAdminServer) RegisterStudent(context.Context, *RegisterStudentRequest) (*RegisterStudentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RegisterStudent not implemented")
}
func (UnimplementedAdminServer) ListStudents(context.Context, *ListStudentsRequest) (*ListStudentsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListStudents not implemented")
}
func (UnimplementedAdminServer) ListOverdue(context.Context, *ListOverdueRequest) (*ListStudentsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListOverdue not implemented")
}

func RegisterAdminServer(s grpc.ServiceRegistrar, srv AdminServer) {
	s.RegisterService(&Admin_ServiceDesc, srv)
}

func _Admin_RegisterStudent_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RegisterStudentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).RegisterStudent(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/gym.Admin/RegisterStudent"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServer).RegisterStudent(ctx, req.(*RegisterStudentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Admin_ListStudents_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListStudentsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).ListStudents(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/gym.Admin/ListStudents"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServer).ListStudents(ctx, req.(*ListStudentsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Admin_ListOverdue_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListOverdueRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).ListOverdue(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/gym.Admin/ListOverdue"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServer).ListOverdue(ctx, req.(*ListOverdueRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var Admin_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "gym.Admin",
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterStudent", Handler: _Admin_RegisterStudent_Handler},
		{MethodName: "ListStudents", Handler: _Admin_ListStudents_Handler},
		{MethodName: "ListOverdue", Handler: _Admin_ListOverdue_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gym.proto",
}

type AdminClient interface {
	RegisterStudent(ctx context.Context, in *RegisterStudentRequest, opts ...grpc.CallOption) (*RegisterStudentResponse, error)
	ListStudents(ctx context.Context, in *ListStudentsRequest, opts ...grpc.CallOption) (*ListStudentsResponse, error)
	ListOverdue(ctx context.Context, in *ListOverdueRequest, opts ...grpc.CallOption) (*ListStudentsResponse, error)
}

type adminClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminClient(cc grpc.ClientConnInterface) AdminClient {
	return &adminClient{cc}
}

func (c *adminClient) RegisterStudent(ctx context.Context, in *RegisterStudentRequest, opts ...grpc.CallOption) (*RegisterStudentResponse, error) {
	out := new(RegisterStudentResponse)
	if err := c.cc.Invoke(ctx, "/gym.Admin/RegisterStudent", in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *adminClient) ListStudents(ctx context.Context, in *ListStudentsRequest, opts ...grpc.CallOption) (*ListStudentsResponse, error) {
	out := new(ListStudentsResponse)
	if err := c.cc.Invoke(ctx, "/gym.Admin/ListStudents", in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *adminClient) ListOverdue(ctx context.Context, in *ListOverdueRequest, opts ...grpc.CallOption) (*ListStudentsResponse, error) {
	out := new(ListStudentsResponse)
	if err := c.cc.Invoke(ctx, "/gym.Admin/ListOverdue", in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}
