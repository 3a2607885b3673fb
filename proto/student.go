package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type StudentServer interface {
	GetProfile(context.Context, *GetProfileRequest) (*Student, error)
}

type UnimplementedStudentServer struct{}

func (UnimplementedStudentServer) GetProfile(context.Context, *GetProfileRequest) (*Student, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetProfile not implemented")
}

func RegisterStudentServer(s grpc.ServiceRegistrar, srv StudentServer) {
	s.RegisterService(&Student_ServiceDesc, srv)
}

func _Student_GetProfile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetProfileRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StudentServer).GetProfile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/gym.Student/GetProfile"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StudentServer).GetProfile(ctx, req.(*GetProfileRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var Student_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "gym.Student",
	HandlerType: (*StudentServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetProfile", Handler: _Student_GetProfile_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gym.proto",
}

type StudentClient interface {
	GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*Student, error)
}

type studentClient struct {
	cc grpc.ClientConnInterface
}

func NewStudentClient(cc grpc.ClientConnInterface) StudentClient {
	return &studentClient{cc}
}

func (c *studentClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*Student, error) {
	out := new(Student)
	if err := c.cc.Invoke(ctx, "/gym.Student/GetProfile", in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}
