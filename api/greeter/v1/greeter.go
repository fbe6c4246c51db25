// Package v1 holds the Greeter wire contract declared in greeter.proto: the
// gRPC service descriptor and the client/server bindings built on well-known
// protobuf wrapper types.
package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "greeter.v1.Greeter"
	// Greeter_SayHello_FullMethodName is the gRPC method path of SayHello.
	Greeter_SayHello_FullMethodName = "/" + ServiceName + "/SayHello"
	// OperationGreeterSayHello names the operation for Kratos middleware on every transport.
	OperationGreeterSayHello = Greeter_SayHello_FullMethodName
)

// GreeterServer is the server API for the Greeter service.
// The request carries the name, the reply carries the formatted greeting.
type GreeterServer interface {
	SayHello(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// UnimplementedGreeterServer can be embedded to keep forward compatibility.
type UnimplementedGreeterServer struct{}

// SayHello returns codes.Unimplemented.
func (UnimplementedGreeterServer) SayHello(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method SayHello not implemented")
}

// RegisterGreeterServer registers srv on any gRPC service registrar,
// including the Kratos gRPC server.
func RegisterGreeterServer(s grpc.ServiceRegistrar, srv GreeterServer) {
	s.RegisterService(&Greeter_ServiceDesc, srv)
}

func _Greeter_SayHello_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GreeterServer).SayHello(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Greeter_SayHello_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GreeterServer).SayHello(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Greeter_ServiceDesc is the grpc.ServiceDesc for the Greeter service.
var Greeter_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GreeterServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SayHello",
			Handler:    _Greeter_SayHello_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "greeter/v1/greeter.proto",
}

// GreeterClient is the client API for the Greeter service.
type GreeterClient interface {
	SayHello(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type greeterClient struct {
	cc grpc.ClientConnInterface
}

// NewGreeterClient binds a Greeter client to an existing connection.
func NewGreeterClient(cc grpc.ClientConnInterface) GreeterClient {
	return &greeterClient{cc: cc}
}

func (c *greeterClient) SayHello(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, Greeter_SayHello_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
