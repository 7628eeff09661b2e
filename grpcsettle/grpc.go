package grpcsettle

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// SettlementServer is the server API for the Settlement gRPC service.
//
// Requests and replies are JSON documents from the model package carried in
// protobuf BytesValue wrappers, so this package does not require a
// protoc/codegen toolchain.
//
// Proto definition: settlement.proto.
type SettlementServer interface {
	MinBond(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	UserRewards(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Receipt(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedSettlementServer can be embedded to have forward compatible implementations.
type UnimplementedSettlementServer struct{}

func (UnimplementedSettlementServer) MinBond(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method MinBond not implemented")
}
func (UnimplementedSettlementServer) UserRewards(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method UserRewards not implemented")
}
func (UnimplementedSettlementServer) Receipt(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Receipt not implemented")
}

// RegisterSettlementServer registers the Settlement service on a gRPC server.
func RegisterSettlementServer(s grpc.ServiceRegistrar, srv SettlementServer) {
	s.RegisterService(&Settlement_ServiceDesc, srv)
}

// SettlementClient is the client API for the Settlement gRPC service.
type SettlementClient interface {
	MinBond(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	UserRewards(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Receipt(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type settlementClient struct{ cc grpc.ClientConnInterface }

func NewSettlementClient(cc grpc.ClientConnInterface) SettlementClient {
	return &settlementClient{cc: cc}
}

func (c *settlementClient) MinBond(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/xdao.settle.grpcsettle.v1.Settlement/MinBond", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *settlementClient) UserRewards(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/xdao.settle.grpcsettle.v1.Settlement/UserRewards", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *settlementClient) Receipt(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/xdao.settle.grpcsettle.v1.Settlement/Receipt", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func _Settlement_MinBond_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SettlementServer).MinBond(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/xdao.settle.grpcsettle.v1.Settlement/MinBond"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SettlementServer).MinBond(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Settlement_UserRewards_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SettlementServer).UserRewards(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/xdao.settle.grpcsettle.v1.Settlement/UserRewards"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SettlementServer).UserRewards(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Settlement_Receipt_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SettlementServer).Receipt(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/xdao.settle.grpcsettle.v1.Settlement/Receipt"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SettlementServer).Receipt(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Settlement_ServiceDesc is the grpc.ServiceDesc for the Settlement service.
var Settlement_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "xdao.settle.grpcsettle.v1.Settlement",
	HandlerType: (*SettlementServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "MinBond", Handler: _Settlement_MinBond_Handler},
		{MethodName: "UserRewards", Handler: _Settlement_UserRewards_Handler},
		{MethodName: "Receipt", Handler: _Settlement_Receipt_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "settlement.proto",
}
