// Package clients 包含调用外部服务的客户端门面（Façade），封装 gRPC 调用细节。
package clients

import (
	"context"

	v1 "github.com/bionicotaku/lingo-services-hello/api/greeter/v1"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ReasonRemoteDisabled is the error reason returned when no connection is configured.
const ReasonRemoteDisabled = "GREETER_REMOTE_DISABLED"

// ErrRemoteDisabled 表示未配置远程 Greeter 连接。
var ErrRemoteDisabled = errors.ServiceUnavailable(ReasonRemoteDisabled, "greeter remote not configured")

// GreeterRemote 抽象对远程 Greeter 服务的调用。
type GreeterRemote interface {
	SayHello(ctx context.Context, name string) (string, error)
}

// greeterRemote 是 GreeterRemote 的 gRPC 实现。
type greeterRemote struct {
	client v1.GreeterClient // 基于共享 grpc.ClientConn 的客户端
	log    *log.Helper
}

// NewGreeterRemote 构造 GreeterRemote，封装共享的 gRPC 连接。
// conn 为 nil 时返回禁用实现，每次调用都返回 ErrRemoteDisabled。
func NewGreeterRemote(conn *grpc.ClientConn, logger log.Logger) GreeterRemote {
	helper := log.NewHelper(logger)
	if conn == nil {
		helper.Warn("no grpc client connection; greeter remote disabled")
		return &greeterRemote{log: helper}
	}
	return &greeterRemote{
		client: v1.NewGreeterClient(conn),
		log:    helper,
	}
}

// SayHello 调用远程 Greeter 服务的 SayHello RPC 并返回问候语。
func (r *greeterRemote) SayHello(ctx context.Context, name string) (string, error) {
	if r.client == nil {
		r.log.WithContext(ctx).Warn("greeter remote client not initialized")
		return "", ErrRemoteDisabled
	}
	reply, err := r.client.SayHello(ctx, wrapperspb.String(name))
	if err != nil {
		return "", err
	}
	return reply.GetValue(), nil
}
