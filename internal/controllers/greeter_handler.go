// Package controllers 提供传输层 Handler，负责处理外部请求并调用业务层。
package controllers

import (
	"context"
	stdhttp "net/http"

	v1 "github.com/bionicotaku/lingo-services-hello/api/greeter/v1"
	"github.com/bionicotaku/lingo-services-hello/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-hello/internal/services"
	"github.com/bionicotaku/lingo-services-hello/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ReasonInvalidBody is the error reason for an undecodable HTTP request body.
const ReasonInvalidBody = "INVALID_BODY"

// GreeterHandler 同时承载 Greeter 的 gRPC 与 HTTP 入口。
// 两种传输共享同一个 operation 名称，因此中间件链看到的是同一个操作。
type GreeterHandler struct {
	v1.UnimplementedGreeterServer

	uc *services.GreeterUsecase
}

// NewGreeterHandler 构造一个由 GreeterUsecase 支撑的 Handler。
func NewGreeterHandler(uc *services.GreeterUsecase) *GreeterHandler {
	return &GreeterHandler{uc: uc}
}

// SayHello 实现 v1.GreeterServer。nil 请求按空名字处理，名字不做任何校验。
func (h *GreeterHandler) SayHello(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	greeting, err := h.uc.SayHello(ctx, in.GetValue())
	if err != nil {
		return nil, err
	}
	return views.NewHelloReply(greeting), nil
}

// SayHelloHTTP 处理 GET /v1/hello?name=... 与 POST /v1/hello {"name": "..."}。
// 缺失的 name 视为空字符串；仅当 POST 请求体无法解码时返回 400。
func (h *GreeterHandler) SayHelloHTTP(ctx http.Context) error {
	var in dto.HelloRequest
	if ctx.Request().Method == stdhttp.MethodPost {
		if err := ctx.Bind(&in); err != nil {
			// Bind already returns a Kratos error (reason CODEC); keep only its message.
			return errors.BadRequest(ReasonInvalidBody, errors.FromError(err).Message)
		}
	} else {
		in.Name = ctx.Query().Get("name")
	}

	http.SetOperation(ctx, v1.OperationGreeterSayHello)
	handler := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		greeting, err := h.uc.SayHello(ctx, req.(*dto.HelloRequest).Name)
		if err != nil {
			return nil, err
		}
		return views.NewHelloResponse(greeting), nil
	})
	out, err := handler(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, out)
}

// RegisterHTTPRoutes 将 Greeter 路由挂载到 Kratos HTTP Server。
func (h *GreeterHandler) RegisterHTTPRoutes(srv *http.Server) {
	r := srv.Route("/")
	r.GET("/v1/hello", h.SayHelloHTTP)
	r.POST("/v1/hello", h.SayHelloHTTP)
}
