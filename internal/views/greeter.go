// Package views 提供视图对象（VO）与传输层消息之间的转换辅助函数。
// 负责将 Service 层返回的 VO 渲染为 gRPC / HTTP 响应，保持 Controller 层的精简。
package views

import (
	"github.com/bionicotaku/lingo-services-hello/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-hello/internal/models/vo"

	"google.golang.org/protobuf/types/known/wrapperspb"
)

// NewHelloReply 将 Greeting 视图对象转换为 gRPC 响应消息。
// greeting 为 nil 时返回空消息以避免 panic。
func NewHelloReply(greeting *vo.Greeting) *wrapperspb.StringValue {
	if greeting == nil {
		return &wrapperspb.StringValue{}
	}
	return wrapperspb.String(greeting.Message)
}

// NewHelloResponse 将 Greeting 视图对象转换为 HTTP JSON 响应体。
func NewHelloResponse(greeting *vo.Greeting) *dto.HelloResponse {
	if greeting == nil {
		return &dto.HelloResponse{}
	}
	return &dto.HelloResponse{Name: greeting.Name, Message: greeting.Message}
}
