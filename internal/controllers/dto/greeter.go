// Package dto 定义 HTTP 传输层的请求/响应结构，隔离 JSON 协议与业务视图对象。
package dto

// HelloRequest is the JSON body accepted by POST /v1/hello.
type HelloRequest struct {
	Name string `json:"name"`
}

// HelloResponse is the JSON body returned by the HTTP greeter routes.
type HelloResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}
