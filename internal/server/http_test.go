package server

import (
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/bionicotaku/lingo-services-hello/internal/controllers"
	"github.com/bionicotaku/lingo-services-hello/internal/controllers/dto"
	loader "github.com/bionicotaku/lingo-services-hello/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-hello/internal/infrastructure/telemetry"
	"github.com/bionicotaku/lingo-services-hello/internal/services"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) stdhttp.Handler {
	t.Helper()
	logger := log.NewStdLogger(io.Discard)
	tel, cleanup, err := telemetry.New(logger)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	handler := controllers.NewGreeterHandler(services.NewGreeterUsecase(logger, tel.MeterProvider))
	return NewHTTPServer(&loader.Server{}, handler, tel, logger)
}

func decodeHello(t *testing.T, rec *httptest.ResponseRecorder) dto.HelloResponse {
	t.Helper()
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	var resp dto.HelloResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHTTPSayHelloQuery(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/v1/hello?name="+url.QueryEscape("Maria"), nil))

	resp := decodeHello(t, rec)
	assert.Equal(t, "Maria", resp.Name)
	assert.Equal(t, "Olá, Maria! Bem-vindo à API EJB.", resp.Message)
}

func TestHTTPSayHelloMissingName(t *testing.T) {
	srv := newTestServer(t)

	for _, target := range []string{"/v1/hello", "/v1/hello?name="} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, target, nil))
		assert.Equal(t, "Olá, ! Bem-vindo à API EJB.", decodeHello(t, rec).Message, target)
	}
}

func TestHTTPSayHelloJSONBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(stdhttp.MethodPost, "/v1/hello", strings.NewReader(`{"name":"João"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, "Olá, João! Bem-vindo à API EJB.", decodeHello(t, rec).Message)
}

func TestHTTPSayHelloInvalidBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(stdhttp.MethodPost, "/v1/hello", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), controllers.ReasonInvalidBody)
}

func TestHTTPSayHelloInvalidBodyMessageIsPlain(t *testing.T) {
	srv := newTestServer(t)

	cases := map[string]func(*stdhttp.Request){
		"no content type": func(*stdhttp.Request) {},
		"unknown codec":   func(r *stdhttp.Request) { r.Header.Set("Content-Type", "application/x-unknown") },
		"truncated json":  func(r *stdhttp.Request) { r.Header.Set("Content-Type", "application/json") },
	}
	for name, prepare := range cases {
		t.Run(name, func(t *testing.T) {
			body := `{"name":"Ana"}`
			if name == "truncated json" {
				body = `{"name":`
			}
			req := httptest.NewRequest(stdhttp.MethodPost, "/v1/hello", strings.NewReader(body))
			prepare(req)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			require.Equal(t, stdhttp.StatusBadRequest, rec.Code, rec.Body.String())
			var status struct {
				Code    int    `json:"code"`
				Reason  string `json:"reason"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
			assert.Equal(t, stdhttp.StatusBadRequest, status.Code)
			assert.Equal(t, controllers.ReasonInvalidBody, status.Reason)
			assert.NotEmpty(t, status.Message)
			assert.NotContains(t, status.Message, "code = ")
			assert.NotContains(t, status.Message, "reason = ")
		})
	}
}

func TestHTTPSayHelloInvalidUTF8Query(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/v1/hello?name=%FF", nil))

	// The handler greets the raw byte; the JSON encoder emits it as U+FFFD.
	resp := decodeHello(t, rec)
	assert.Equal(t, "\uFFFD", resp.Name)
	assert.Equal(t, "Olá, \uFFFD! Bem-vindo à API EJB.", resp.Message)
}

func TestHTTPHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
		assert.Equal(t, stdhttp.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/v1/hello?name=Ana", nil))
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/metrics", nil))
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "server_requests_code")
	assert.Contains(t, body, "hello_greetings")
}
