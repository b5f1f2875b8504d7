package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"WarSim/internal/shared/transport"
	"WarSim/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewHttpServer_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", gin.New(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("unexpected status code: got=%d want=%d", w.Code, nethttp.StatusOK)
	}
}

func TestNewHttpServer_Options预检直接返回(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", gin.New(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodOptions, "/v1/alliances", nil)
	req.Header.Set("Origin", "http://ops.local")
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusNoContent {
		t.Fatalf("unexpected status code: got=%d want=%d", w.Code, nethttp.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://ops.local" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
}

func TestNewHttpServer_访问日志带业务码(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	s := NewHttpServer(":0", gin.New(), logx.NewZapLogger(zap.New(core)))
	s.Group().GET("/v1/fail", func(c *gin.Context) {
		c.JSON(nethttp.StatusNotFound, gin.H{"code": 4040, "msg": "not found"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/v1/fail", nil)
	s.Handler().ServeHTTP(w, req)

	entries := logs.All()
	if len(entries) == 0 {
		t.Fatalf("expected access log entry")
	}
	fields := entries[len(entries)-1].ContextMap()
	if fields["biz_code"] != int64(4040) {
		t.Fatalf("unexpected biz_code field: %v", fields["biz_code"])
	}
	if !strings.Contains(fields["action"].(string), "/v1/fail") {
		t.Fatalf("unexpected action field: %v", fields["action"])
	}
}

func TestNewHttpServer_访问日志带路由参数且以handler业务码为准(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	s := NewHttpServer(":0", gin.New(), logx.NewZapLogger(zap.New(core)))
	s.Group().GET("/v1/scopes/:scope/nations/:player", func(c *gin.Context) {
		transport.SetBizCode(c.Request.Context(), transport.Precondition)
		transport.SetErrorReason(c.Request.Context(), "TARGET_TOO_STRONG")
		// 响应体里的 code 与 handler 设置的不同时，以 handler 为准
		c.JSON(nethttp.StatusConflict, gin.H{"msg": strings.Repeat("x", 1024), "code": 1})
	})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/v1/scopes/100/nations/7", nil))

	entries := logs.FilterMessage("access").All()
	if len(entries) != 1 {
		t.Fatalf("expected one access log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["biz_code"] != int64(transport.Precondition) || fields["error_reason"] != "TARGET_TOO_STRONG" {
		t.Fatalf("unexpected biz fields: %v", fields)
	}
	if fields["scope"] != "100" || fields["player"] != "7" {
		t.Fatalf("route params missing: %v", fields)
	}
	if fields["action"] != "GET /v1/scopes/:scope/nations/:player" {
		t.Fatalf("unexpected action: %v", fields["action"])
	}
	if w.Body.Len() < 1024 {
		t.Fatalf("response body truncated: %d", w.Body.Len())
	}
}
