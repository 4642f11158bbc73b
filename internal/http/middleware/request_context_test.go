package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/plantdx-backend/internal/platform/i18n"
)

func langRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachRequestContext())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, Lang(c).String()) })
	return r
}

func TestAttachRequestContextQuerySetsCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	langRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?lang=en", nil))
	if rec.Body.String() != "en" {
		t.Fatalf("lang=%q", rec.Body.String())
	}
	if c := rec.Header().Get("Set-Cookie"); !strings.HasPrefix(c, i18n.CookieName+"=en") {
		t.Fatalf("cookie=%q", c)
	}
}

func TestAttachRequestContextCookieAndHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: i18n.CookieName, Value: "en"})
	req.Header.Set("Accept-Language", "ar")
	rec := httptest.NewRecorder()
	langRouter().ServeHTTP(rec, req)
	if rec.Body.String() != "en" {
		t.Fatalf("cookie ignored: %q", rec.Body.String())
	}
	if rec.Header().Get("Set-Cookie") != "" {
		t.Fatalf("cookie rewritten without ?lang")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	rec = httptest.NewRecorder()
	langRouter().ServeHTTP(rec, req)
	if rec.Body.String() != "en" {
		t.Fatalf("accept-language ignored: %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	langRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Body.String() != "ar" {
		t.Fatalf("default=%q", rec.Body.String())
	}
}

func TestAttachTraceContextEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-Id") != "req-123" {
		t.Fatalf("request id=%q", rec.Header().Get("X-Request-Id"))
	}
	if rec.Header().Get("X-Trace-Id") == "" {
		t.Fatalf("missing trace id")
	}
}

func TestRecoveryReturnsGeneric500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(nil))
	r.GET("/", func(c *gin.Context) { panic("secret detail") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("panic value leaked: %s", rec.Body.String())
	}
}
