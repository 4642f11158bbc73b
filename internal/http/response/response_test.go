package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/plantdx-backend/internal/platform/apierr"
)

func render(t *testing.T, err error) (int, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondAPIError(c, err)
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v body=%s", err, rec.Body.String())
	}
	return rec.Code, env
}

func TestRespondAPIErrorClientError(t *testing.T) {
	code, env := render(t, apierr.BadRequest("invalid_id", "bad id %q", "x"))
	if code != http.StatusBadRequest || env.Error.Code != "invalid_id" || env.Error.Message != `bad id "x"` {
		t.Fatalf("got %d %+v", code, env)
	}
}

func TestRespondAPIErrorHidesInternalDetail(t *testing.T) {
	code, env := render(t, errors.New("dial tcp 10.0.0.3:5432: refused"))
	if code != http.StatusInternalServerError || env.Error.Code != "internal" {
		t.Fatalf("got %d %+v", code, env)
	}
	if env.Error.Message != "internal server error" {
		t.Fatalf("leaked message %q", env.Error.Message)
	}
}
