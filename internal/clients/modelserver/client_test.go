package modelserver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/yungbote/plantdx-backend/internal/pkg/httpx"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestPredict(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.Path != "/predict" {
			t.Fatalf("unexpected %s %s", req.Method, req.URL.Path)
		}
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, hdr, err := req.FormFile("file")
		if err != nil {
			t.Fatalf("file field: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if !bytes.Equal(data, []byte("leafbytes")) || hdr.Filename != "leaf.jpg" {
			t.Fatalf("unexpected upload %q %q", data, hdr.Filename)
		}
		return jsonResponse(200, `{"status":"success","prediction":{"class_en":"Tomato - Late blight","class_ar":"اللفحة المتأخرة في طماطم","confidence":0.91,"severity":"high"}}`), nil
	})}

	c, err := New(Options{BaseURL: "http://model:5001/", HTTPClient: hc})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p, err := c.Predict(context.Background(), []byte("leafbytes"), "leaf.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if p.ClassEN != "Tomato - Late blight" || p.Confidence != 0.91 || p.Severity != "high" {
		t.Fatalf("unexpected prediction %+v", p)
	}
}

func TestPredictErrorStatus(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(500, `{"status":"error","message":"Failed to load model"}`), nil
	})}
	c, _ := New(Options{BaseURL: "http://model:5001", HTTPClient: hc})
	_, err := c.Predict(context.Background(), []byte("x"), "", "")
	var herr *httpx.HTTPError
	if !errors.As(err, &herr) || herr.StatusCode != 500 {
		t.Fatalf("expected HTTPError 500, got %v", err)
	}
}

func TestPredictNonSuccessBody(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"status":"error","message":"Image preprocessing failed"}`), nil
	})}
	c, _ := New(Options{BaseURL: "http://model:5001", HTTPClient: hc})
	if _, err := c.Predict(context.Background(), []byte("x"), "", ""); err == nil || !strings.Contains(err.Error(), "preprocessing") {
		t.Fatalf("expected preprocessing error, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/health" {
			t.Fatalf("path=%s", req.URL.Path)
		}
		return jsonResponse(200, `{"status":"ok","message":"API is ready","num_classes":38}`), nil
	})}
	c, _ := New(Options{BaseURL: "http://model:5001", HTTPClient: hc})
	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.Status != "ok" || h.NumClasses != 38 {
		t.Fatalf("unexpected %+v", h)
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expected error")
	}
}
