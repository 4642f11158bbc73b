package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/plantdx-backend/internal/clients/modelserver"
	"github.com/yungbote/plantdx-backend/internal/data/repos"
	types "github.com/yungbote/plantdx-backend/internal/domain"
	httpH "github.com/yungbote/plantdx-backend/internal/http/handlers"
	"github.com/yungbote/plantdx-backend/internal/http/views"
	"github.com/yungbote/plantdx-backend/internal/observability"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
	"github.com/yungbote/plantdx-backend/internal/services"
	"github.com/yungbote/plantdx-backend/internal/services/classifier"
)

type fakeStrategy struct {
	label string
	err   error
}

func (f fakeStrategy) Name() string { return "fake" }

func (f fakeStrategy) Classify(context.Context, classifier.Image) ([]classifier.Label, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []classifier.Label{{Text: f.label, Score: 0.9}}, nil
}

type fakeProber struct{ err error }

func (p fakeProber) Health(context.Context) (*modelserver.Health, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &modelserver.Health{Status: "ok", Message: "API is ready", NumClasses: 38}, nil
}

type testEnv struct {
	router    *gin.Engine
	uploadDir string
}

func newTestEnv(t *testing.T, strategy classifier.Classifier, prober services.HealthProber) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	metrics := observability.NewMetrics()

	repo, err := repos.NewDiagnosisRepo("memory", repos.Backends{}, log)
	if err != nil {
		t.Fatalf("repo: %v", err)
	}
	dir := t.TempDir()
	images, err := services.NewLocalImageStore(log, dir)
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	chain := classifier.NewChain(log, classifier.ChainOptions{Metrics: metrics}, classifier.Member{Classifier: strategy})
	diagnoses := services.NewDiagnosisService(log, repo, images, chain, metrics, services.DiagnosisServiceOptions{})
	tmpl, err := views.Templates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	r := NewRouter(RouterConfig{
		Log:              log,
		Metrics:          metrics,
		Templates:        tmpl,
		UploadDir:        dir,
		DiagnosisHandler: httpH.NewDiagnosisHandler(diagnoses, 0),
		MLStatusHandler:  httpH.NewMLStatusHandler(services.NewMLStatusService(log, prober, metrics, 0)),
		ViewHandler:      httpH.NewViewHandler(log, diagnoses, 0),
		HealthHandler:    httpH.NewHealthHandler(),
	})
	return testEnv{router: r, uploadDir: dir}
}

func leafJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		img.Set(x, x, color.RGBA{G: 180, A: 255})
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func (e testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e testEnv) upload(t *testing.T, path, field, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, field, filename, data)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", ct)
	return e.do(req)
}

func (e testEnv) storedFiles(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(e.uploadDir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	return len(entries)
}

func decodeDiagnosis(t *testing.T, rec *httptest.ResponseRecorder) types.Diagnosis {
	t.Helper()
	var d types.Diagnosis
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode diagnosis: %v body=%s", err, rec.Body.String())
	}
	return d
}

func TestDiagnoseValidJPEG(t *testing.T) {
	env := newTestEnv(t, fakeStrategy{label: "Tomato___Early_blight"}, fakeProber{})
	rec := env.upload(t, "/api/diagnose", "image", "leaf.jpg", leafJPEG(t))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	d := decodeDiagnosis(t, rec)
	if d.ID != 1 || d.DiseaseName.In(types.LangEnglish) != "Tomato Early Blight" || d.DiseaseName.In(types.LangArabic) == "" {
		t.Fatalf("unexpected diagnosis %+v", d)
	}
	if !d.Severity.Valid() || d.SeverityScore < 0 || d.SeverityScore > 100 {
		t.Fatalf("bad severity %q %d", d.Severity, d.SeverityScore)
	}

	img := env.do(httptest.NewRequest(http.MethodGet, d.ImageURL, nil))
	if img.Code != http.StatusOK || img.Body.Len() == 0 {
		t.Fatalf("uploaded image not served: %d", img.Code)
	}
}

func TestUploadServedWithSniffedType(t *testing.T) {
	env := newTestEnv(t, fakeStrategy{label: "Tomato___Early_blight"}, fakeProber{})
	rec := env.upload(t, "/api/diagnose", "image", "leaf.png", leafJPEG(t))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	d := decodeDiagnosis(t, rec)
	img := env.do(httptest.NewRequest(http.MethodGet, d.ImageURL, nil))
	if img.Code != http.StatusOK {
		t.Fatalf("image status=%d", img.Code)
	}
	if ct := img.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("served as %q (%s)", ct, d.ImageURL)
	}
}

func TestDiagnoseRejectsInvalidUploads(t *testing.T) {
	env := newTestEnv(t, fakeStrategy{label: "Tomato___Early_blight"}, fakeProber{})

	cases := []struct {
		name, field, filename string
		data                  []byte
		code                  string
	}{
		{"no file", "", "", nil, services.CodeInvalidImage},
		{"wrong field", "photo", "leaf.jpg", leafJPEG(t), services.CodeInvalidImage},
		{"gif", "image", "leaf.gif", []byte("GIF89a\x01\x00\x01\x00"), services.CodeUnsupportedImageType},
		{"too large", "image", "leaf.jpg", append(leafJPEG(t), make([]byte, 5<<20)...), services.CodeImageTooLarge},
	}
	for _, tc := range cases {
		rec := env.upload(t, "/api/diagnose", tc.field, tc.filename, tc.data)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d body=%s", tc.name, rec.Code, rec.Body.String())
		}
		var env2 struct {
			Error struct{ Message, Code string }
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &env2); err != nil || env2.Error.Code != tc.code {
			t.Fatalf("%s: body=%s", tc.name, rec.Body.String())
		}
	}
	if n := env.storedFiles(t); n != 0 {
		t.Fatalf("stored %d files for rejected uploads", n)
	}
	list := env.do(httptest.NewRequest(http.MethodGet, "/api/diagnoses", nil))
	if strings.TrimSpace(list.Body.String()) != "[]" {
		t.Fatalf("records created: %s", list.Body.String())
	}
}

func TestListNewestFirst(t *testing.T) {
	env := newTestEnv(t, fakeStrategy{label: "Potato___Late_blight"}, fakeProber{})
	const n = 5
	for i := 0; i < n; i++ {
		if rec := env.upload(t, "/api/diagnose", "image", "leaf.jpg", leafJPEG(t)); rec.Code != http.StatusCreated {
			t.Fatalf("create %d: %d", i, rec.Code)
		}
	}
	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/diagnoses", nil))
	var list []types.Diagnosis
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != n {
		t.Fatalf("list=%s err=%v", rec.Body.String(), err)
	}
	for i := 1; i < n; i++ {
		if !list[i-1].Timestamp.After(list[i].Timestamp) {
			t.Fatalf("timestamps not strictly decreasing at %d", i)
		}
		if list[i-1].ID <= list[i].ID {
			t.Fatalf("ids not decreasing at %d", i)
		}
	}
}

func TestGetDiagnosis(t *testing.T) {
	env := newTestEnv(t, fakeStrategy{label: "Apple___Apple_scab"}, fakeProber{})
	created := decodeDiagnosis(t, env.upload(t, "/api/diagnose", "image", "leaf.jpg", leafJPEG(t)))

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/diagnoses/1", nil))
	if rec.Code != http.StatusOK || decodeDiagnosis(t, rec).ID != created.ID {
		t.Fatalf("get: %d %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(httptest.NewRequest(http.MethodGet, "/api/diagnoses/999", nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("missing: %d", rec.Code)
	}
	for _, id := range []string{"0", "-1", "99999999999999999999"} {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/api/diagnoses/"+id, nil))
		if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"not_found"`) {
			t.Fatalf("id %s: %d %s", id, rec.Code, rec.Body.String())
		}
	}
	for _, id := range []string{"abc", "1.5"} {
		if rec := env.do(httptest.NewRequest(http.MethodGet, "/api/diagnoses/"+id, nil)); rec.Code != http.StatusBadRequest {
			t.Fatalf("non-integer %s: %d", id, rec.Code)
		}
	}
	if rec := env.do(httptest.NewRequest(http.MethodGet, "/diagnoses/0", nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("view id 0: %d", rec.Code)
	}
}

func TestDiagnoseAllClassifiersFail(t *testing.T) {
	env := newTestEnv(t, fakeStrategy{err: errors.New("connection refused")}, fakeProber{})
	rec := env.upload(t, "/api/diagnose", "image", "leaf.jpg", leafJPEG(t))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d", rec.Code)
	}
	d := decodeDiagnosis(t, rec)
	if d.DiseaseName.In(types.LangEnglish) != "Unknown" || d.Severity != types.SeverityMedium || d.SeverityScore != 50 {
		t.Fatalf("expected Unknown, got %+v", d)
	}
}

func TestMLStatus(t *testing.T) {
	env := newTestEnv(t, fakeStrategy{}, fakeProber{})
	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/ml-status", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"online"`) {
		t.Fatalf("online: %d %s", rec.Code, rec.Body.String())
	}

	env = newTestEnv(t, fakeStrategy{}, fakeProber{err: io.EOF})
	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/ml-status", nil))
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), `"status":"offline"`) {
		t.Fatalf("offline: %d %s", rec.Code, rec.Body.String())
	}
}

func TestViews(t *testing.T) {
	env := newTestEnv(t, fakeStrategy{label: "Corn_(maize)___Common_rust_"}, fakeProber{})

	home := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if home.Code != http.StatusOK || !strings.Contains(home.Body.String(), `dir="rtl"`) {
		t.Fatalf("home: %d", home.Code)
	}
	en := env.do(httptest.NewRequest(http.MethodGet, "/?lang=en", nil))
	if !strings.Contains(en.Body.String(), "Analyze Plant Image") || !strings.Contains(en.Body.String(), `dir="ltr"`) {
		t.Fatalf("english home missing text")
	}

	rec := env.upload(t, "/diagnose", "image", "leaf.jpg", leafJPEG(t))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/diagnoses/1" {
		t.Fatalf("form submit: %d %q", rec.Code, rec.Header().Get("Location"))
	}
	result := env.do(httptest.NewRequest(http.MethodGet, "/diagnoses/1?lang=en", nil))
	if result.Code != http.StatusOK || !strings.Contains(result.Body.String(), "Corn Common Rust") {
		t.Fatalf("result: %d", result.Code)
	}
	history := env.do(httptest.NewRequest(http.MethodGet, "/history", nil))
	if history.Code != http.StatusOK || !strings.Contains(history.Body.String(), "/diagnoses/1") {
		t.Fatalf("history: %d", history.Code)
	}

	bad := env.upload(t, "/diagnose?lang=en", "image", "notes.txt", []byte("plain text"))
	if bad.Code != http.StatusBadRequest || !strings.Contains(bad.Body.String(), "Only JPG and PNG images are allowed") {
		t.Fatalf("form error: %d", bad.Code)
	}

	if rec := env.do(httptest.NewRequest(http.MethodGet, "/diagnoses/77", nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("missing result page: %d", rec.Code)
	}
	if rec := env.do(httptest.NewRequest(http.MethodGet, "/nope", nil)); rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "<html") {
		t.Fatalf("html 404: %d", rec.Code)
	}
	if rec := env.do(httptest.NewRequest(http.MethodGet, "/api/nope", nil)); rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"not_found"`) {
		t.Fatalf("json 404: %d %s", rec.Code, rec.Body.String())
	}
}

func TestOpsEndpoints(t *testing.T) {
	env := newTestEnv(t, fakeStrategy{}, fakeProber{})
	if rec := env.do(httptest.NewRequest(http.MethodGet, "/healthcheck", nil)); rec.Code != http.StatusOK {
		t.Fatalf("healthcheck: %d", rec.Code)
	}
	_ = env.do(httptest.NewRequest(http.MethodGet, "/api/diagnoses", nil))
	rec := env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "plantdx_http_requests_total") {
		t.Fatalf("metrics: %d", rec.Code)
	}
}
