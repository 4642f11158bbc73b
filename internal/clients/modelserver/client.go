package modelserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/yungbote/plantdx-backend/internal/pkg/httpx"
)

type Options struct {
	BaseURL string
	Timeout time.Duration

	HTTPClient *http.Client
}

// Client talks to the sibling model server (/health, /predict).
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

type Prediction struct {
	ClassEN    string  `json:"class_en"`
	ClassAR    string  `json:"class_ar"`
	Confidence float64 `json:"confidence"`
	Severity   string  `json:"severity"`
}

type predictResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message,omitempty"`
	Prediction *Prediction `json:"prediction,omitempty"`
}

type Health struct {
	Status     string         `json:"status"`
	Message    string         `json:"message,omitempty"`
	NumClasses int            `json:"num_classes,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("modelserver: base url required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: httpx.NewTransport()}
	}
	return &Client{baseURL: baseURL, timeout: timeout, httpClient: hc}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// Predict uploads the image as the multipart "file" field.
func (c *Client) Predict(ctx context.Context, image []byte, filename, contentType string) (*Prediction, error) {
	if len(image) == 0 {
		return nil, errors.New("modelserver: empty image")
	}
	if filename == "" {
		filename = "image"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out predictResponse
	if err := c.do(ctx, http.MethodPost, "/predict", mw.FormDataContentType(), &body, &out); err != nil {
		return nil, err
	}
	if out.Status != "success" || out.Prediction == nil {
		msg := strings.TrimSpace(out.Message)
		if msg == "" {
			msg = "no prediction"
		}
		return nil, fmt.Errorf("modelserver: %s", msg)
	}
	return out.Prediction, nil
}

// Health returns the decoded body for any 2xx answer. Non-2xx answers come
// back as *httpx.HTTPError.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := httpx.CheckResponse(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
		return fmt.Errorf("modelserver: decode %s: %w", path, err)
	}
	return nil
}
