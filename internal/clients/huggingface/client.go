package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/plantdx-backend/internal/pkg/httpx"
)

const DefaultBaseURL = "https://api-inference.huggingface.co"

type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	HTTPClient *http.Client
}

// Client calls the hosted inference API for image-classification models.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type apiError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: httpx.NewTransport()}
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		timeout:    timeout,
		httpClient: hc,
	}, nil
}

// Classify posts the raw image bytes to /models/<model> and returns the
// predictions best first.
func (c *Client) Classify(ctx context.Context, model string, image []byte) ([]Prediction, error) {
	model = strings.Trim(strings.TrimSpace(model), "/")
	if model == "" {
		return nil, errors.New("huggingface: model required")
	}
	if len(image) == 0 {
		return nil, errors.New("huggingface: empty image")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/models/"+model, bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := httpx.CheckResponse(resp); err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	return decodePredictions(raw)
}

// decodePredictions accepts a flat [{label,score}] array, the nested
// [[{label,score}]] batch form, or an {"error": ...} object.
func decodePredictions(raw []byte) ([]Prediction, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("huggingface: empty response")
	}
	if raw[0] == '{' {
		var ae apiError
		if err := json.Unmarshal(raw, &ae); err == nil && ae.Error != "" {
			return nil, fmt.Errorf("huggingface: %s", ae.Error)
		}
		return nil, errors.New("huggingface: unexpected response object")
	}

	var flat []Prediction
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}
	var nested [][]Prediction
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, fmt.Errorf("huggingface: decode predictions: %w", err)
	}
	if len(nested) == 0 {
		return []Prediction{}, nil
	}
	return nested[0], nil
}
