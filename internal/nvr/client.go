package nvr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Flarenzy/labcam/internal/auth"
	"github.com/Flarenzy/labcam/internal/domain"
	"github.com/google/uuid"
)

const (
	checkIPPath   = "/check_ip"
	addCameraPath = "/add_camera"
	legacyAddPath = "/index"

	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 20
	maxErrorSnippet = 256
)

type Config struct {
	BaseURL string
	Timeout time.Duration
	// LegacyAdd posts to /index?add=1&lab=<lab> without lab_name in the body.
	LegacyAdd bool
	Tokens    auth.TokenSource
}

// StatusError is returned when an endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	RequestID  string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d (request %s)", e.StatusCode, e.RequestID)
	}
	return fmt.Sprintf("unexpected status %d (request %s): %s", e.StatusCode, e.RequestID, e.Body)
}

// Client talks to the NVR-backed validation and add-camera endpoints.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	legacyAdd bool
	tokens    auth.TokenSource
}

func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: nvr base url is empty", domain.ErrInvalidInput)
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse nvr base url: %v", domain.ErrInvalidInput, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: nvr base url must be an absolute http(s) url", domain.ErrInvalidInput)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:   base,
		http:      httpClient,
		legacyAdd: cfg.LegacyAdd,
		tokens:    cfg.Tokens,
	}, nil
}

func (c *Client) CheckCamera(ctx context.Context, ip string) (domain.CameraLookup, error) {
	resp, err := c.postJSON(ctx, c.endpoint(checkIPPath, nil), CheckIPRequest{IP: ip})
	if err != nil {
		return domain.CameraLookup{}, fmt.Errorf("nvr: check camera: %w", err)
	}
	defer resp.Body.Close()

	body, err := decode[CheckIPResponse](resp)
	if err != nil {
		return domain.CameraLookup{}, fmt.Errorf("nvr: check camera: %w", err)
	}
	return body.toDomain(), nil
}

func (c *Client) AddCamera(ctx context.Context, input domain.AddCameraInput) (domain.AddCameraResult, error) {
	payload := AddCameraRequest{
		IP:         input.IP,
		DeviceInfo: input.DeviceInfo,
	}

	target := c.endpoint(addCameraPath, nil)
	if c.legacyAdd {
		target = c.endpoint(legacyAddPath, url.Values{
			"add": {"1"},
			"lab": {string(input.Lab)},
		})
	} else {
		payload.LabName = string(input.Lab)
	}

	resp, err := c.postJSON(ctx, target, payload)
	if err != nil {
		return domain.AddCameraResult{}, fmt.Errorf("nvr: add camera: %w", err)
	}
	defer resp.Body.Close()

	// The legacy page answers with a redirect to the rendered index.
	if c.legacyAdd && !isJSON(resp.Header.Get("Content-Type")) {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return domain.AddCameraResult{Success: true}, nil
	}

	body, err := decode[AddCameraResponse](resp)
	if err != nil {
		return domain.AddCameraResult{}, fmt.Errorf("nvr: add camera: %w", err)
	}
	return body.toDomain(), nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = ""
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) postJSON(ctx context.Context, target string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorSnippet))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			RequestID:  requestID,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	return resp, nil
}

func decode[T any](resp *http.Response) (T, error) {
	var v T
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&v); err != nil {
		return v, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
