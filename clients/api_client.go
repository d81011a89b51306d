package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/yashrajoria/storefront/common/errors"
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 1 << 20

// TokenSource supplies the bearer token for outgoing requests. An empty string
// means "not logged in".
type TokenSource interface {
	Token() string
}

// Call describes one backend request.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded when non-nil.
	Body interface{}
	// Auth fails the call before any I/O when no token is held.
	Auth bool
	// Fallback is shown when the backend gives no message of its own.
	Fallback string
}

// FilePart is a single file field of a multipart request.
type FilePart struct {
	Field    string
	Filename string
	Content  []byte
}

type APIClient struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
}

type Option func(*APIClient)

// WithTransport sets the RoundTripper, e.g. middleware.LoggingTransport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *APIClient) {
		c.client.Transport = rt
	}
}

func NewAPIClient(baseURL string, timeout time.Duration, tokens TokenSource, opts ...Option) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root without a trailing slash.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// HTTPClient exposes the underlying client so helpers (image probes) share
// the same transport and timeout.
func (c *APIClient) HTTPClient() *http.Client {
	return c.client
}

func (c *APIClient) Do(ctx context.Context, method, path string, query url.Values, headers http.Header, body io.Reader) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	for k, v := range headers {
		for _, vv := range v {
			req.Header.Add(k, vv)
		}
	}

	return c.client.Do(req)
}

// JSON performs call and decodes a 2xx JSON body into out (which may be nil).
func (c *APIClient) JSON(ctx context.Context, call Call, out interface{}) error {
	headers, err := c.headers(call)
	if err != nil {
		return err
	}

	var body io.Reader
	if call.Body != nil {
		b, err := json.Marshal(call.Body)
		if err != nil {
			return apperrors.Validation(fmt.Sprintf("%s: cannot encode request", call.Fallback))
		}
		body = bytes.NewReader(b)
		headers.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(ctx, call.Method, call.Path, call.Query, headers, body)
	if err != nil {
		return apperrors.Network(call.Fallback, err)
	}
	return DecodeJSON(resp, out, call.Fallback)
}

// Multipart sends fields and optional files as multipart/form-data.
func (c *APIClient) Multipart(ctx context.Context, call Call, fields map[string]string, files []FilePart, out interface{}) error {
	headers, err := c.headers(call)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return apperrors.Validation(call.Fallback)
		}
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return apperrors.Validation(call.Fallback)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return apperrors.Validation(call.Fallback)
		}
	}
	if err := w.Close(); err != nil {
		return apperrors.Validation(call.Fallback)
	}
	headers.Set("Content-Type", w.FormDataContentType())

	resp, err := c.Do(ctx, call.Method, call.Path, call.Query, headers, &buf)
	if err != nil {
		return apperrors.Network(call.Fallback, err)
	}
	return DecodeJSON(resp, out, call.Fallback)
}

func (c *APIClient) headers(call Call) (http.Header, error) {
	h := http.Header{}
	h.Set("Accept", "application/json")

	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	if token == "" {
		if call.Auth {
			return nil, apperrors.Unauthenticated(apperrors.ErrNotAuthenticated.Message)
		}
		return h, nil
	}
	h.Set("Authorization", "Bearer "+token)
	return h, nil
}

// errorPayload covers both `{message}` and the `{error}` shape some services use.
type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// DecodeJSON closes resp.Body. A non-2xx status becomes an *errors.Error whose
// message comes from the payload when present and from fallback otherwise.
func DecodeJSON(resp *http.Response, out interface{}, fallback string) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apperrors.FromStatus(resp.StatusCode, extractMessage(body, fallback))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Network(fallback, err)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Decode(fallback, err)
	}
	return nil
}

func extractMessage(body []byte, fallback string) string {
	var p errorPayload
	if err := json.Unmarshal(body, &p); err == nil {
		if m := strings.TrimSpace(p.Message); m != "" {
			return m
		}
		if m := strings.TrimSpace(p.Error); m != "" {
			return m
		}
	}
	return fallback
}
