package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Client drives an http.Handler in-process.
type Client struct {
	t testing.TB
	h http.Handler
}

// NewClient wraps h.
func NewClient(t testing.TB, h http.Handler) *Client {
	return &Client{t: t, h: h}
}

// Response is a recorded reply with its decoded JSON body.
type Response struct {
	Code   int
	Header http.Header
	Raw    []byte
	JSON   map[string]any
}

// Do sends body (marshalled to JSON when not nil) with the session token
// in X-Session-Id when token is not empty.
func (c *Client) Do(method, path string, body any, token string) Response {
	c.t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-Session-Id", token)
	}
	return c.Send(req)
}

// Send serves req and decodes a JSON reply if there is one.
func (c *Client) Send(req *http.Request) Response {
	c.t.Helper()

	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)

	res := Response{Code: rec.Code, Header: rec.Header(), Raw: rec.Body.Bytes()}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(c.t, json.Unmarshal(res.Raw, &res.JSON), "body: %s", res.Raw)
	}
	return res
}

// Success reports the envelope's success flag.
func (r Response) Success() bool {
	ok, _ := r.JSON["success"].(bool)
	return ok
}

// Message returns the envelope's message.
func (r Response) Message() string {
	m, _ := r.JSON["message"].(string)
	return m
}

// String returns a JSON string field.
func (r Response) String(key string) string {
	s, _ := r.JSON[key].(string)
	return s
}

// Number returns a JSON number field.
func (r Response) Number(key string) float64 {
	n, _ := r.JSON[key].(float64)
	return n
}

// Object returns a nested JSON object.
func (r Response) Object(key string) map[string]any {
	m, _ := r.JSON[key].(map[string]any)
	return m
}

// List returns a JSON array of objects.
func (r Response) List(key string) []map[string]any {
	raw, _ := r.JSON[key].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
