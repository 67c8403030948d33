package devto

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pressops/devto-mcp/internal/common"
	"github.com/pressops/devto-mcp/internal/gateway"
)

// flakyTransport fails the first n attempts at the network level, then
// serves a fixed success response.
type flakyTransport struct {
	failures int
	attempts int
}

func (t *flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.attempts++
	if t.attempts <= t.failures {
		return nil, errors.New("connection refused")
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"id": 1}`)),
		Header:     http.Header{},
	}, nil
}

func newFlakyClient(failures int) (*Client, *flakyTransport) {
	transport := &flakyTransport{failures: failures}
	c := NewClient("http://upstream.invalid", time.Second, common.NewSilentLogger())
	c.httpClient.Transport = transport
	return c, transport
}

func TestClient_RetriesOnceOnNetworkFailure(t *testing.T) {
	c, transport := newFlakyClient(1)

	raw, err := c.Execute(context.Background(), &gateway.UpstreamRequest{Method: "GET", Path: "/articles/1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transport.attempts != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", transport.attempts)
	}
	if string(raw) != `{"id": 1}` {
		t.Errorf("unexpected body %s", raw)
	}
}

func TestClient_GivesUpAfterSecondNetworkFailure(t *testing.T) {
	c, transport := newFlakyClient(10)

	_, err := c.Execute(context.Background(), &gateway.UpstreamRequest{Method: "GET", Path: "/articles/1"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if transport.attempts != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", transport.attempts)
	}

	e := gateway.Normalize(err)
	if e.Kind != gateway.KindUpstreamUnavailable {
		t.Errorf("expected upstream_unavailable, got %s", e.Kind)
	}
}

func TestClient_NeverRetriesAfterHTTPResponse(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, common.NewSilentLogger())
	_, err := c.Execute(context.Background(), &gateway.UpstreamRequest{Method: "GET", Path: "/articles/999"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if attempts != 1 {
		t.Errorf("an HTTP response must not be retried: expected 1 attempt, got %d", attempts)
	}

	e := gateway.Normalize(err)
	if e.Kind != gateway.KindNotFound {
		t.Errorf("expected not_found, got %s", e.Kind)
	}
	if e.UpstreamStatus != 404 {
		t.Errorf("expected upstream status 404, got %d", e.UpstreamStatus)
	}
	if e.Message != "not found" {
		t.Errorf("expected upstream error message extracted, got %q", e.Message)
	}
}

func TestClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "Rate limit reached"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, common.NewSilentLogger())
	_, err := c.Execute(context.Background(), &gateway.UpstreamRequest{Method: "GET", Path: "/articles"})

	e := gateway.Normalize(err)
	if e == nil || e.Kind != gateway.KindRateLimited {
		t.Fatalf("expected rate_limited, got %v", err)
	}
}

func TestClient_SendsCredentialHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, common.NewSilentLogger())

	req := &gateway.UpstreamRequest{
		Method:     "GET",
		Path:       "/users/me",
		Credential: gateway.ResolveCredential("secret-key", "", ""),
	}
	if _, err := c.Execute(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "secret-key" {
		t.Errorf("expected api-key header, got %q", gotKey)
	}

	// Without a credential the header must be absent entirely.
	if _, err := c.Execute(context.Background(), &gateway.UpstreamRequest{Method: "GET", Path: "/articles"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "" {
		t.Errorf("expected no api-key header, got %q", gotKey)
	}
}

func TestClient_SendsQueryAndBody(t *testing.T) {
	var gotQuery url.Values
	var gotBody map[string]interface{}
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, common.NewSilentLogger())

	q := url.Values{}
	q.Set("page", "2")
	req := &gateway.UpstreamRequest{
		Method: "POST",
		Path:   "/articles",
		Query:  q,
		Body:   map[string]interface{}{"article": map[string]interface{}{"title": "T"}},
	}
	if _, err := c.Execute(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery.Get("page") != "2" {
		t.Errorf("expected page=2, got %s", gotQuery.Get("page"))
	}
	if gotContentType != "application/json" {
		t.Errorf("expected JSON content type, got %s", gotContentType)
	}
	article, _ := gotBody["article"].(map[string]interface{})
	if article["title"] != "T" {
		t.Errorf("unexpected body: %v", gotBody)
	}
}
