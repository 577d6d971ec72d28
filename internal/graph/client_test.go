package graph

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/bobmcallan/safe-email-mcp/internal/common"
)

func staticToken(token string) TokenProvider {
	return TokenProviderFunc(func(context.Context) (string, error) { return token, nil })
}

func TestClientDo_GetWithQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/v1.0/me/messages" {
			t.Errorf("expected /v1.0/me/messages, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("$top"); got != "5" {
			t.Errorf("expected $top=5, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("expected bearer token, got %q", got)
		}
		if r.Header.Get("Content-Type") != "" {
			t.Errorf("expected no content type on GET, got %q", r.Header.Get("Content-Type"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value":[{"id":"m1"}]}`))
	}))
	defer srv.Close()

	c := NewClient(staticToken("tok-123"), common.NewSilentLogger(), WithBaseURL(srv.URL+"/v1.0/"))
	body, err := c.Do(context.Background(), http.MethodGet, "/me/messages", url.Values{"$top": {"5"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"value":[{"id":"m1"}]}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestClientDo_PostJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected application/json, got %q", r.Header.Get("Content-Type"))
		}
		raw, _ := io.ReadAll(r.Body)
		var got map[string]any
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("body is not JSON: %v", err)
		}
		if got["saveToSentItems"] != false {
			t.Errorf("expected saveToSentItems=false, got %v", got["saveToSentItems"])
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(staticToken("t"), common.NewSilentLogger(), WithBaseURL(srv.URL))
	body, err := c.Do(context.Background(), http.MethodPost, "/me/sendMail", nil, map[string]any{"saveToSentItems": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"message":"OK!"}` {
		t.Errorf("expected OK placeholder for empty body, got %s", body)
	}
}

func TestClientDo_GraphErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"ErrorItemNotFound","message":"The specified object was not found in the store."}}`))
	}))
	defer srv.Close()

	c := NewClient(staticToken("t"), common.NewSilentLogger(), WithBaseURL(srv.URL))
	_, err := c.Do(context.Background(), http.MethodGet, "/me/messages/nope", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Code != "ErrorItemNotFound" {
		t.Errorf("unexpected error fields %+v", apiErr)
	}
}

func TestClientDo_PlainErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(staticToken("t"), common.NewSilentLogger(), WithBaseURL(srv.URL))
	_, err := c.Do(context.Background(), http.MethodGet, "/me", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "bad gateway" {
		t.Errorf("expected message 'bad gateway', got %q", apiErr.Message)
	}
}

func TestClientDo_TokenError(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	tokenErr := errors.New("not logged in")
	tokens := TokenProviderFunc(func(context.Context) (string, error) { return "", tokenErr })
	c := NewClient(tokens, common.NewSilentLogger(), WithBaseURL(srv.URL))

	_, err := c.Do(context.Background(), http.MethodGet, "/me", nil, nil)
	if !errors.Is(err, tokenErr) {
		t.Fatalf("expected token error to be wrapped, got %v", err)
	}
	if called {
		t.Error("request must not be sent without a token")
	}
}

func TestClientDo_ServerUnavailable(t *testing.T) {
	c := NewClient(staticToken("t"), common.NewSilentLogger(), WithBaseURL("http://localhost:1"))
	if _, err := c.Do(context.Background(), http.MethodGet, "/me", nil, nil); err == nil {
		t.Fatal("expected error when server is unavailable")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(staticToken("t"), common.NewSilentLogger())
	if c.baseURL != DefaultBaseURL {
		t.Errorf("expected %s, got %s", DefaultBaseURL, c.baseURL)
	}
}
