package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/bobmcallan/safe-email-mcp/internal/catalog"
	"github.com/bobmcallan/safe-email-mcp/internal/common"
	"github.com/bobmcallan/safe-email-mcp/internal/mcp"
	"github.com/bobmcallan/safe-email-mcp/internal/policy"
)

type stubDispatcher struct{}

func (stubDispatcher) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	return []byte(`{"value":[{"id":"m1"}]}`), nil
}

func newHTTPTestServer(t *testing.T, enableAuth bool) *httptest.Server {
	t.Helper()
	cfg, err := policy.NewConfig(true, "", enableAuth, policy.TransportHTTP)
	if err != nil {
		t.Fatalf("policy.NewConfig: %v", err)
	}
	set, err := mcp.Register(catalog.Endpoints, cfg, stubDispatcher{})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	logger := common.NewSilentLogger()
	mcpSrv := mcp.NewServer(set, cfg, nil, "test", logger)

	srv := httptest.NewServer(New(mcpSrv, "127.0.0.1:0", logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postRPC(t *testing.T, baseURL, body string) map[string]any {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, baseURL+MCPPath, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /mcp: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Correlation-ID") == "" {
		t.Error("expected X-Correlation-ID header")
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestHealth(t *testing.T) {
	srv := newHTTPTestServer(t, false)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Status  string `json:"status"`
		Version struct {
			Version string `json:"version"`
		} `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Version.Version == "" {
		t.Errorf("unexpected health body %+v", body)
	}
}

func TestHealth_RejectsPost(t *testing.T) {
	srv := newHTTPTestServer(t, false)

	resp, err := http.Post(srv.URL+"/health", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestMCPEndpoint_ListsReadOnlyToolsWithoutAuthTools(t *testing.T) {
	srv := newHTTPTestServer(t, false)

	out := postRPC(t, srv.URL, `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	result, _ := out["result"].(map[string]any)
	tools, _ := result["tools"].([]any)

	var names []string
	for _, tool := range tools {
		if m, ok := tool.(map[string]any); ok {
			names = append(names, m["name"].(string))
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		t.Fatal("expected tools over HTTP")
	}
	for _, name := range names {
		if name == mcp.ToolLogin || name == mcp.ToolLogout {
			t.Errorf("auth tool %s must not be published over HTTP without opt-in", name)
		}
		if strings.HasPrefix(name, "send-") || strings.HasPrefix(name, "delete-") {
			t.Errorf("write tool %s published in read-only mode", name)
		}
	}
}

func TestMCPEndpoint_CallTool(t *testing.T) {
	srv := newHTTPTestServer(t, false)

	out := postRPC(t, srv.URL, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"list-mail-messages","arguments":{"top":1}}}`)
	result, _ := out["result"].(map[string]any)
	if isErr, _ := result["isError"].(bool); isErr {
		t.Fatalf("unexpected error result %v", result)
	}
	content, _ := result["content"].([]any)
	if len(content) == 0 {
		t.Fatalf("expected content, got %v", result)
	}
	text, _ := content[0].(map[string]any)["text"].(string)
	if text != `{"value":[{"id":"m1"}]}` {
		t.Errorf("unexpected text %q", text)
	}
}

func TestMCPEndpoint_RejectsNonJSON(t *testing.T) {
	srv := newHTTPTestServer(t, false)

	resp, err := http.Post(srv.URL+MCPPath, "text/plain", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}
