package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func echoRole() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen-Role", r.Header.Get("X-Role-Name"))
		w.WriteHeader(http.StatusOK)
	})
}

func request(t *testing.T, srv *httptest.Server, method, path string, hdr map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	return res
}

func TestOpenDeploymentGrantsBackendRole(t *testing.T) {
	srv := httptest.NewServer(PerimeterMiddleware(SecConfig{})(echoRole()))
	defer srv.Close()

	res := request(t, srv, "POST", "/v1/messages", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("open deployment rejected request: %v", res.Status)
	}
	if got := res.Header.Get("X-Seen-Role"); got != "backend" {
		t.Fatalf("expected backend role in open deployment, got %q", got)
	}
}

func TestKeyedDeploymentRejectsUnauth(t *testing.T) {
	cfg := SecConfig{
		BackendKeys:  map[string]struct{}{"bk": {}},
		FrontendKeys: map[string]struct{}{"fk": {}},
		AdminKeys:    map[string]struct{}{"ak": {}},
	}
	srv := httptest.NewServer(PerimeterMiddleware(cfg)(echoRole()))
	defer srv.Close()

	if res := request(t, srv, "GET", "/v1/inbox", nil); res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %v", res.Status)
	}
	if res := request(t, srv, "GET", "/v1/inbox", map[string]string{"X-API-Key": "wrong"}); res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with unknown key, got %v", res.Status)
	}

	res := request(t, srv, "GET", "/v1/inbox", map[string]string{"Authorization": "Bearer bk"})
	if res.StatusCode != http.StatusOK || res.Header.Get("X-Seen-Role") != "backend" {
		t.Fatalf("backend key not honored: %v role=%q", res.Status, res.Header.Get("X-Seen-Role"))
	}
	res = request(t, srv, "GET", "/v1/inbox", map[string]string{"X-API-Key": "ak"})
	if res.StatusCode != http.StatusOK || res.Header.Get("X-Seen-Role") != "admin" {
		t.Fatalf("admin key not honored: %v role=%q", res.Status, res.Header.Get("X-Seen-Role"))
	}
}

func TestHealthProbesStayOpen(t *testing.T) {
	cfg := SecConfig{BackendKeys: map[string]struct{}{"bk": {}}}
	srv := httptest.NewServer(PerimeterMiddleware(cfg)(echoRole()))
	defer srv.Close()

	for _, path := range []string{"/healthz", "/readyz"} {
		if res := request(t, srv, "GET", path, nil); res.StatusCode != http.StatusOK {
			t.Fatalf("probe %s blocked: %v", path, res.Status)
		}
	}
}

func TestFrontendKeyIsReadOnly(t *testing.T) {
	cfg := SecConfig{
		BackendKeys:  map[string]struct{}{"bk": {}},
		FrontendKeys: map[string]struct{}{"fk": {}},
	}
	srv := httptest.NewServer(PerimeterMiddleware(cfg)(echoRole()))
	defer srv.Close()

	hdr := map[string]string{"X-API-Key": "fk"}
	if res := request(t, srv, "GET", "/v1/inbox", hdr); res.StatusCode != http.StatusOK {
		t.Fatalf("frontend GET blocked: %v", res.Status)
	}
	if res := request(t, srv, "POST", "/v1/inbox/verify", hdr); res.StatusCode != http.StatusOK {
		t.Fatalf("frontend verify blocked: %v", res.Status)
	}
	if res := request(t, srv, "POST", "/v1/messages", hdr); res.StatusCode != http.StatusForbidden {
		t.Fatalf("frontend write allowed: %v", res.Status)
	}
}

func TestRoleHeaderCannotBeSpoofed(t *testing.T) {
	cfg := SecConfig{
		BackendKeys:  map[string]struct{}{"bk": {}},
		FrontendKeys: map[string]struct{}{"fk": {}},
	}
	srv := httptest.NewServer(PerimeterMiddleware(cfg)(echoRole()))
	defer srv.Close()

	res := request(t, srv, "GET", "/v1/inbox", map[string]string{
		"X-API-Key":   "fk",
		"X-Role-Name": "admin",
	})
	if got := res.Header.Get("X-Seen-Role"); got != "frontend" {
		t.Fatalf("client-supplied role header not overwritten: %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := SecConfig{RPS: 1, Burst: 2}
	srv := httptest.NewServer(PerimeterMiddleware(cfg)(echoRole()))
	defer srv.Close()

	limited := false
	for i := 0; i < 10; i++ {
		res := request(t, srv, "GET", "/v1/inbox", nil)
		if res.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Fatalf("burst of 10 requests was never rate limited at rps=1 burst=2")
	}
}

func TestIPWhitelist(t *testing.T) {
	cfg := SecConfig{IPWhitelist: []string{"203.0.113.7"}}
	srv := httptest.NewServer(PerimeterMiddleware(cfg)(echoRole()))
	defer srv.Close()

	// httptest connects from 127.0.0.1, which is not on the list
	if res := request(t, srv, "GET", "/v1/inbox", nil); res.StatusCode != http.StatusForbidden {
		t.Fatalf("non-whitelisted ip admitted: %v", res.Status)
	}
}

func TestCORSPreflight(t *testing.T) {
	cfg := SecConfig{AllowedOrigins: []string{"https://app.example.com"}}
	srv := httptest.NewServer(PerimeterMiddleware(cfg)(echoRole()))
	defer srv.Close()

	res := request(t, srv, "OPTIONS", "/v1/inbox", map[string]string{"Origin": "https://app.example.com"})
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight not short-circuited: %v", res.Status)
	}
	if res.Header.Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Fatalf("allowed origin not echoed: %q", res.Header.Get("Access-Control-Allow-Origin"))
	}

	res = request(t, srv, "OPTIONS", "/v1/inbox", map[string]string{"Origin": "https://evil.example.com"})
	if res.Header.Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("disallowed origin echoed")
	}
}
