package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipebox/internal/db"
	"recipebox/internal/handlers"
	"recipebox/internal/repository"
)

func newTestRouter(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	database, err := db.OpenMemory("server_" + t.Name())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(database) })
	return newRouter(handlers.NewRecipeAPI(repository.New(database)), cfg)
}

func TestNewRouterRegistersHealthRoute(t *testing.T) {
	router := newRouter(handlers.NewRecipeAPI(nil), Config{})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected /healthz to return 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json content type, got %q", ct)
	}
}

func TestRouterAssignsRequestID(t *testing.T) {
	router := newRouter(handlers.NewRecipeAPI(nil), Config{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if id := rr.Header().Get(requestIDHeader); len(id) != 36 {
		t.Fatalf("expected generated uuid request id, got %q", id)
	}

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "upstream-id")
	router.ServeHTTP(rr, req)
	if id := rr.Header().Get(requestIDHeader); id != "upstream-id" {
		t.Fatalf("expected upstream request id to be echoed, got %q", id)
	}
}

func TestRouterRecipeRoutes(t *testing.T) {
	router := newTestRouter(t, Config{})

	body := `{"name":"Toast","number_of_portions":1,"instructions":"Toast the bread.",
		"ingredients":[{"name":"bread","quantity":2,"unit":"slices"}],"tools":["toaster"]}`
	for _, path := range []string{"/recipes/", "/recipes"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("POST %s: expected 200, got %d: %s", path, rr.Code, rr.Body.String())
		}
	}

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/recipes/1", http.StatusOK, `"name":"Toast"`},
		{"/recipes/1/card", http.StatusOK, "<h1>Toast</h1>"},
		{"/recipes/search?ingredient=bread", http.StatusOK, `"mode":"all"`},
		{"/recipes/", http.StatusOK, `"name":"Toast"`},
		{"/recipes/abc", http.StatusBadRequest, "invalid recipe id"},
		{"/readyz", http.StatusOK, `"status":"ok"`},
		{"/", http.StatusOK, "Welcome to Recipe API!"},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rr.Code != tc.status {
			t.Fatalf("GET %s: expected %d, got %d", tc.path, tc.status, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), tc.want) {
			t.Fatalf("GET %s: expected body to contain %q, got %s", tc.path, tc.want, rr.Body.String())
		}
	}
}

func TestRouterExposesMetrics(t *testing.T) {
	router := newRouter(handlers.NewRecipeAPI(nil), Config{})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `recipebox_http_requests_total{method="GET",route="/healthz",status="200"}`) {
		t.Fatalf("expected healthz request to be counted, got:\n%s", rr.Body.String())
	}
}

func TestRouterRateLimitsWrites(t *testing.T) {
	router := newTestRouter(t, Config{RateLimit: 1})

	post := func() int {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/recipes/", strings.NewReader(`{"name":`))
		req.RemoteAddr = "192.0.2.1:1234"
		router.ServeHTTP(rr, req)
		return rr.Code
	}
	if code := post(); code != http.StatusBadRequest {
		t.Fatalf("expected first write to reach the handler, got %d", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Fatalf("expected second write to be limited, got %d", code)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/recipes/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected reads to bypass the write limiter, got %d", rr.Code)
	}
}

func TestRouterCORS(t *testing.T) {
	router := newRouter(handlers.NewRecipeAPI(nil), Config{CORSOrigins: []string{"https://cook.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/recipes/", nil)
	req.Header.Set("Origin", "https://cook.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://cook.example" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}
