package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/evergreenbyte/keepsake/internal/database"
	"github.com/evergreenbyte/keepsake/internal/wishes"
)

func TestRequestIDHeaderIsAssigned(testContext *testing.T) {
	deps := emptyDependencies()
	deps.Wishes = &fakeWishService{
		listFn: func(ctx context.Context) ([]wishes.Wish, error) {
			return []wishes.Wish{}, nil
		},
	}
	router := newTestRouter(testContext, deps)

	recorder := performRequest(router, httptest.NewRequest(http.MethodGet, "/wishes", http.NoBody))
	if recorder.Header().Get("X-Request-ID") == "" {
		testContext.Fatal("expected X-Request-ID header to be assigned")
	}
}

func TestRequestIDHeaderIsEchoed(testContext *testing.T) {
	deps := emptyDependencies()
	deps.Wishes = &fakeWishService{
		listFn: func(ctx context.Context) ([]wishes.Wish, error) {
			return []wishes.Wish{}, nil
		},
	}
	router := newTestRouter(testContext, deps)

	request := httptest.NewRequest(http.MethodGet, "/wishes", http.NoBody)
	request.Header.Set("X-Request-ID", "client-assigned-id")
	recorder := performRequest(router, request)

	if got := recorder.Header().Get("X-Request-ID"); got != "client-assigned-id" {
		testContext.Fatalf("expected echoed request id, got %q", got)
	}
}

func TestCORSPreflightAllowsBrowserClients(testContext *testing.T) {
	router := newTestRouter(testContext, emptyDependencies())

	request := httptest.NewRequest(http.MethodOptions, "/wishes", http.NoBody)
	request.Header.Set("Origin", "https://gallery.example.com")
	request.Header.Set("Access-Control-Request-Method", http.MethodPut)
	recorder := performRequest(router, request)

	if recorder.Code != http.StatusNoContent {
		testContext.Fatalf("expected preflight status %d, got %d", http.StatusNoContent, recorder.Code)
	}

	allowMethods := recorder.Header().Get("Access-Control-Allow-Methods")
	if !strings.Contains(allowMethods, http.MethodPut) {
		testContext.Fatalf("expected PUT in allowed methods, got %q", allowMethods)
	}
}

func TestHealthReportsConnectedDatabase(testContext *testing.T) {
	deps := emptyDependencies()
	deps.Health = &fakeHealthChecker{state: database.StateConnected}
	router := newTestRouter(testContext, deps)

	recorder := performRequest(router, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
	if recorder.Code != http.StatusOK {
		testContext.Fatalf("expected 200, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "connected") {
		testContext.Fatalf("expected connected state in body, got %s", recorder.Body.String())
	}
}

func TestHealthReportsDegradedDatabase(testContext *testing.T) {
	deps := emptyDependencies()
	deps.Health = &fakeHealthChecker{state: database.StateDegraded, pingErr: database.ErrUnavailable}
	router := newTestRouter(testContext, deps)

	recorder := performRequest(router, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
	if recorder.Code != http.StatusServiceUnavailable {
		testContext.Fatalf("expected 503, got %d", recorder.Code)
	}
}

func TestNewHTTPHandlerRequiresServices(testContext *testing.T) {
	testCases := []struct {
		name   string
		mutate func(deps *Dependencies)
	}{
		{name: "missing-wishes", mutate: func(deps *Dependencies) { deps.Wishes = nil }},
		{name: "missing-photos", mutate: func(deps *Dependencies) { deps.Photos = nil }},
		{name: "missing-stories", mutate: func(deps *Dependencies) { deps.Stories = nil }},
	}

	for _, testCase := range testCases {
		testContext.Run(testCase.name, func(testContext *testing.T) {
			deps := emptyDependencies()
			testCase.mutate(&deps)
			if _, err := NewHTTPHandler(deps); err == nil {
				testContext.Fatal("expected construction error")
			}
		})
	}
}
