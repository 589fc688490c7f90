package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/focusdoro/internal/handler"
	"github.com/msomdec/focusdoro/internal/repository/sqlite"
	"github.com/msomdec/focusdoro/internal/service"
)

const testJWTSecret = "test-secret-key-that-is-long-enough-for-hmac"

// newTestServer wires the full stack against a temp database and returns
// a running test server.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	auth := service.NewAuthService(db.Users(), testJWTSecret, 4, time.Hour)
	stats := service.NewStatisticsService(db.Statistics())
	timers := service.NewTimerService(db.Timers(), stats)
	subs := service.NewSubscriptionService(db.Subscriptions(), service.NewPaymentProcessor())
	tasks := service.NewTaskService(db.Tasks(), subs, 5)

	limiter := service.NewTokenBucket(1000, 1000)
	t.Cleanup(limiter.Close)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, timers, stats, subs, tasks, limiter)

	srv := httptest.NewServer(handler.SecurityHeaders(handler.CORS(mux)))
	t.Cleanup(srv.Close)
	return srv
}

// doJSON issues a request with an optional bearer token and JSON body, and
// decodes the JSON response into out when non-nil.
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp
}

// registerUser registers a fresh account and returns its bearer token.
func registerUser(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()

	var out struct {
		Token string `json:"token"`
	}
	resp := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":       email,
		"displayName": "Test User",
		"password":    "password123",
	}, &out)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected status 201, got %d", email, resp.StatusCode)
	}
	if out.Token == "" {
		t.Fatal("expected a token in the register response")
	}
	return out.Token
}
