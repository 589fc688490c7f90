package handler_test

import (
	"net/http"
	"testing"
)

func TestHandleRegister(t *testing.T) {
	srv := newTestServer(t)

	var out struct {
		User struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		Token string `json:"token"`
	}
	resp := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":       "reg@example.com",
		"displayName": "Reg User",
		"password":    "password123",
	}, &out)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.StatusCode)
	}
	if out.User.ID == 0 {
		t.Fatal("expected a user ID in the response")
	}
	if out.User.Email != "reg@example.com" {
		t.Fatalf("expected email %q, got %q", "reg@example.com", out.User.Email)
	}
	if out.Token == "" {
		t.Fatal("expected a token in the response")
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "dup@example.com")

	resp := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":       "dup@example.com",
		"displayName": "Other",
		"password":    "password456",
	}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.StatusCode)
	}
}

func TestHandleRegister_InvalidInput(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":       "short@example.com",
		"displayName": "Short",
		"password":    "short",
	}, nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.StatusCode)
	}
}

func TestHandleLogin(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "login@example.com")

	var out struct {
		Token string `json:"token"`
	}
	resp := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "login@example.com",
		"password": "password123",
	}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if out.Token == "" {
		t.Fatal("expected a token in the response")
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "wrongpw@example.com")

	resp := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "wrongpw@example.com",
		"password": "nottherightone",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.StatusCode)
	}
}
