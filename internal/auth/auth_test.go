package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "test-secret"

func principalCapture(t *testing.T, secret string, authorize func(r *http.Request)) (Principal, bool) {
	t.Helper()

	var got Principal
	var ok bool
	handler := Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	if authorize != nil {
		authorize(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got, ok
}

func TestMiddlewareValidToken(t *testing.T) {
	token, err := NewToken(testSecret, "user-123", "user@example.com", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	p, ok := principalCapture(t, testSecret, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if !ok {
		t.Fatal("valid token should attach a principal")
	}
	if p.UserID != "user-123" {
		t.Errorf("UserID = %q, want user-123", p.UserID)
	}
	if p.Email != "user@example.com" {
		t.Errorf("Email = %q, want user@example.com", p.Email)
	}
}

func TestMiddlewarePassesThroughWithoutRejecting(t *testing.T) {
	tests := []struct {
		name      string
		authorize func(r *http.Request)
	}{
		{"no header", nil},
		{"empty bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") }},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc123") }},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer not.a.jwt") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := principalCapture(t, testSecret, tt.authorize); ok {
				t.Error("invalid credentials should not attach a principal")
			}
		})
	}
}

func TestMiddlewareRejectsWrongSecret(t *testing.T) {
	token, err := NewToken("other-secret", "user-123", "", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := principalCapture(t, testSecret, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}); ok {
		t.Error("token signed with the wrong secret should not attach a principal")
	}
}

func TestMiddlewareRejectsExpiredToken(t *testing.T) {
	token, err := NewToken(testSecret, "user-123", "", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := principalCapture(t, testSecret, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}); ok {
		t.Error("expired token should not attach a principal")
	}
}

func TestPrincipalFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := PrincipalFromContext(req.Context()); ok {
		t.Error("bare context should carry no principal")
	}
}
