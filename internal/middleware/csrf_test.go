package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func csrfTestHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCSRFMiddleware_SafeMethodSetsCookie(t *testing.T) {
	handler := NewCSRFMiddleware(CSRFConfig{})(csrfTestHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	cookie := findCookie(t, rec, "csrf_token")
	if cookie == nil {
		t.Fatal("csrf_token cookie should be set on safe method")
	}
	if cookie.HttpOnly {
		t.Error("csrf_token cookie must be readable by frontend (HttpOnly=false)")
	}
	if len(cookie.Value) != 32 {
		t.Errorf("token length = %d, want 32 hex chars", len(cookie.Value))
	}
}

func TestCSRFMiddleware_SafeMethodKeepsExistingCookie(t *testing.T) {
	handler := NewCSRFMiddleware(CSRFConfig{})(csrfTestHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "existing-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if cookie := findCookie(t, rec, "csrf_token"); cookie != nil {
		t.Error("existing csrf_token cookie should not be overwritten")
	}
}

func TestCSRFMiddleware_UnsafeMethodValidToken(t *testing.T) {
	handler := NewCSRFMiddleware(CSRFConfig{})(csrfTestHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "token-abc"})
	req.Header.Set("X-CSRF-Token", "token-abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestCSRFMiddleware_UnsafeMethodRejections(t *testing.T) {
	tests := []struct {
		name        string
		cookieValue string
		headerValue string
	}{
		{name: "missing cookie", cookieValue: "", headerValue: "token-abc"},
		{name: "missing header", cookieValue: "token-abc", headerValue: ""},
		{name: "token mismatch", cookieValue: "token-abc", headerValue: "token-xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCSRFMiddleware(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler should not be called")
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/appointments", nil)
			if tt.cookieValue != "" {
				req.AddCookie(&http.Cookie{Name: "csrf_token", Value: tt.cookieValue})
			}
			if tt.headerValue != "" {
				req.Header.Set("X-CSRF-Token", tt.headerValue)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
			}
		})
	}
}

func TestCSRFTokenHandler_IssuesNewToken(t *testing.T) {
	handler := NewCSRFTokenHandler(CSRFConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body["token"]) != 32 {
		t.Errorf("token length = %d, want 32 hex chars", len(body["token"]))
	}

	cookie := findCookie(t, rec, "csrf_token")
	if cookie == nil {
		t.Fatal("csrf_token cookie should be set")
	}
	if cookie.Value != body["token"] {
		t.Error("cookie token and response token should match")
	}
}

func TestCSRFTokenHandler_ReusesExistingToken(t *testing.T) {
	handler := NewCSRFTokenHandler(CSRFConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "existing-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["token"] != "existing-token" {
		t.Errorf("token = %q, want existing-token", body["token"])
	}
}
