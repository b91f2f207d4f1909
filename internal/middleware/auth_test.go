package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iarchive/backend/internal/auth"
)

type fakeSessions struct {
	m map[string]string
}

func (f *fakeSessions) Create(_ context.Context, userID string) (string, error) {
	sid := "sid-" + userID
	f.m[sid] = userID
	return sid, nil
}

func (f *fakeSessions) Get(_ context.Context, sessionID string) (string, error) {
	return f.m[sessionID], nil
}

func (f *fakeSessions) Delete(_ context.Context, sessionID string) error {
	delete(f.m, sessionID)
	return nil
}

func TestRequireAuth(t *testing.T) {
	sessions := &fakeSessions{m: map[string]string{"sid-u1": "u1"}}

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = auth.UserIDFromContext(r.Context())
	})
	protected := RequireAuth(sessions)(next)

	// No cookie
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, httptest.NewRequest("GET", "/@me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no cookie: expected 401, got %d", w.Code)
	}

	// Unknown session
	req := httptest.NewRequest("GET", "/@me", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "sid-nobody"})
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unknown session: expected 401, got %d", w.Code)
	}

	// Valid session
	req = httptest.NewRequest("GET", "/@me", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "sid-u1"})
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid session: expected 200, got %d", w.Code)
	}
	if gotUserID != "u1" {
		t.Errorf("expected user id u1 in context, got %q", gotUserID)
	}

	// Session deleted after logout
	sessions.Delete(context.Background(), "sid-u1")
	req = httptest.NewRequest("GET", "/@me", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "sid-u1"})
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("deleted session: expected 401, got %d", w.Code)
	}
}
