package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-okumura/poikatsu-dashboard/internal/apiclient"
	"github.com/m-okumura/poikatsu-dashboard/internal/model"
	"github.com/m-okumura/poikatsu-dashboard/internal/tokenstore"
	"github.com/m-okumura/poikatsu-dashboard/internal/validation"
)

type navRecorder struct {
	routes []string
}

func (n *navRecorder) Goto(route string) {
	n.routes = append(n.routes, route)
}

func newBackend(t *testing.T, meCalls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token": "T1", "refresh_token": "T2", "token_type": "bearer"}`))
		case "/users/me":
			*meCalls++
			if r.Header.Get("Authorization") != "Bearer T1" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail": "not authenticated"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(model.User{ID: 1, Email: "a@b.c", IsActive: true})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestLogin_SingleRefreshAndNavigate(t *testing.T) {
	meCalls := 0
	ts := newBackend(t, &meCalls)
	defer ts.Close()

	nav := &navRecorder{}
	sess := New(apiclient.New(ts.URL, tokenstore.NewMemStore()), nav)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := sess.Login(ctx, "a@b.c", "secret"); err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if meCalls != 1 {
		t.Fatalf("me calls = %d, want exactly 1", meCalls)
	}
	if u := sess.User(); u == nil || u.ID != 1 {
		t.Fatalf("unexpected user: %+v", u)
	}
	if len(nav.routes) != 1 || nav.routes[0] != RouteDashboard {
		t.Fatalf("routes = %v, want [%s]", nav.routes, RouteDashboard)
	}
}

func TestLoginRegister_ImplausibleEmailBeforeNetwork(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer ts.Close()

	nav := &navRecorder{}
	sess := New(apiclient.New(ts.URL, tokenstore.NewMemStore()), nav)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := sess.Login(ctx, "not-an-email", "secret"); !errors.Is(err, validation.ErrInvalidEmail) {
		t.Fatalf("Login error = %v, want ErrInvalidEmail", err)
	}
	if err := sess.Login(ctx, "", "secret"); !errors.Is(err, validation.ErrBlankField) {
		t.Fatalf("Login error = %v, want ErrBlankField", err)
	}
	if err := sess.Register(ctx, "not-an-email", "secret", "Alice", ""); !errors.Is(err, validation.ErrInvalidEmail) {
		t.Fatalf("Register error = %v, want ErrInvalidEmail", err)
	}

	if requests != 0 {
		t.Fatalf("requests = %d, want 0 for invalid email", requests)
	}
	if sess.User() != nil {
		t.Fatal("user set after rejected input")
	}
	if len(nav.routes) != 0 {
		t.Fatalf("routes = %v, want none", nav.routes)
	}
}

func TestLogin_FailureLeavesLoggedOut(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "invalid email or password"}`))
	}))
	defer ts.Close()

	nav := &navRecorder{}
	sess := New(apiclient.New(ts.URL, tokenstore.NewMemStore()), nav)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := sess.Login(ctx, "a@b.c", "wrong"); err == nil {
		t.Fatal("expected login error, got nil")
	}
	if sess.User() != nil {
		t.Fatal("user set after failed login")
	}
	if len(nav.routes) != 0 {
		t.Fatalf("routes = %v, want none", nav.routes)
	}
}

func TestInit_InvalidTokenMeansLoggedOut(t *testing.T) {
	meCalls := 0
	ts := newBackend(t, &meCalls)
	defer ts.Close()

	store := tokenstore.NewMemStore()
	_ = store.Save(model.TokenPair{AccessToken: "expired", RefreshToken: "old"})

	sess := New(apiclient.New(ts.URL, store), nil)

	if !sess.Loading() {
		t.Fatal("Loading = false before Init, want true")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sess.Init(ctx)

	if sess.Loading() {
		t.Fatal("Loading = true after Init, want false")
	}
	if sess.User() != nil {
		t.Fatal("user set with invalid token, want logged-out state")
	}
}

func TestLogout_ClearsUserAndNavigates(t *testing.T) {
	meCalls := 0
	ts := newBackend(t, &meCalls)
	defer ts.Close()

	nav := &navRecorder{}
	store := tokenstore.NewMemStore()
	sess := New(apiclient.New(ts.URL, store), nav)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := sess.Login(ctx, "a@b.c", "secret"); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if err := sess.Logout(); err != nil {
		t.Fatalf("Logout error: %v", err)
	}

	if sess.User() != nil {
		t.Fatal("user still set after Logout")
	}
	if _, ok := store.Load(); ok {
		t.Fatal("tokens still stored after Logout")
	}
	if len(nav.routes) != 2 || nav.routes[1] != RouteLogin {
		t.Fatalf("routes = %v, want dashboard then login", nav.routes)
	}
}

func TestIsAdmin(t *testing.T) {
	sess := New(apiclient.New("http://unused", tokenstore.NewMemStore()), nil)
	if sess.IsAdmin() {
		t.Fatal("IsAdmin = true for logged-out session")
	}
}
