package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
	"github.com/m-okumura/poikatsu-dashboard/internal/tokenstore"
)

func TestMe_NoAuthHeaderWithoutToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me" {
			t.Fatalf("path = %s, want /users/me", r.URL.Path)
		}
		if h := r.Header.Get("Authorization"); h != "" {
			t.Fatalf("Authorization = %q, want empty", h)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(model.User{ID: 1, Email: "a@b.c", IsActive: true}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer ts.Close()

	client := New(ts.URL, tokenstore.NewMemStore())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	u, err := client.Me(ctx)
	if err != nil {
		t.Fatalf("Me error: %v", err)
	}
	if u.ID != 1 || u.Email != "a@b.c" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestMe_BearerHeaderWithToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "Bearer T1" {
			t.Fatalf("Authorization = %q, want Bearer T1", h)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.User{ID: 7, Email: "x@y.z", IsActive: true})
	}))
	defer ts.Close()

	store := tokenstore.NewMemStore()
	if err := store.Save(model.TokenPair{AccessToken: "T1", RefreshToken: "T2"}); err != nil {
		t.Fatalf("save tokens: %v", err)
	}

	client := New(ts.URL, store)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := client.Me(ctx); err != nil {
		t.Fatalf("Me error: %v", err)
	}
}

func TestAPIError_Detail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "email already registered"}`))
	}))
	defer ts.Close()

	client := New(ts.URL, tokenstore.NewMemStore())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := client.Me(ctx)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", apiErr.Status, http.StatusBadRequest)
	}
	if apiErr.Detail != "email already registered" {
		t.Fatalf("detail = %q, want %q", apiErr.Detail, "email already registered")
	}
}

func TestAPIError_UnparseableBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer ts.Close()

	client := New(ts.URL, tokenstore.NewMemStore())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := client.Me(ctx)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not *APIError", err)
	}
	if apiErr.Detail != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("detail = %q, want status text fallback", apiErr.Detail)
	}
}

func TestLogin_PersistsTokens(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			if r.Method != http.MethodPost {
				t.Fatalf("method = %s, want POST", r.Method)
			}
			if h := r.Header.Get("Authorization"); h != "" {
				t.Fatalf("login Authorization = %q, want empty", h)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token": "T1", "refresh_token": "T2", "token_type": "bearer"}`))
		case "/users/me":
			if h := r.Header.Get("Authorization"); h != "Bearer T1" {
				t.Fatalf("Authorization = %q, want Bearer T1", h)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(model.User{ID: 1, Email: "a@b.c", IsActive: true})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	store := tokenstore.NewMemStore()
	client := New(ts.URL, store)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	pair, err := client.Login(ctx, "a@b.c", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if pair.AccessToken != "T1" || pair.RefreshToken != "T2" {
		t.Fatalf("unexpected pair: %+v", pair)
	}

	stored, ok := store.Load()
	if !ok || stored.AccessToken != "T1" {
		t.Fatalf("tokens not persisted: %+v ok=%v", stored, ok)
	}

	if _, err := client.Me(ctx); err != nil {
		t.Fatalf("Me error: %v", err)
	}
}

func TestRegister_AcceptsCreatedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Fatalf("path = %s, want /auth/register", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message": "registration complete", "user": {"id": 1, "email": "a@b.c", "name": "Alice"}, "access_token": "T1", "refresh_token": "T2", "token_type": "bearer"}`))
	}))
	defer ts.Close()

	store := tokenstore.NewMemStore()
	client := New(ts.URL, store)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	pair, err := client.Register(ctx, "a@b.c", "secret", "Alice", "")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if pair.AccessToken != "T1" {
		t.Fatalf("unexpected pair: %+v", pair)
	}
	if stored, ok := store.Load(); !ok || stored.AccessToken != "T1" {
		t.Fatalf("tokens not persisted: %+v ok=%v", stored, ok)
	}
}

func TestLogin_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	client := New(ts.URL, tokenstore.NewMemStore())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := client.Login(ctx, "a@b.c", "secret")
	if !errors.Is(err, ErrBackendUnreachable) {
		t.Fatalf("error = %v, want ErrBackendUnreachable", err)
	}
}

func TestUploadReceipt_MultipartFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("image part: %v", err)
		}
		defer file.Close()

		data, _ := io.ReadAll(file)
		if string(data) != "fake-image" {
			t.Fatalf("image body = %q", data)
		}
		if header.Filename != "receipt.jpg" {
			t.Fatalf("filename = %q, want receipt.jpg", header.Filename)
		}
		if v := r.FormValue("store_name"); v != "FamilyMart" {
			t.Fatalf("store_name = %q", v)
		}
		if v := r.FormValue("amount"); v != "1280" {
			t.Fatalf("amount = %q", v)
		}
		if _, ok := r.MultipartForm.Value["purchased_at"]; ok {
			t.Fatal("purchased_at sent, want absent")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.Receipt{ID: 5, StoreName: "FamilyMart", Amount: 1280, Status: model.ReceiptStatusPending})
	}))
	defer ts.Close()

	client := New(ts.URL, tokenstore.NewMemStore())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	receipt, err := client.UploadReceipt(ctx, strings.NewReader("fake-image"), "receipt.jpg", "FamilyMart", 1280, nil)
	if err != nil {
		t.Fatalf("UploadReceipt error: %v", err)
	}
	if receipt.ID != 5 || receipt.Status != model.ReceiptStatusPending {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
}

func TestLogout_NoNetworkCall(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer ts.Close()

	store := tokenstore.NewMemStore()
	_ = store.Save(model.TokenPair{AccessToken: "T1", RefreshToken: "T2"})

	client := New(ts.URL, store)
	if err := client.Logout(); err != nil {
		t.Fatalf("Logout error: %v", err)
	}

	if requests != 0 {
		t.Fatalf("requests = %d, want 0", requests)
	}
	if _, ok := store.Load(); ok {
		t.Fatal("tokens still stored after Logout")
	}
}
