package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-okumura/poikatsu-dashboard/internal/apiclient"
	"github.com/m-okumura/poikatsu-dashboard/internal/session"
	"github.com/m-okumura/poikatsu-dashboard/internal/tokenstore"
	"github.com/m-okumura/poikatsu-dashboard/internal/view"
)

func TestReceiptsCommand_NoStatusFlag(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer ts.Close()

	api := apiclient.New(ts.URL, tokenstore.NewMemStore())
	sess := session.New(api, nil)

	var out bytes.Buffer
	views := view.New(api, sess, &out)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Фильтр по статусу есть только у административной очереди.
	if err := dispatch(ctx, sess, views, []string{"receipts", "-status", "pending"}); err == nil {
		t.Fatal("expected flag parse error for -status")
	}
	if requests != 0 {
		t.Fatalf("requests = %d, want 0 for rejected flag", requests)
	}

	for _, line := range strings.Split(usage, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "receipts ") && strings.Contains(line, "-status") {
			t.Fatalf("usage advertises -status for member receipts: %q", line)
		}
	}
}
