package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlack_OK(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		got = payload["text"]
		w.WriteHeader(200)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	if s == nil {
		t.Fatal("expected slack client")
	}
	if err := s.Send(context.Background(), "Title", "Hello"); err != nil {
		t.Fatalf("send err: %v", err)
	}
	if got != "*Title*\nHello" {
		t.Fatalf("payload not as expected: %q", got)
	}
}

func TestSlack_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	if err := s.Send(context.Background(), "X", "Y"); err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}

func TestSlack_EmptyWebhook(t *testing.T) {
	if NewSlack("") != nil {
		t.Fatalf("expected nil for empty webhook")
	}
}

type failing struct{ err error }

func (f failing) Send(context.Context, string, string) error { return f.err }

func TestMulti_CollectsAllErrors(t *testing.T) {
	m := Multi{failing{errors.New("a")}, nil, failing{nil}, failing{errors.New("b")}}
	err := m.Send(context.Background(), "t", "x")
	if got := len(multierr.Errors(err)); got != 2 {
		t.Fatalf("want 2 errors, got %d (%v)", got, err)
	}
}

func TestNew_LogsWithoutWebhook(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := New(zap.New(core), "")

	if err := n.Send(context.Background(), "🔴 Target DOWN", "URL: x"); err != nil {
		t.Fatalf("send: %v", err)
	}
	entries := logs.FilterMessage("alert").All()
	if len(entries) != 1 || entries[0].ContextMap()["title"] != "🔴 Target DOWN" {
		t.Fatalf("alert not logged: %+v", entries)
	}
	if m, ok := n.(Multi); !ok || len(m) != 1 {
		t.Fatalf("expected log-only chain, got %#v", n)
	}
}
