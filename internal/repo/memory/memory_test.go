package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamed0406/pulseping/internal/repo"
)

func TestMemoryStore_ReadMissingIsNotFound(t *testing.T) {
	s := New()
	_, err := s.Read(context.Background(), "pings-2025-01-01.jsonl")
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_WriteOverwritesAndCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.EnsureContainer(ctx); err != nil {
		t.Fatalf("EnsureContainer: %v", err)
	}

	buf := []byte("a\n")
	if err := s.Write(ctx, "p", buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	buf[0] = 'z' // caller mutation must not leak into the store

	if err := s.Write(ctx, "p", []byte("a\nb\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read(ctx, "p")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "a\nb\n" {
		t.Fatalf("unexpected content %q", got)
	}
	if ids := s.IDs(); len(ids) != 1 || ids[0] != "p" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestMemoryStore_AlertState(t *testing.T) {
	ctx := context.Background()
	s := New()

	rec, err := s.Get(ctx, "https://a")
	if err != nil || rec != nil {
		t.Fatalf("expected nil, got %+v err=%v", rec, err)
	}

	if err := s.Set(ctx, "https://a", false, time.Time{}); err != nil {
		t.Fatalf("set: %v", err)
	}
	rec, _ = s.Get(ctx, "https://a")
	if rec == nil || rec.LastState || rec.LastSentAt != nil {
		t.Fatalf("unexpected: %+v", rec)
	}

	now := time.Now()
	_ = s.Set(ctx, "https://a", true, now)
	rec, _ = s.Get(ctx, "https://a")
	if rec == nil || !rec.LastState || rec.LastSentAt == nil || !rec.LastSentAt.Equal(now) {
		t.Fatalf("unexpected: %+v", rec)
	}
}
