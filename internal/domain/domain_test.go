package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestProbeRecord_JSONShape(t *testing.T) {
	rec := ProbeRecord{
		Timestamp:  time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC),
		URL:        "https://example.com",
		StatusCode: 200,
		IsUp:       true,
		ResponseMS: 123.4,
	}
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, key := range []string{`"timestamp"`, `"url"`, `"status_code"`, `"is_up"`, `"response_ms"`} {
		if !strings.Contains(s, key) {
			t.Fatalf("missing %s in %s", key, s)
		}
	}
	if strings.Contains(s, `"error"`) {
		t.Fatalf("error must be omitted when empty: %s", s)
	}
}

func TestIsUpStatus(t *testing.T) {
	cases := []struct {
		code int
		want bool
	}{
		{0, false},
		{199, false},
		{200, true},
		{301, true},
		{399, true},
		{400, false},
		{503, false},
	}
	for _, c := range cases {
		if got := IsUpStatus(c.code); got != c.want {
			t.Fatalf("IsUpStatus(%d)=%v want %v", c.code, got, c.want)
		}
	}
}

func TestRoundMS(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{12.34, 12.3},
		{12.36, 12.4},
		{0.04, 0},
		{-3, 0},
		{999.96, 1000},
	}
	for _, c := range cases {
		if got := RoundMS(c.in); got != c.want {
			t.Fatalf("RoundMS(%v)=%v want %v", c.in, got, c.want)
		}
	}
}
