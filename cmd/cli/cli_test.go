package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--api", srv.URL, "--api-key", "k1"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestStatusCommand_PrintsTable(t *testing.T) {
	var gotAuth, gotHours string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotHours = r.URL.Query().Get("hours")
		assert.Equal(t, "/api/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"generated_at":"2025-08-18T12:00:00Z","period_hours":6,"total_checks":1,
			"checks":[{"timestamp":"2025-08-18T11:00:00Z","url":"https://a.example","status_code":503,"is_up":false,"response_ms":12.5}]}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "status", "--hours", "6")
	require.NoError(t, err)
	assert.Equal(t, "Bearer k1", gotAuth)
	assert.Equal(t, "6", gotHours)
	assert.Contains(t, out, "1 checks in the last 6h")
	assert.Contains(t, out, "https://a.example")
	assert.Contains(t, out, "DOWN")
}

func TestSummaryCommand_PrintsPercentiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/status/summary", r.URL.Path)
		_, _ = w.Write([]byte(`{"period_hours":24,"total_checks":4,"overall_uptime_percent":75,
			"urls":[{"url":"https://a.example","total":4,"up":3,"uptime_percent":75,"avg_latency_ms":20,"p50_ms":18,"p95_ms":40,"p99_ms":41}]}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "summary", "--hours", "24")
	require.NoError(t, err)
	assert.Contains(t, out, "overall uptime 75.0%")
	assert.Contains(t, out, "75.0%")
}

func TestCommand_SurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
	}))
	defer srv.Close()

	_, err := runCLI(t, srv, "export", "--hours", "1")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "401"), err.Error())
}
