package config

import (
	"testing"
	"time"
)

func TestFromEnv_ParsesAndDefaults(t *testing.T) {
	t.Setenv("API_ADDR", ":9090")
	t.Setenv("LOG_DIR", "./_testlogs")
	t.Setenv("PULSEPING_URLS", " https://a.example , ,https://b.example")
	t.Setenv("PULSEPING_STORAGE_BACKEND", "Redis")
	t.Setenv("PULSEPING_STORAGE_CONNECTION", "redis://localhost:6379/0")
	t.Setenv("PULSEPING_ALLOWED_ORIGINS", "https://dash.example,https://ops.example")
	t.Setenv("PULSEPING_PARTITION_LOCKS", "true")
	t.Setenv("PROBE_TIMEOUT", "1234ms")
	t.Setenv("RETRY_ATTEMPTS", "3")
	t.Setenv("RETRY_BACKOFF", "250ms")
	t.Setenv("MAX_CONCURRENT_CHECKS", "7")
	t.Setenv("STATUS_API_KEYS", "k1,k2")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Addr != ":9090" || cfg.LogDir != "./_testlogs" {
		t.Fatalf("addr/logdir wrong: %+v", cfg)
	}
	if len(cfg.URLs) != 2 || cfg.URLs[0] != "https://a.example" || cfg.URLs[1] != "https://b.example" {
		t.Fatalf("urls not normalized: %q", cfg.URLs)
	}
	if cfg.StorageBackend != BackendRedis {
		t.Fatalf("backend = %q", cfg.StorageBackend)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("origins wrong: %q", cfg.AllowedOrigins)
	}
	if !cfg.PartitionLocks || cfg.NativeAppend {
		t.Fatalf("append flags wrong: locks=%v native=%v", cfg.PartitionLocks, cfg.NativeAppend)
	}
	if cfg.ProbeTimeout != 1234*time.Millisecond || cfg.RetryBackoff != 250*time.Millisecond {
		t.Fatalf("durations wrong: %v %v", cfg.ProbeTimeout, cfg.RetryBackoff)
	}
	if cfg.RetryAttempts != 3 || cfg.MaxConcurrent != 7 {
		t.Fatalf("ints wrong: %+v", cfg)
	}
	if len(cfg.StatusAPIKeys) != 2 || cfg.StatusAPIKeys[1] != "k2" {
		t.Fatalf("keys wrong: %q", cfg.StatusAPIKeys)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("PULSEPING_URLS", "")
	t.Setenv("PULSEPING_ALLOWED_ORIGINS", "")
	t.Setenv("PULSEPING_STORAGE_BACKEND", "")
	t.Setenv("PULSEPING_CONTAINER_NAME", "")

	// Empty values fall back to envDefault.
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if len(cfg.URLs) != 2 || cfg.URLs[0] != "https://example.com" {
		t.Fatalf("default urls wrong: %q", cfg.URLs)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("default origins wrong: %q", cfg.AllowedOrigins)
	}
	if cfg.StorageBackend != BackendFile || cfg.ContainerName != "pulseping-logs" {
		t.Fatalf("storage defaults wrong: %+v", cfg)
	}
	if cfg.ProbeTimeout != 10*time.Second || cfg.RetryAttempts != 1 {
		t.Fatalf("probe defaults wrong: %+v", cfg)
	}
}

func TestFromEnv_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown backend":      {"PULSEPING_STORAGE_BACKEND": "azure"},
		"redis without url":    {"PULSEPING_STORAGE_BACKEND": "redis", "PULSEPING_STORAGE_CONNECTION": ""},
		"postgres without dsn": {"PULSEPING_STORAGE_BACKEND": "postgres", "PULSEPING_STORAGE_CONNECTION": ""},
		"bad duration":         {"PROBE_TIMEOUT": "soon"},
	}
	for name, envs := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range envs {
				t.Setenv(k, v)
			}
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
