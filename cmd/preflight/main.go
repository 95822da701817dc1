// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hamed0406/pulseping/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg, err := config.FromEnv()
	if err != nil {
		fail(err.Error())
	}

	ok(fmt.Sprintf("API_ADDR=%s", cfg.Addr))
	ok(fmt.Sprintf("monitoring %d URL(s): %s", len(cfg.URLs), strings.Join(cfg.URLs, ", ")))
	ok(fmt.Sprintf("storage %s, container %q", cfg.StorageBackend, cfg.ContainerName))

	switch cfg.StorageBackend {
	case config.BackendMemory:
		warn("PULSEPING_STORAGE_BACKEND=memory; records vanish on restart and are not shared between collector and API.")
	case config.BackendFile:
		if cfg.StorageConnection == "" {
			warn("PULSEPING_STORAGE_CONNECTION empty; file backend will use ./data.")
		}
	case config.BackendS3:
		if cfg.S3Region == "" && cfg.S3Endpoint == "" {
			warn("S3_REGION and S3_ENDPOINT empty; the default AWS config chain decides.")
		}
	case config.BackendGCS:
		if cfg.GCSProjectID == "" {
			warn("GCS_PROJECT_ID empty; the bucket must already exist.")
		}
	}
	if !cfg.PartitionLocks && !cfg.NativeAppend {
		warn("neither PULSEPING_PARTITION_LOCKS nor PULSEPING_NATIVE_APPEND set; concurrent appends may lose records.")
	}

	if len(cfg.StatusAPIKeys) == 0 {
		warn("STATUS_API_KEYS is empty; status routes are open to anyone (rate limited only).")
	}
	for _, k := range cfg.StatusAPIKeys {
		if strings.Contains(k, " ") {
			warn("STATUS_API_KEYS contains spaces; use comma-separated with no spaces, e.g. key1,key2")
			break
		}
	}

	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			warn("PULSEPING_ALLOWED_ORIGINS=*; any site can read the dashboard from a browser.")
			break
		}
	}

	if cfg.SlackWebhookURL == "" {
		warn("SLACK_WEBHOOK_URL empty; alerts go to the log only.")
	} else {
		ok("SLACK_WEBHOOK_URL present")
	}

	ok("preflight passed")
}
