package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	apiBase string
	apiKey  string
	hours   int
)

var rootCmd = &cobra.Command{
	Use:          "pulseping",
	Short:        "Query a PulsePing API or probe a URL locally",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	base := os.Getenv("API_BASE")
	if base == "" {
		base = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", base, "API base URL (env API_BASE)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("PULSEPING_API_KEY"), "API key for protected status routes (env PULSEPING_API_KEY)")

	for _, c := range []*cobra.Command{statusCmd, summaryCmd, exportCmd} {
		c.Flags().IntVar(&hours, "hours", 24, "window size in hours (1-48)")
		rootCmd.AddCommand(c)
	}
	exportCmd.Flags().StringP("output", "o", "", "write CSV to this file instead of stdout")
	rootCmd.AddCommand(probeCmd)
}

// get fetches route?hours=N from the API and returns the open body.
// The caller closes it.
func get(ctx context.Context, route string) (io.ReadCloser, error) {
	u, err := url.Parse(strings.TrimRight(apiBase, "/") + route)
	if err != nil {
		return nil, fmt.Errorf("bad --api: %w", err)
	}
	q := u.Query()
	q.Set("hours", strconv.Itoa(hours))
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		cancel()
		return nil, err
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("contacting API: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("API returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return &cancelBody{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}
