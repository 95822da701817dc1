package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/pulseping/internal/domain"
	"github.com/hamed0406/pulseping/internal/probe"
	"github.com/hamed0406/pulseping/internal/stats"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List the probe records of the last --hours",
	RunE: func(cmd *cobra.Command, _ []string) error {
		body, err := get(cmd.Context(), "/api/status")
		if err != nil {
			return err
		}
		defer body.Close()

		var view domain.WindowView
		if err := json.NewDecoder(body).Decode(&view); err != nil {
			return fmt.Errorf("decode status: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d checks in the last %dh (generated %s)\n\n",
			view.TotalChecks, view.PeriodHours, view.GeneratedAt.Format(time.RFC3339))
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tURL\tSTATE\tHTTP\tMS\tERROR")
		for _, r := range view.Checks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.1f\t%s\n",
				r.Timestamp.UTC().Format(time.RFC3339), r.URL, upDown(r.IsUp), r.StatusCode, r.ResponseMS, r.Error)
		}
		return tw.Flush()
	},
}

type summaryBody struct {
	PeriodHours   int                `json:"period_hours"`
	TotalChecks   int                `json:"total_checks"`
	OverallUptime float64            `json:"overall_uptime_percent"`
	URLs          []stats.URLSummary `json:"urls"`
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Per-URL uptime and latency percentiles for the last --hours",
	RunE: func(cmd *cobra.Command, _ []string) error {
		body, err := get(cmd.Context(), "/api/status/summary")
		if err != nil {
			return err
		}
		defer body.Close()

		var s summaryBody
		if err := json.NewDecoder(body).Decode(&s); err != nil {
			return fmt.Errorf("decode summary: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "overall uptime %.1f%% over %d checks (%dh)\n\n", s.OverallUptime, s.TotalChecks, s.PeriodHours)
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "URL\tCHECKS\tUPTIME\tAVG\tP50\tP95\tP99")
		for _, u := range s.URLs {
			fmt.Fprintf(tw, "%s\t%d\t%.1f%%\t%.0f\t%.1f\t%.1f\t%.1f\n",
				u.URL, u.Total, u.UptimePercent, u.AvgLatencyMS, u.P50MS, u.P95MS, u.P99MS)
		}
		return tw.Flush()
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the last --hours of records as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		body, err := get(cmd.Context(), "/status/export.csv")
		if err != nil {
			return err
		}
		defer body.Close()

		var dst io.Writer = cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("output"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			dst = f
		}
		_, err = io.Copy(dst, body)
		return err
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe <url>",
	Short: "Probe a URL once from this machine (nothing is stored)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := strings.TrimSpace(args[0])
		if !strings.Contains(target, "://") {
			target = "https://" + target
		}
		timeout, _ := cmd.Flags().GetDuration("timeout")
		checker := probe.NewDNSDiagnostics(probe.NewHTTPChecker(timeout))
		res := checker.Check(cmd.Context(), target)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s HTTP %d in %.1f ms\n", upDown(res.Up), target, res.StatusCode, res.LatencyMS)
		if res.Error != "" {
			fmt.Fprintln(out, "reason:", res.Error)
		}
		if !res.Up {
			return fmt.Errorf("%s is down", target)
		}
		return nil
	},
}

func init() {
	probeCmd.Flags().Duration("timeout", 10*time.Second, "request timeout")
}

func upDown(up bool) string {
	if up {
		return "UP"
	}
	return "DOWN"
}
