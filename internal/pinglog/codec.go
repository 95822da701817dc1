package pinglog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hamed0406/pulseping/internal/domain"
)

// Decoded is the outcome of decoding one partition line: either a Record or
// Skipped with a Reason. A skipped line is never an error for the caller.
type Decoded struct {
	Record  domain.ProbeRecord
	Skipped bool
	Reason  string
}

// offset-less timestamps written by older collectors are read as UTC
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

type wireRecord struct {
	Timestamp  *string  `json:"timestamp"`
	URL        string   `json:"url"`
	StatusCode int      `json:"status_code"`
	IsUp       bool     `json:"is_up"`
	ResponseMS *float64 `json:"response_ms"`
	Error      string   `json:"error,omitempty"`
}

// EncodeLine serializes rec to one newline-terminated JSON line.
func EncodeLine(rec domain.ProbeRecord) ([]byte, error) {
	if rec.Timestamp.IsZero() {
		return nil, fmt.Errorf("encode record for %q: missing timestamp", rec.URL)
	}
	rec.Timestamp = rec.Timestamp.UTC()
	rec.ResponseMS = domain.RoundMS(rec.ResponseMS)
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return append(b, '\n'), nil
}

// DecodeLine parses one line. Lines that are blank, not JSON, or lack a valid
// timestamp come back Skipped; unknown fields are ignored.
func DecodeLine(line []byte) Decoded {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Decoded{Skipped: true, Reason: "blank line"}
	}
	var w wireRecord
	if err := json.Unmarshal(line, &w); err != nil {
		return Decoded{Skipped: true, Reason: "invalid json"}
	}
	if w.Timestamp == nil || *w.Timestamp == "" {
		return Decoded{Skipped: true, Reason: "missing timestamp"}
	}
	ts, err := parseTimestamp(*w.Timestamp)
	if err != nil {
		return Decoded{Skipped: true, Reason: "invalid timestamp"}
	}
	rec := domain.ProbeRecord{
		Timestamp:  ts,
		URL:        w.URL,
		StatusCode: w.StatusCode,
		IsUp:       w.IsUp,
		Error:      w.Error,
	}
	if w.ResponseMS != nil {
		rec.ResponseMS = *w.ResponseMS
	}
	return Decoded{Record: rec}
}

// DecodePartition splits content into lines and decodes each, returning the
// records in line order and the number of skipped non-blank lines.
func DecodePartition(content []byte) (recs []domain.ProbeRecord, skipped int) {
	for _, line := range bytes.Split(content, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		d := DecodeLine(line)
		if d.Skipped {
			skipped++
			continue
		}
		recs = append(recs, d.Record)
	}
	return recs, skipped
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
