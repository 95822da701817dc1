package stats

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/hamed0406/pulseping/internal/domain"
)

var csvHeader = []string{"timestamp", "url", "status_code", "is_up", "response_ms"}

// WriteCSV exports records in the dashboard's download format.
func WriteCSV(w io.Writer, recs []domain.ProbeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range recs {
		row := []string{
			r.Timestamp.UTC().Format(time.RFC3339Nano),
			r.URL,
			strconv.Itoa(r.StatusCode),
			strconv.FormatBool(r.IsUp),
			strconv.FormatFloat(r.ResponseMS, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
