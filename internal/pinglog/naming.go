package pinglog

import "time"

const (
	partitionPrefix = "pings-"
	partitionSuffix = ".jsonl"
	dayLayout       = "2006-01-02"
)

// PartitionID names the partition holding records of t's UTC calendar day,
// e.g. pings-2025-08-18.jsonl.
func PartitionID(t time.Time) string {
	return partitionPrefix + t.UTC().Format(dayLayout) + partitionSuffix
}

// PartitionRange returns the partition ids of every UTC day from `from`
// through `to` inclusive, oldest first. Empty when from is after to.
func PartitionRange(from, to time.Time) []string {
	start := utcDay(from)
	end := utcDay(to)
	var ids []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		ids = append(ids, PartitionID(d))
	}
	return ids
}

func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
