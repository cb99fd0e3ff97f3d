// Package shard models the time-windowed partitions of the passenger
// archive. A shard label has the form "<start>_<end>" with both dates as
// YYYY-MM-DD; the window covers both endpoint days inclusively.
package shard

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Window is one shard's time window. End is exclusive: a label ending on
// 2019-02-28 yields End at midnight of 2019-03-01, so the whole end day
// belongs to the shard.
type Window struct {
	Label string
	Start time.Time
	End   time.Time
}

// Parse parses a shard label into its window.
func Parse(label string) (Window, error) {
	start, end, ok := strings.Cut(label, "_")
	if !ok {
		return Window{}, fmt.Errorf("shard label %q: missing %q separator", label, "_")
	}
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return Window{}, fmt.Errorf("shard label %q: bad start date: %w", label, err)
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return Window{}, fmt.Errorf("shard label %q: bad end date: %w", label, err)
	}
	if endDate.Before(startDate) {
		return Window{}, fmt.Errorf("shard label %q: end precedes start", label)
	}
	return Window{
		Label: label,
		Start: startDate,
		End:   endDate.AddDate(0, 0, 1),
	}, nil
}

// Overlaps reports whether the window intersects [from, to].
func (w Window) Overlaps(from, to time.Time) bool {
	return w.Start.Before(to.Add(time.Nanosecond)) && from.Before(w.End)
}

// Resolve returns the windows among labels that overlap [from, to], in
// input order. Malformed labels are collected in skipped and do not fail
// resolution.
func Resolve(labels []string, from, to time.Time) (windows []Window, skipped []string) {
	for _, label := range labels {
		w, err := Parse(label)
		if err != nil {
			skipped = append(skipped, label)
			continue
		}
		if w.Overlaps(from, to) {
			windows = append(windows, w)
		}
	}
	return windows, skipped
}
