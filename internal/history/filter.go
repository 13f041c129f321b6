package history

import (
	"fmt"
	"time"
)

// RangeError means the requested date range was inverted. An empty
// intersection with the data is not an error; this is.
type RangeError struct {
	Start time.Time
	End   time.Time
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// FilterByDateRange returns the events whose calendar date (UTC, from
// EndTime) falls within [start, end], both bounds inclusive. Order is
// preserved and the input is never modified.
func FilterByDateRange(events []Event, start, end time.Time) ([]Event, error) {
	startDate := truncateToDate(start)
	endDate := truncateToDate(end)
	if startDate.After(endDate) {
		return nil, &RangeError{Start: startDate, End: endDate}
	}

	var filtered []Event
	for _, e := range events {
		d := e.Date()
		if d.Before(startDate) || d.After(endDate) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
