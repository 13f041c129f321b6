package history

import "time"

type LookupKind int

const (
	// LookupNone means the event set was empty.
	LookupNone LookupKind = iota
	// LookupExact means the target instant falls inside an event's
	// start/end interval.
	LookupExact
	// LookupNearest means nothing contained the target; Event is the play
	// closest to it.
	LookupNearest
)

// Lookup is the result of a time-capsule query.
type Lookup struct {
	Kind  LookupKind
	Event Event
}

// At finds what was playing at target, which must be a UTC instant; any
// timezone localization is the caller's job. An event matches when
// StartTime <= target <= EndTime. The source data is assumed
// non-overlapping; if that assumption is violated the earliest-starting
// match wins.
//
// With no exact match, the event minimizing |StartTime - target| is
// returned, again breaking ties toward the earliest start.
//
// A linear scan is fine at tens of thousands of events.
func At(events []Event, target time.Time) Lookup {
	if len(events) == 0 {
		return Lookup{Kind: LookupNone}
	}

	var exact *Event
	for i := range events {
		e := &events[i]
		if !target.Before(e.StartTime) && !target.After(e.EndTime) {
			if exact == nil || e.StartTime.Before(exact.StartTime) {
				exact = e
			}
		}
	}
	if exact != nil {
		return Lookup{Kind: LookupExact, Event: *exact}
	}

	nearest := &events[0]
	best := absDuration(events[0].StartTime.Sub(target))
	for i := 1; i < len(events); i++ {
		e := &events[i]
		d := absDuration(e.StartTime.Sub(target))
		if d < best || (d == best && e.StartTime.Before(nearest.StartTime)) {
			nearest = e
			best = d
		}
	}
	return Lookup{Kind: LookupNearest, Event: *nearest}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
