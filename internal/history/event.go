// Package history implements the queryable core over a normalized
// streaming-history log: the event model, the normalizer, the time index,
// track search, aggregation, and date-range filtering. Everything here is
// pure computation over an immutable slice of events; all I/O lives in the
// dataset and store packages.
package history

import "time"

type MediaType string

const (
	MediaAudio MediaType = "audio"
	MediaVideo MediaType = "video"
)

// Defaults applied during normalization when a source field is absent.
const (
	UnknownTrack    = "Unknown Track"
	UnknownArtist   = "Unknown Artist"
	UnknownAlbum    = "Unknown Album"
	UnknownPlatform = "Unknown"
)

// Event is one canonical play. StartTime and EndTime are always UTC, and
// StartTime = EndTime - DurationMS. DurationMS is strictly positive;
// records that would violate that are dropped by Normalize.
type Event struct {
	StartTime  time.Time
	EndTime    time.Time
	DurationMS int64
	Track      string
	Artist     string
	Album      string
	Platform   string
	Skipped    bool
	TrackURI   string
	MediaType  MediaType
}

// Date returns the calendar date of the event (midnight UTC of EndTime).
func (e Event) Date() time.Time {
	y, m, d := e.EndTime.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthKey returns the year-month of EndTime, e.g. "2023-07".
func (e Event) MonthKey() string {
	return e.EndTime.UTC().Format("2006-01")
}

// Hours returns the played duration in hours.
func (e Event) Hours() float64 {
	return float64(e.DurationMS) / 3600000.0
}
