package history

import (
	"fmt"
	"strings"
	"time"
)

// RawRecord is the union of the two log shapes we ingest. The full Spotify
// export ("extended streaming history") carries ts/platform/skipped and the
// master_metadata_* fields; the reduced recently-played feed carries only
// played_at plus track/artist names and ms_played. Pointers distinguish
// "absent" from zero values.
type RawRecord struct {
	// Shape A: full export.
	TS         string  `json:"ts,omitempty"`
	Platform   *string `json:"platform,omitempty"`
	TrackName  *string `json:"master_metadata_track_name,omitempty"`
	ArtistName *string `json:"master_metadata_album_artist_name,omitempty"`
	AlbumName  *string `json:"master_metadata_album_album_name,omitempty"`
	TrackURI   *string `json:"spotify_track_uri,omitempty"`
	Episode    *string `json:"episode_name,omitempty"`
	Show       *string `json:"episode_show_name,omitempty"`
	Skipped    *bool   `json:"skipped,omitempty"`

	// Shape B: reduced recently-played feed.
	PlayedAt    string  `json:"played_at,omitempty"`
	FeedTrack   *string `json:"track_name,omitempty"`
	FeedArtist  *string `json:"artist_name,omitempty"`

	// Shared.
	MSPlayed *int64 `json:"ms_played,omitempty"`
}

type recordShape int

const (
	shapeUnknown recordShape = iota
	shapeFull
	shapeReduced
)

// detectShape tags a record by which timestamp field it carries. Records
// carrying both are treated as full exports.
func detectShape(r RawRecord) recordShape {
	switch {
	case r.TS != "":
		return shapeFull
	case r.PlayedAt != "":
		return shapeReduced
	default:
		return shapeUnknown
	}
}

// SchemaError means the source is structurally unusable: no record carried
// a timestamp field from any supported shape. Per-record problems are
// dropped and counted instead; this is reserved for "the whole load is the
// wrong kind of file".
type SchemaError struct {
	Records int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("no timestamp field found in any of %d records: unrecognized source schema", e.Records)
}

// DropStats counts the records Normalize discarded. Drops are expected in
// real exports and never fail the load.
type DropStats struct {
	BadTimestamp        int
	NonPositiveDuration int
}

func (d DropStats) Total() int {
	return d.BadTimestamp + d.NonPositiveDuration
}

// Normalize converts raw log records into canonical events, preserving
// input order. Records with unparseable timestamps or non-positive
// durations are dropped and counted. Mixed shapes within one load are fine;
// the only fatal condition is a source where every record lacks a timestamp
// field entirely.
func Normalize(records []RawRecord) ([]Event, DropStats, error) {
	var drops DropStats
	events := make([]Event, 0, len(records))

	shaped := 0
	for _, r := range records {
		shape := detectShape(r)
		if shape == shapeUnknown {
			continue
		}
		shaped++

		ev, ok := mapRecord(r, shape, &drops)
		if ok {
			events = append(events, ev)
		}
	}

	if shaped == 0 && len(records) > 0 {
		return nil, drops, &SchemaError{Records: len(records)}
	}
	return events, drops, nil
}

func mapRecord(r RawRecord, shape recordShape, drops *DropStats) (Event, bool) {
	var raw string
	if shape == shapeFull {
		raw = r.TS
	} else {
		raw = r.PlayedAt
	}
	end, err := parseTimestamp(raw)
	if err != nil {
		drops.BadTimestamp++
		return Event{}, false
	}

	var ms int64
	if r.MSPlayed != nil {
		ms = *r.MSPlayed
	}
	if ms <= 0 {
		drops.NonPositiveDuration++
		return Event{}, false
	}

	ev := Event{
		EndTime:    end,
		StartTime:  end.Add(-time.Duration(ms) * time.Millisecond),
		DurationMS: ms,
		Track:      UnknownTrack,
		Artist:     UnknownArtist,
		Album:      UnknownAlbum,
		Platform:   UnknownPlatform,
		MediaType:  MediaAudio,
	}

	switch shape {
	case shapeFull:
		// A full-export record with episode metadata instead of track
		// metadata is a podcast/video play.
		if r.TrackName == nil && r.Episode != nil {
			ev.MediaType = MediaVideo
			ev.Track = stringOr(r.Episode, UnknownTrack)
			ev.Artist = stringOr(r.Show, UnknownArtist)
			ev.Album = stringOr(r.Show, UnknownAlbum)
		} else {
			ev.Track = stringOr(r.TrackName, UnknownTrack)
			ev.Artist = stringOr(r.ArtistName, UnknownArtist)
			ev.Album = stringOr(r.AlbumName, UnknownAlbum)
		}
		ev.Platform = cleanPlatform(r.Platform)
		if r.Skipped != nil {
			ev.Skipped = *r.Skipped
		}
		if r.TrackURI != nil {
			ev.TrackURI = *r.TrackURI
		}

	case shapeReduced:
		ev.Track = stringOr(r.FeedTrack, UnknownTrack)
		ev.Artist = stringOr(r.FeedArtist, UnknownArtist)
	}

	return ev, true
}

// parseTimestamp accepts the formats seen across export versions. Always
// returns UTC.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing timestamp %q", s)
}

// cleanPlatform keeps the first whitespace-delimited token, so
// "Android OS 12" becomes "Android".
func cleanPlatform(p *string) string {
	if p == nil {
		return UnknownPlatform
	}
	fields := strings.Fields(*p)
	if len(fields) == 0 {
		return UnknownPlatform
	}
	return fields[0]
}

func stringOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
