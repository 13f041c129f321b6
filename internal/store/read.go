package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mahanhrgowda/time-capsule/internal/history"
)

// GetFingerprint returns the fingerprint the cached events were built from,
// or "" when the source has never been loaded.
func (s *Store) GetFingerprint(source string) (string, error) {
	row := s.db.QueryRow("SELECT fingerprint FROM Source WHERE path = ?", source)
	var fp string
	err := row.Scan(&fp)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting fingerprint for %q: %w", source, err)
	}
	return fp, nil
}

// GetEvents returns the cached canonical events for a source, in end-time
// order with insertion order breaking ties.
func (s *Store) GetEvents(source string) ([]history.Event, error) {
	rows, err := s.db.Query(`
		SELECT start_time, end_time, duration_ms, track, artist, album, platform, skipped, track_uri, media_type
		FROM Event WHERE source = ? ORDER BY end_time, id`, source)
	if err != nil {
		return nil, fmt.Errorf("querying events for %q: %w", source, err)
	}
	defer rows.Close()

	var events []history.Event
	for rows.Next() {
		var e history.Event
		var startMS, endMS int64
		var trackURI sql.NullString
		var mediaType string
		if err := rows.Scan(&startMS, &endMS, &e.DurationMS, &e.Track, &e.Artist, &e.Album,
			&e.Platform, &e.Skipped, &trackURI, &mediaType); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.StartTime = time.UnixMilli(startMS).UTC()
		e.EndTime = time.UnixMilli(endMS).UTC()
		e.TrackURI = trackURI.String
		e.MediaType = history.MediaType(mediaType)
		events = append(events, e)
	}
	return events, rows.Err()
}
