package store

import (
	"fmt"
	"time"

	"github.com/mahanhrgowda/time-capsule/internal/history"
)

// ReplaceEvents atomically swaps the cached events for a source and records
// the fingerprint they were derived from. Events are stored in the order
// given; timestamps are kept as unix milliseconds so sub-second start times
// survive the round trip.
func (s *Store) ReplaceEvents(source, fingerprint string, events []history.Event) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM Event WHERE source = ?", source); err != nil {
		return fmt.Errorf("clearing events for %q: %w", source, err)
	}

	insert, err := tx.Prepare(`
		INSERT INTO Event (source, start_time, end_time, duration_ms, track, artist, album, platform, skipped, track_uri, media_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer insert.Close()

	for _, e := range events {
		_, err := insert.Exec(source, e.StartTime.UnixMilli(), e.EndTime.UnixMilli(), e.DurationMS,
			e.Track, e.Artist, e.Album, e.Platform, e.Skipped, e.TrackURI, string(e.MediaType))
		if err != nil {
			return fmt.Errorf("inserting event: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO Source (path, fingerprint, loaded_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET fingerprint = excluded.fingerprint, loaded_at = excluded.loaded_at`,
		source, fingerprint, time.Now())
	if err != nil {
		return fmt.Errorf("recording source %q: %w", source, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
