package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mahanhrgowda/time-capsule/internal/history"
)

// csvHeader is the canonical column set, in canonical order. Exports and
// re-imports both use it, which is what makes the round trip hold.
var csvHeader = []string{
	"start_time", "end_time", "duration_ms", "track", "artist", "album",
	"platform", "skipped", "track_uri", "media_type",
}

// WriteCSV writes events as a flat canonical table, in event order.
func WriteCSV(w io.Writer, events []history.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range events {
		row := []string{
			e.StartTime.UTC().Format(time.RFC3339),
			e.EndTime.UTC().Format(time.RFC3339),
			strconv.FormatInt(e.DurationMS, 10),
			e.Track,
			e.Artist,
			e.Album,
			e.Platform,
			strconv.FormatBool(e.Skipped),
			e.TrackURI,
			string(e.MediaType),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// readCSV turns a previously exported canonical table back into raw
// records, so an exported file can be reloaded like any other source.
func readCSV(r io.Reader) ([]history.RawRecord, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	if _, ok := col["end_time"]; !ok {
		return nil, fmt.Errorf("not a canonical export: missing end_time column")
	}

	var records []history.RawRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		rec := history.RawRecord{TS: field(row, col, "end_time")}
		if ms, err := strconv.ParseInt(field(row, col, "duration_ms"), 10, 64); err == nil {
			rec.MSPlayed = &ms
		}
		if field(row, col, "media_type") == string(history.MediaVideo) {
			// Leave the track fields nil so the normalizer re-detects the
			// record as an episode play.
			if v := field(row, col, "track"); v != "" {
				rec.Episode = &v
			}
			if v := field(row, col, "artist"); v != "" {
				rec.Show = &v
			}
		} else {
			if v := field(row, col, "track"); v != "" {
				rec.TrackName = &v
			}
			if v := field(row, col, "artist"); v != "" {
				rec.ArtistName = &v
			}
			if v := field(row, col, "album"); v != "" {
				rec.AlbumName = &v
			}
		}
		if v := field(row, col, "platform"); v != "" {
			rec.Platform = &v
		}
		if v := field(row, col, "track_uri"); v != "" {
			rec.TrackURI = &v
		}
		skipped := field(row, col, "skipped") == "true"
		rec.Skipped = &skipped

		records = append(records, rec)
	}
	return records, nil
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
