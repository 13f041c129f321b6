package history

import (
	"testing"
	"time"
)

// testEvent builds a canonical event ending at the given RFC3339 instant.
func testEvent(t *testing.T, end string, ms int64, track, artist string) Event {
	t.Helper()
	endTime, err := time.Parse(time.RFC3339, end)
	if err != nil {
		t.Fatalf("parsing fixture time %q: %v", end, err)
	}
	endTime = endTime.UTC()
	return Event{
		StartTime:  endTime.Add(-time.Duration(ms) * time.Millisecond),
		EndTime:    endTime,
		DurationMS: ms,
		Track:      track,
		Artist:     artist,
		Album:      UnknownAlbum,
		Platform:   UnknownPlatform,
		MediaType:  MediaAudio,
	}
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func boolPtr(b bool) *bool { return &b }
