package history

import (
	"math"
	"testing"
)

func TestSummarizeTotals(t *testing.T) {
	events := []Event{
		testEvent(t, "2023-07-09T10:00:00Z", 600000, "A", "X"),
		testEvent(t, "2023-07-09T11:00:00Z", 1200000, "B", "Y"),
		testEvent(t, "2023-07-09T12:00:00Z", 1800000, "C", "Z"),
	}
	events[0].Skipped = true

	stats := Summarize(events)

	// (600000 + 1200000 + 1800000) / 3600000 = 1.0 exactly.
	if stats.TotalHours != 1.0 {
		t.Errorf("Expected total hours 1.0, got %v", stats.TotalHours)
	}
	if stats.TotalTracks != 3 {
		t.Errorf("Expected 3 tracks, got %d", stats.TotalTracks)
	}
	if math.Abs(stats.SkipRate-33.33) > 0.01 {
		t.Errorf("Expected skip rate 33.33, got %v", stats.SkipRate)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)
	if stats.TotalTracks != 0 || stats.TotalHours != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
	if stats.SkipRate != 0 {
		t.Errorf("Skip rate over zero tracks must be 0, got %v", stats.SkipRate)
	}
	if stats.ListeningStreak != 0 {
		t.Errorf("Expected zero streak, got %d", stats.ListeningStreak)
	}
}

func TestSummarizeTopTracksGroupedByTrackAndArtist(t *testing.T) {
	// Same title by two artists must be two separate entries.
	events := []Event{
		testEvent(t, "2023-07-09T10:00:00Z", 3600000, "Stay", "Rihanna"),
		testEvent(t, "2023-07-09T11:00:00Z", 1800000, "Stay", "The Kid LAROI"),
		testEvent(t, "2023-07-09T12:00:00Z", 1800000, "Stay", "Rihanna"),
	}

	stats := Summarize(events)
	if len(stats.TopTracks) != 2 {
		t.Fatalf("Expected 2 track groups, got %d", len(stats.TopTracks))
	}
	top := stats.TopTracks[0]
	if top.Track != "Stay" || top.Artist != "Rihanna" {
		t.Errorf("Expected Stay/Rihanna on top, got %s/%s", top.Track, top.Artist)
	}
	if top.Hours != 1.5 || top.Plays != 2 {
		t.Errorf("Expected 1.5 hours over 2 plays, got %v over %d", top.Hours, top.Plays)
	}
}

func TestSummarizeTieBreakByFirstAppearance(t *testing.T) {
	events := []Event{
		testEvent(t, "2023-07-09T10:00:00Z", 600000, "First Seen", "X"),
		testEvent(t, "2023-07-09T11:00:00Z", 600000, "Second Seen", "Y"),
	}

	stats := Summarize(events)
	if stats.TopTracks[0].Track != "First Seen" {
		t.Errorf("Equal hours should keep first-appearance order, got %q first", stats.TopTracks[0].Track)
	}
}

func TestSummarizePlatformUsage(t *testing.T) {
	events := []Event{
		testEvent(t, "2023-07-09T10:00:00Z", 60000, "A", "X"),
		testEvent(t, "2023-07-09T11:00:00Z", 60000, "B", "X"),
		testEvent(t, "2023-07-09T12:00:00Z", 60000, "C", "X"),
	}
	events[0].Platform = "Android"
	events[1].Platform = "Android"
	events[2].Platform = "Windows"

	stats := Summarize(events)
	if len(stats.PlatformUsage) != 2 {
		t.Fatalf("Expected 2 platforms, got %d", len(stats.PlatformUsage))
	}
	if stats.PlatformUsage[0].Platform != "Android" || stats.PlatformUsage[0].Plays != 2 {
		t.Errorf("Expected Android x2 first, got %+v", stats.PlatformUsage[0])
	}
}

func TestSummarizeLongestSession(t *testing.T) {
	events := []Event{
		testEvent(t, "2023-07-09T10:00:00Z", 3600000, "A", "X"),
		testEvent(t, "2023-07-10T10:00:00Z", 1800000, "B", "X"),
		testEvent(t, "2023-07-10T12:00:00Z", 1800000, "C", "X"),
		testEvent(t, "2023-07-11T10:00:00Z", 3600000, "D", "X"),
	}

	stats := Summarize(events)
	// 07-09 and 07-11 each have 1h; 07-10 has 1h too. All tied at
	// 3600000ms, so the earliest date wins.
	if stats.LongestSession.Date != "2023-07-09" {
		t.Errorf("Expected earliest tied date 2023-07-09, got %s", stats.LongestSession.Date)
	}

	// Break the tie.
	events = append(events, testEvent(t, "2023-07-10T14:00:00Z", 3600000, "E", "X"))
	stats = Summarize(events)
	if stats.LongestSession.Date != "2023-07-10" {
		t.Errorf("Expected 2023-07-10, got %s", stats.LongestSession.Date)
	}
	if stats.LongestSession.Hours != 2.0 {
		t.Errorf("Expected 2 hours, got %v", stats.LongestSession.Hours)
	}
}

func TestSummarizeHeatmap(t *testing.T) {
	// 2023-07-09 is a Sunday.
	events := []Event{
		testEvent(t, "2023-07-09T10:15:00Z", 60000, "A", "X"),
		testEvent(t, "2023-07-09T10:45:00Z", 120000, "B", "X"),
		testEvent(t, "2023-07-10T23:05:00Z", 60000, "C", "X"),
	}

	stats := Summarize(events)
	if got := stats.HeatmapMS[0][10]; got != 180000 {
		t.Errorf("Expected Sunday 10h cell = 180000, got %d", got)
	}
	if got := stats.HeatmapMS[1][23]; got != 60000 {
		t.Errorf("Expected Monday 23h cell = 60000, got %d", got)
	}
	if got := stats.HeatmapMS[3][5]; got != 0 {
		t.Errorf("Expected empty cell to be zero, got %d", got)
	}
}

func TestStreak(t *testing.T) {
	// Day numbers 1, 2, 3, 5, 6: longest run is 3.
	events := []Event{
		testEvent(t, "2023-07-01T10:00:00Z", 60000, "A", "X"),
		testEvent(t, "2023-07-02T10:00:00Z", 60000, "B", "X"),
		testEvent(t, "2023-07-03T10:00:00Z", 60000, "C", "X"),
		testEvent(t, "2023-07-05T10:00:00Z", 60000, "D", "X"),
		testEvent(t, "2023-07-06T10:00:00Z", 60000, "E", "X"),
	}

	if got := Streak(events); got != 3 {
		t.Errorf("Expected streak 3, got %d", got)
	}
}

func TestStreakMultiplePlaysPerDay(t *testing.T) {
	events := []Event{
		testEvent(t, "2023-07-01T10:00:00Z", 60000, "A", "X"),
		testEvent(t, "2023-07-01T18:00:00Z", 60000, "B", "X"),
		testEvent(t, "2023-07-02T10:00:00Z", 60000, "C", "X"),
	}

	if got := Streak(events); got != 2 {
		t.Errorf("Expected streak 2, got %d", got)
	}
}

func TestSummarizeTopMonths(t *testing.T) {
	events := []Event{
		testEvent(t, "2023-06-15T10:00:00Z", 3600000, "A", "X"),
		testEvent(t, "2023-07-15T10:00:00Z", 1800000, "B", "X"),
		testEvent(t, "2023-07-20T10:00:00Z", 1800000, "C", "X"),
		testEvent(t, "2023-08-01T10:00:00Z", 600000, "D", "X"),
	}

	stats := Summarize(events)
	if len(stats.TopMonths) != 3 {
		t.Fatalf("Expected 3 months, got %d", len(stats.TopMonths))
	}
	// June and July tied at 1h; June appeared first.
	if stats.TopMonths[0].Month != "2023-06" {
		t.Errorf("Expected 2023-06 first, got %s", stats.TopMonths[0].Month)
	}
	if stats.TopMonths[2].Month != "2023-08" {
		t.Errorf("Expected 2023-08 last, got %s", stats.TopMonths[2].Month)
	}
}

func TestSummarizeTopNLimits(t *testing.T) {
	var events []Event
	for i := 0; i < 15; i++ {
		end := testEvent(t, "2023-07-09T10:00:00Z", int64(60000*(i+1)), "T", "A")
		end.Track = string(rune('A' + i))
		end.Artist = string(rune('a' + i))
		events = append(events, end)
	}

	stats := Summarize(events)
	if len(stats.TopTracks) != 10 {
		t.Errorf("Expected top tracks capped at 10, got %d", len(stats.TopTracks))
	}
	if len(stats.TopArtists) != 10 {
		t.Errorf("Expected top artists capped at 10, got %d", len(stats.TopArtists))
	}
}
