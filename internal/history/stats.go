package history

import (
	"math"
	"sort"
	"time"
)

// Stats is the aggregate summary handed to the presentation layer. It is a
// plain value: no formatting or chart shaping happens here.
type Stats struct {
	TotalHours      float64         `yaml:"total_hours"`
	TotalTracks     int             `yaml:"total_tracks"`
	SkipRate        float64         `yaml:"skip_rate"`
	TopTracks       []TrackHours    `yaml:"top_tracks"`
	TopArtists      []ArtistHours   `yaml:"top_artists"`
	TopMonths       []MonthHours    `yaml:"top_months"`
	LongestSession  DaySession      `yaml:"longest_session"`
	PlatformUsage   []PlatformCount `yaml:"platform_usage"`
	HeatmapMS       HeatmapGrid     `yaml:"heatmap_ms"`
	ListeningStreak int             `yaml:"listening_streak_days"`
}

type TrackHours struct {
	Track  string  `yaml:"track"`
	Artist string  `yaml:"artist"`
	Hours  float64 `yaml:"hours"`
	Plays  int     `yaml:"plays"`
}

type ArtistHours struct {
	Artist string  `yaml:"artist"`
	Hours  float64 `yaml:"hours"`
	Plays  int     `yaml:"plays"`
}

type MonthHours struct {
	Month string  `yaml:"month"`
	Hours float64 `yaml:"hours"`
}

type DaySession struct {
	Date  string  `yaml:"date"`
	Hours float64 `yaml:"hours"`
}

type PlatformCount struct {
	Platform string `yaml:"platform"`
	Plays    int    `yaml:"plays"`
}

// HeatmapGrid is the full day-of-week x hour-of-day grid of summed play
// milliseconds, indexed [weekday][hour] with Sunday = 0 (time.Weekday
// order). Cells with no listening are zero.
type HeatmapGrid [7][24]int64

const (
	topTracksLimit  = 10
	topArtistsLimit = 10
	topMonthsLimit  = 5
)

// Summarize computes the whole-dataset summary. It is total: empty input
// yields a zero-valued Stats, never an error. Grouping preserves first
// appearance order, so ties in the top-N lists resolve to whichever key was
// seen first.
func Summarize(events []Event) Stats {
	stats := Stats{TotalTracks: len(events)}
	if len(events) == 0 {
		return stats
	}

	type trackKey struct{ track, artist string }
	trackIdx := make(map[trackKey]int)
	artistIdx := make(map[string]int)
	monthIdx := make(map[string]int)
	platformIdx := make(map[string]int)
	dayMS := make(map[string]int64)

	skipped := 0
	var totalHours float64
	for _, e := range events {
		totalHours += e.Hours()
		if e.Skipped {
			skipped++
		}

		tk := trackKey{e.Track, e.Artist}
		if i, ok := trackIdx[tk]; ok {
			stats.TopTracks[i].Hours += e.Hours()
			stats.TopTracks[i].Plays++
		} else {
			trackIdx[tk] = len(stats.TopTracks)
			stats.TopTracks = append(stats.TopTracks, TrackHours{Track: e.Track, Artist: e.Artist, Hours: e.Hours(), Plays: 1})
		}

		if i, ok := artistIdx[e.Artist]; ok {
			stats.TopArtists[i].Hours += e.Hours()
			stats.TopArtists[i].Plays++
		} else {
			artistIdx[e.Artist] = len(stats.TopArtists)
			stats.TopArtists = append(stats.TopArtists, ArtistHours{Artist: e.Artist, Hours: e.Hours(), Plays: 1})
		}

		month := e.MonthKey()
		if i, ok := monthIdx[month]; ok {
			stats.TopMonths[i].Hours += e.Hours()
		} else {
			monthIdx[month] = len(stats.TopMonths)
			stats.TopMonths = append(stats.TopMonths, MonthHours{Month: month, Hours: e.Hours()})
		}

		if i, ok := platformIdx[e.Platform]; ok {
			stats.PlatformUsage[i].Plays++
		} else {
			platformIdx[e.Platform] = len(stats.PlatformUsage)
			stats.PlatformUsage = append(stats.PlatformUsage, PlatformCount{Platform: e.Platform, Plays: 1})
		}

		dayMS[e.Date().Format("2006-01-02")] += e.DurationMS

		end := e.EndTime.UTC()
		stats.HeatmapMS[int(end.Weekday())][end.Hour()] += e.DurationMS
	}

	stats.TotalHours = totalHours
	stats.SkipRate = math.Round(100*float64(skipped)/float64(len(events))*100) / 100

	// Stable sorts keep first-appearance order for equal hours.
	sort.SliceStable(stats.TopTracks, func(i, j int) bool {
		return stats.TopTracks[i].Hours > stats.TopTracks[j].Hours
	})
	sort.SliceStable(stats.TopArtists, func(i, j int) bool {
		return stats.TopArtists[i].Hours > stats.TopArtists[j].Hours
	})
	sort.SliceStable(stats.TopMonths, func(i, j int) bool {
		return stats.TopMonths[i].Hours > stats.TopMonths[j].Hours
	})
	sort.SliceStable(stats.PlatformUsage, func(i, j int) bool {
		return stats.PlatformUsage[i].Plays > stats.PlatformUsage[j].Plays
	})
	stats.TopTracks = truncateTracks(stats.TopTracks, topTracksLimit)
	stats.TopArtists = truncateArtists(stats.TopArtists, topArtistsLimit)
	stats.TopMonths = truncateMonths(stats.TopMonths, topMonthsLimit)

	stats.LongestSession = longestSession(dayMS)
	stats.ListeningStreak = Streak(events)

	return stats
}

// longestSession picks the calendar date with the most played time,
// breaking ties toward the earliest date.
func longestSession(dayMS map[string]int64) DaySession {
	var best DaySession
	var bestMS int64 = -1
	for date, ms := range dayMS {
		if ms > bestMS || (ms == bestMS && date < best.Date) {
			best = DaySession{Date: date, Hours: float64(ms) / 3600000.0}
			bestMS = ms
		}
	}
	return best
}

// Streak returns the longest run of consecutive calendar dates (UTC) each
// containing at least one play. Callers that range-filter their events
// should still pass the full history here: a date filter silently shortens
// streaks, which is never what "longest streak" means to the user.
func Streak(events []Event) int {
	if len(events) == 0 {
		return 0
	}

	seen := make(map[time.Time]bool)
	for _, e := range events {
		seen[e.Date()] = true
	}
	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func truncateTracks(s []TrackHours, n int) []TrackHours {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func truncateArtists(s []ArtistHours, n int) []ArtistHours {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func truncateMonths(s []MonthHours, n int) []MonthHours {
	if len(s) > n {
		return s[:n]
	}
	return s
}
