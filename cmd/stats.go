package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mahanhrgowda/time-capsule/internal/history"
)

var statsCmd = &cobra.Command{
	Use:   "stats [from] [to]",
	Short: "Summarizes listening habits",
	Long: `Computes totals, top tracks and artists, skip rate, the longest single-day
session, platform usage, and the longest daily listening streak. Dates
restrict the summary to a range; the streak is always computed over the
full history.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(args)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Bool("yaml", false, "Emit the summary as YAML")
	viper.BindPFlag("yaml", statsCmd.Flags().Lookup("yaml"))
}

func runStats(args []string) error {
	events, err := loadEvents()
	if err != nil {
		return err
	}

	scope := events
	start, end, ranged, err := parseOptionalDateRange(args)
	if err != nil {
		return err
	}
	if ranged {
		scope, err = history.FilterByDateRange(events, start, end)
		if err != nil {
			return err
		}
	}

	s := history.Summarize(scope)
	if ranged {
		// The streak is a property of the whole history, not the window.
		s.ListeningStreak = history.Streak(events)
	}

	if viper.GetBool("yaml") {
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(s)
	}

	printStats(s)
	return nil
}

func printStats(s history.Stats) {
	fmt.Printf("Total listening time: %.1f hours across %d tracks\n", s.TotalHours, s.TotalTracks)
	fmt.Printf("Skip rate: %.2f%%\n", s.SkipRate)
	fmt.Printf("Longest session: %.1f hours on %s\n", s.LongestSession.Hours, s.LongestSession.Date)
	fmt.Printf("Listening streak: %d days\n\n", s.ListeningStreak)

	tracks := [][]string{{"Track", "Artist", "Hours"}}
	for _, t := range s.TopTracks {
		tracks = append(tracks, []string{t.Track, t.Artist, fmt.Sprintf("%.1f", t.Hours)})
	}
	fmt.Print(Analysis{results: tracks, summary: "Top tracks"})
	fmt.Println()

	artists := [][]string{{"Artist", "Hours"}}
	for _, a := range s.TopArtists {
		artists = append(artists, []string{a.Artist, fmt.Sprintf("%.1f", a.Hours)})
	}
	fmt.Print(Analysis{results: artists, summary: "Top artists"})
	fmt.Println()

	months := [][]string{{"Month", "Hours"}}
	for _, m := range s.TopMonths {
		months = append(months, []string{m.Month, fmt.Sprintf("%.1f", m.Hours)})
	}
	fmt.Print(Analysis{results: months, summary: "Top months"})
	fmt.Println()

	platforms := [][]string{{"Platform", "Plays"}}
	for _, p := range s.PlatformUsage {
		platforms = append(platforms, []string{p.Platform, strconv.Itoa(p.Plays)})
	}
	fmt.Print(Analysis{results: platforms, summary: "Platform usage"})
}
