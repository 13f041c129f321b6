package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mahanhrgowda/time-capsule/internal/history"
)

var playsCmd = &cobra.Command{
	Use:   "plays [from] [to]",
	Short: "Finds every play matching a track and/or artist search",
	Long: `Searches the history for plays whose track and artist names contain the
given substrings, case-insensitively. Dates restrict the search to a range;
dates may be specified like '2021', '2021-07', or '2021-07-09'.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlays(args)
	},
}

func init() {
	rootCmd.AddCommand(playsCmd)

	playsCmd.Flags().String("track", "", "Substring of the track name")
	viper.BindPFlag("track", playsCmd.Flags().Lookup("track"))

	playsCmd.Flags().String("artist", "", "Substring of the artist name")
	viper.BindPFlag("artist", playsCmd.Flags().Lookup("artist"))
}

func runPlays(args []string) error {
	loc, err := userLocation()
	if err != nil {
		return err
	}

	events, err := loadEvents()
	if err != nil {
		return err
	}

	start, end, ranged, err := parseOptionalDateRange(args)
	if err != nil {
		return err
	}
	if ranged {
		events, err = history.FilterByDateRange(events, start, end)
		if err != nil {
			return err
		}
	}

	matches := history.Search(events, viper.GetString("track"), viper.GetString("artist"))
	if len(matches) == 0 {
		fmt.Println("No listens found for that search.")
		return nil
	}

	results := [][]string{{"Played At", "Track", "Artist", "Minutes", "Platform", "Skipped"}}
	var totalMS int64
	platforms := make(map[string]int)
	for _, e := range matches {
		totalMS += e.DurationMS
		platforms[e.Platform]++
		results = append(results, []string{
			e.EndTime.In(loc).Format("2006-01-02 15:04"),
			e.Track,
			e.Artist,
			fmt.Sprintf("%.1f", float64(e.DurationMS)/60000.0),
			e.Platform,
			strconv.FormatBool(e.Skipped),
		})
	}

	analysis := Analysis{
		results: results,
		summary: fmt.Sprintf("%d plays, %.1f hours, mostly on %s",
			len(matches), float64(totalMS)/3600000.0, topPlatform(platforms)),
	}
	fmt.Print(analysis)
	return nil
}

func topPlatform(counts map[string]int) string {
	best := ""
	for platform, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && platform < best) {
			best = platform
		}
	}
	return best
}
