package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mahanhrgowda/time-capsule/internal/history"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap [from] [to]",
	Short: "Shows listening minutes by weekday and hour",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHeatmap(args)
	},
}

func init() {
	rootCmd.AddCommand(heatmapCmd)
}

func runHeatmap(args []string) error {
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

	s := history.Summarize(events)

	header := []string{"Day"}
	for hour := 0; hour < 24; hour++ {
		header = append(header, fmt.Sprintf("%02d", hour))
	}
	results := [][]string{header}
	for day := 0; day < 7; day++ {
		row := []string{time.Weekday(day).String()[:3]}
		for hour := 0; hour < 24; hour++ {
			row = append(row, strconv.FormatInt(s.HeatmapMS[day][hour]/60000, 10))
		}
		results = append(results, row)
	}

	fmt.Print(Analysis{results: results, summary: "Minutes listened per weekday and hour (UTC)"})
	return nil
}
