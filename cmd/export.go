package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mahanhrgowda/time-capsule/internal/dataset"
	"github.com/mahanhrgowda/time-capsule/internal/history"
)

var exportCmd = &cobra.Command{
	Use:   "export [from] [to]",
	Short: "Exports the canonical history as CSV",
	Long: `Writes the normalized history as a flat CSV table, optionally restricted
to a date range. The output can be re-loaded as a dataset.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(args)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("out", "-", "Output file, or - for stdout")
	viper.BindPFlag("out", exportCmd.Flags().Lookup("out"))
}

func runExport(args []string) error {
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

	var w io.Writer = os.Stdout
	out := viper.GetString("out")
	if out != "-" && out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if err := dataset.WriteCSV(w, events); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	if out != "-" && out != "" {
		fmt.Printf("Exported %d events to %s\n", len(events), out)
	}
	return nil
}
