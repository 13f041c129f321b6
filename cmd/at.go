package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mahanhrgowda/time-capsule/internal/history"
)

var atCmd = &cobra.Command{
	Use:   "at <yyyy-mm-dd> <hh:mm[:ss]>",
	Short: "Shows what was playing at a moment in time",
	Long: `Looks up the listen whose play interval contains the given moment.
If nothing was playing right then, shows the nearest listen instead.
The moment is interpreted in the configured timezone.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAt(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(atCmd)
}

func runAt(dateArg, timeArg string) error {
	loc, err := userLocation()
	if err != nil {
		return err
	}

	target, err := parseMoment(dateArg, timeArg, loc)
	if err != nil {
		return err
	}

	events, err := loadEvents()
	if err != nil {
		return err
	}

	lookup := history.At(events, target.UTC())
	switch lookup.Kind {
	case history.LookupNone:
		fmt.Println("No listening history loaded.")
		return nil

	case history.LookupExact:
		fmt.Printf("At %s you were listening to:\n\n", target.Format("Mon, 02 Jan 2006 15:04"))

	case history.LookupNearest:
		fmt.Printf("Nothing was playing at %s. The nearest listen:\n\n",
			target.Format("Mon, 02 Jan 2006 15:04"))
	}

	printEvent(lookup.Event, loc)
	return nil
}

func parseMoment(dateArg, timeArg string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, dateArg+" "+timeArg, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("Invalid moment %q %q: expected yyyy-mm-dd hh:mm[:ss]", dateArg, timeArg)
}

func printEvent(e history.Event, loc *time.Location) {
	fmt.Printf("  %s\n", e.Track)
	fmt.Printf("  by %s\n", e.Artist)
	if e.Album != history.UnknownAlbum {
		fmt.Printf("  from %s\n", e.Album)
	}
	fmt.Printf("  played %s, for %.1f minutes on %s\n",
		e.EndTime.In(loc).Format("Mon, 02 Jan 2006 15:04"),
		float64(e.DurationMS)/60000.0, e.Platform)
	if link := spotifyLink(e.TrackURI); link != "" {
		fmt.Printf("  %s\n", link)
	}
}

// spotifyLink turns a spotify:track:<id> URI into an open.spotify.com URL.
func spotifyLink(uri string) string {
	if uri == "" {
		return ""
	}
	parts := strings.Split(uri, ":")
	return "https://open.spotify.com/track/" + parts[len(parts)-1]
}
