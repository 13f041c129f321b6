package cmd

import (
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mahanhrgowda/time-capsule/internal/history"
)

var emailCmd = &cobra.Command{
	Use:   "email <address> [from] [to]",
	Short: "Emails a listening report",
	Long: `Builds a listening summary for the given date range and emails it via
SendGrid. If no dates are provided, defaults to the previous month.`,
	Args: cobra.RangeArgs(1, 3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEmail(args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))
}

func runEmail(toAddress string, dateArgs []string) error {
	start, end, ranged, err := parseOptionalDateRange(dateArgs)
	if err != nil {
		return err
	}
	if !ranged {
		// Default to last month.
		now := time.Now().UTC()
		start = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	}

	events, err := loadEvents()
	if err != nil {
		return err
	}
	scoped, err := history.FilterByDateRange(events, start, end)
	if err != nil {
		return err
	}

	s := history.Summarize(scoped)
	s.ListeningStreak = history.Streak(events)

	subject := fmt.Sprintf("Listening report %s to %s",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	body := generateEmailContent(s)

	if viper.GetBool("dryRun") {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, body)
		return nil
	}

	from := mail.NewEmail("time-capsule", viper.GetString("from"))
	to := mail.NewEmail(toAddress, toAddress)
	plainText := fmt.Sprintf("%.1f hours across %d tracks", s.TotalHours, s.TotalTracks)
	message := mail.NewSingleEmail(from, subject, to, plainText, body)
	client := sendgrid.NewSendClient(viper.GetString("sendgrid_api_key"))
	if _, err := client.Send(message); err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}

	fmt.Printf("Sent report to %s\n", toAddress)
	return nil
}

func generateEmailContent(s history.Stats) string {
	out := `
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`
	out += "<h2>Listening summary</h2>\n"
	out += fmt.Sprintf("<div>%.1f hours across %d tracks, %.2f%% skipped</div>\n", s.TotalHours, s.TotalTracks, s.SkipRate)
	out += fmt.Sprintf("<div>Longest session: %.1f hours on %s</div>\n", s.LongestSession.Hours, s.LongestSession.Date)
	out += fmt.Sprintf("<div>Listening streak: %d days</div>\n", s.ListeningStreak)

	out += htmlTable("Top tracks", [][]string{{"Track", "Artist", "Hours"}}, func(rows [][]string) [][]string {
		for _, t := range s.TopTracks {
			rows = append(rows, []string{t.Track, t.Artist, fmt.Sprintf("%.1f", t.Hours)})
		}
		return rows
	})
	out += htmlTable("Top artists", [][]string{{"Artist", "Hours"}}, func(rows [][]string) [][]string {
		for _, a := range s.TopArtists {
			rows = append(rows, []string{a.Artist, fmt.Sprintf("%.1f", a.Hours)})
		}
		return rows
	})

	out += `
  </body>
</html>
`
	return out
}

func htmlTable(title string, rows [][]string, fill func([][]string) [][]string) string {
	rows = fill(rows)
	if len(rows) <= 1 {
		return fmt.Sprintf("<h3>%s</h3>\n<div>No listens found.</div>\n", title)
	}

	out := fmt.Sprintf("<h3>%s</h3>\n<table>\n<thead>\n<tr>\n", title)
	for _, header := range rows[0] {
		out += fmt.Sprintf("<th>%s</th>", header)
	}
	out += "</tr>\n</thead>\n<tbody>\n"
	for _, row := range rows[1:] {
		out += "<tr>\n"
		for _, column := range row {
			out += fmt.Sprintf("<td>%s</td>\n", column)
		}
		out += "</tr>\n"
	}
	out += "</tbody>\n</table>\n"
	return out
}
