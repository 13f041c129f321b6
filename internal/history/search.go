package history

import (
	"sort"
	"strings"
)

// Search returns every play whose track contains trackQuery and whose
// artist contains artistQuery, both case-insensitive substring matches. An
// empty query matches everything for that field. Results are ordered
// ascending by end time; an empty result is a normal outcome.
func Search(events []Event, trackQuery, artistQuery string) []Event {
	trackQuery = strings.ToLower(trackQuery)
	artistQuery = strings.ToLower(artistQuery)

	var matches []Event
	for _, e := range events {
		if trackQuery != "" && !strings.Contains(strings.ToLower(e.Track), trackQuery) {
			continue
		}
		if artistQuery != "" && !strings.Contains(strings.ToLower(e.Artist), artistQuery) {
			continue
		}
		matches = append(matches, e)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].EndTime.Before(matches[j].EndTime)
	})
	return matches
}
