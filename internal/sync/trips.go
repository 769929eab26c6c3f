package sync

import (
	"fmt"
	"strings"

	"tripledger/internal/core"
)

// InferTrips builds Trip records from the spending rows whose date cell held
// a range like "6/1/24-6/5/24". Rows are grouped by the (name, start, end)
// natural key, where the name is the first token of the description. Comments
// are deduplicated in order of first appearance and joined with " | ".
// No matching rows means no trips this period, not an error.
func InferTrips(rows []spendingRow) ([]core.Trip, error) {
	type group struct {
		trip     core.Trip
		comments []string
		seen     map[string]struct{}
	}

	var order []string
	groups := make(map[string]*group)

	for _, r := range rows {
		if !r.isTripSource() {
			continue
		}

		name := firstToken(r.description)
		startText, endText, ok := strings.Cut(r.rangeText, "-")
		if !ok {
			return nil, fmt.Errorf("sheet %q: malformed trip date range %q", r.sheetName, r.rangeText)
		}
		start, err := core.ParseDate(startText)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: trip range start: %w", r.sheetName, err)
		}
		end, err := core.ParseDate(endText)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: trip range end: %w", r.sheetName, err)
		}

		id := core.TripID(name, start, end)
		g, ok := groups[id]
		if !ok {
			trip := core.Trip{
				ID:        id,
				Name:      name,
				StartDate: start,
				EndDate:   end,
			}
			if err := trip.Validate(); err != nil {
				return nil, fmt.Errorf("sheet %q: trip %q range %q: %w", r.sheetName, name, r.rangeText, err)
			}
			g = &group{
				trip: trip,
				seen: make(map[string]struct{}),
			}
			groups[id] = g
			order = append(order, id)
		}
		if r.comment != nil {
			if _, dup := g.seen[*r.comment]; !dup {
				g.seen[*r.comment] = struct{}{}
				g.comments = append(g.comments, *r.comment)
			}
		}
	}

	trips := make([]core.Trip, 0, len(order))
	for _, id := range order {
		g := groups[id]
		if len(g.comments) > 0 {
			joined := strings.Join(g.comments, " | ")
			g.trip.Comment = &joined
		}
		trips = append(trips, g.trip)
	}
	return trips, nil
}
