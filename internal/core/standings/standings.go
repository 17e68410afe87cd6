// Package standings builds Angler-of-the-Year standings from event results.
package standings

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

// Aggregate computes season standings from the results of the season's
// finalized events. The season's events are the distinct event ids found in
// results.
//
// Qualified entries come first in rank order, followed by unqualified ones
// (rank 0) in the same order. Aggregate keeps no state between calls.
func Aggregate(results []domain.EventResult, cfg domain.SeasonConfig) ([]domain.SeasonStandingEntry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	events := make(map[uuid.UUID]struct{})
	byAngler := make(map[uuid.UUID][]domain.EventResult)
	for _, res := range results {
		if res.Points < 0 {
			return nil, domain.NewValidationError("event result", res.EventID, "negative points for angler "+res.AnglerID.String())
		}
		for _, prev := range byAngler[res.AnglerID] {
			if prev.EventID == res.EventID {
				return nil, domain.NewValidationError("event result", res.EventID, "duplicate result for angler "+res.AnglerID.String())
			}
		}
		events[res.EventID] = struct{}{}
		byAngler[res.AnglerID] = append(byAngler[res.AnglerID], res)
	}

	entries := make([]domain.SeasonStandingEntry, 0, len(byAngler))
	for anglerID, fished := range byAngler {
		entries = append(entries, summarize(anglerID, fished, len(events), cfg))
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Qualified != entries[j].Qualified {
			return entries[i].Qualified
		}
		return less(entries[i], entries[j])
	})
	assignRanks(entries)

	return entries, nil
}

func summarize(anglerID uuid.UUID, fished []domain.EventResult, seasonEvents int, cfg domain.SeasonConfig) domain.SeasonStandingEntry {
	entry := domain.SeasonStandingEntry{
		AnglerID:           anglerID,
		EventsFished:       len(fished),
		TotalWeight:        decimal.Zero,
		TotalBigBassWeight: decimal.Zero,
	}

	for _, res := range fished {
		entry.TotalWeight = entry.TotalWeight.Add(res.NetWeight)
		entry.TotalBigBassWeight = entry.TotalBigBassWeight.Add(res.BigBassWeight)
		if res.BigBass && !res.Disqualified {
			entry.BigBassAwards++
		}
	}

	counted := fished
	if cfg.DropLowest > 0 && len(fished) > cfg.DropLowest {
		counted = make([]domain.EventResult, len(fished))
		copy(counted, fished)
		// Lowest points first; equal points drop the earlier listed event id
		// so the choice does not depend on input order.
		sort.Slice(counted, func(i, j int) bool {
			if counted[i].Points != counted[j].Points {
				return counted[i].Points < counted[j].Points
			}
			return idLess(counted[i].EventID, counted[j].EventID)
		})
		for _, res := range counted[:cfg.DropLowest] {
			entry.DroppedEvents = append(entry.DroppedEvents, res.EventID)
		}
		counted = counted[cfg.DropLowest:]
	}

	for _, res := range counted {
		entry.Points += res.Points
	}

	if missed := seasonEvents - len(fished); missed > 0 && cfg.MissedEventDeduction > 0 {
		entry.Points -= missed * cfg.MissedEventDeduction
		if entry.Points < 0 {
			entry.Points = 0
		}
	}

	entry.Qualified = entry.EventsFished >= cfg.MinEventsToQualify
	return entry
}

// assignRanks expects qualified entries first, sorted by less.
func assignRanks(entries []domain.SeasonStandingEntry) {
	for i := range entries {
		if !entries[i].Qualified {
			entries[i].Rank = 0
			continue
		}
		if i > 0 && tied(entries[i-1], entries[i]) {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
}

func tied(a, b domain.SeasonStandingEntry) bool {
	return a.Points == b.Points &&
		a.TotalWeight.Equal(b.TotalWeight) &&
		a.TotalBigBassWeight.Equal(b.TotalBigBassWeight)
}

func less(a, b domain.SeasonStandingEntry) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if c := a.TotalWeight.Cmp(b.TotalWeight); c != 0 {
		return c > 0
	}
	if c := a.TotalBigBassWeight.Cmp(b.TotalBigBassWeight); c != 0 {
		return c > 0
	}
	return idLess(a.AnglerID, b.AnglerID)
}

func idLess(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
