// Package scoring turns one event's catch records into ranked results.
package scoring

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

// ScoreEvent ranks the catch records of a finalized event.
//
// Ranked records are ordered by net weight, big bass weight and fish count
// (all descending), then angler id. Tied anglers share rank and points and
// the next rank is tied rank + group size. Disqualified records are listed
// after the ranked ones with rank 0 and no points unless
// cfg.RankDisqualified is set, in which case they rank with zero net weight.
//
// The output depends only on the input set, not on its order.
func ScoreEvent(event domain.Event, records []domain.CatchRecord, cfg domain.ScoringConfig) ([]domain.EventResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if event.Status != domain.EventFinalized {
		return nil, domain.NewValidationError("event", event.ID, "event is not finalized")
	}
	if err := validateRecords(event, records); err != nil {
		return nil, err
	}

	var ranked, dq []domain.EventResult
	for _, rec := range records {
		res := newResult(rec)
		if rec.Disqualified {
			if !cfg.RankDisqualified {
				dq = append(dq, res)
				continue
			}
			res.NetWeight = decimal.Zero
		}
		ranked = append(ranked, res)
	}

	sort.Slice(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	assignRanks(ranked, cfg)

	sort.Slice(dq, func(i, j int) bool { return anglerLess(dq[i].AnglerID, dq[j].AnglerID) })

	return append(ranked, dq...), nil
}

func validateRecords(event domain.Event, records []domain.CatchRecord) error {
	type seen struct{ bigBass bool }
	anglers := make(map[uuid.UUID]seen, len(records))

	for _, rec := range records {
		if rec.EventID != event.ID {
			return domain.NewValidationError("catch record", rec.ID, "record belongs to event "+rec.EventID.String())
		}
		switch {
		case rec.Weight.IsNegative():
			return domain.NewValidationError("catch record", rec.ID, "weight must not be negative")
		case rec.Penalty.IsNegative():
			return domain.NewValidationError("catch record", rec.ID, "penalty must not be negative")
		case rec.BigBassWeight.IsNegative():
			return domain.NewValidationError("catch record", rec.ID, "big bass weight must not be negative")
		case rec.FishCount < 0:
			return domain.NewValidationError("catch record", rec.ID, "fish count must not be negative")
		}

		prev, ok := anglers[rec.AnglerID]
		if ok {
			if prev.bigBass && rec.BigBass {
				return domain.NewValidationError("catch record", rec.ID, "more than one big bass flag for angler "+rec.AnglerID.String())
			}
			return domain.NewValidationError("catch record", rec.ID, "more than one catch record for angler "+rec.AnglerID.String())
		}
		anglers[rec.AnglerID] = seen{bigBass: rec.BigBass}
	}
	return nil
}

func newResult(rec domain.CatchRecord) domain.EventResult {
	return domain.EventResult{
		EventID:       rec.EventID,
		AnglerID:      rec.AnglerID,
		Weight:        rec.Weight,
		Penalty:       rec.Penalty,
		NetWeight:     rec.NetWeight(),
		FishCount:     rec.FishCount,
		BigBass:       rec.BigBass,
		BigBassWeight: rec.BigBassWeight,
		Disqualified:  rec.Disqualified,
	}
}

// assignRanks expects results sorted by less.
func assignRanks(results []domain.EventResult, cfg domain.ScoringConfig) {
	for i := range results {
		if i > 0 && tied(results[i-1], results[i]) {
			results[i].Rank = results[i-1].Rank
		} else {
			results[i].Rank = i + 1
		}

		if blank(results[i]) {
			results[i].Points = cfg.ParticipationPoints
		} else {
			results[i].Points = cfg.PointsForRank(results[i].Rank)
		}
		if results[i].BigBass && !results[i].Disqualified {
			results[i].Points += cfg.BigBassBonus
		}
	}
}

func blank(r domain.EventResult) bool {
	return r.NetWeight.IsZero() && r.FishCount == 0
}

func tied(a, b domain.EventResult) bool {
	return a.NetWeight.Equal(b.NetWeight) &&
		a.BigBassWeight.Equal(b.BigBassWeight) &&
		a.FishCount == b.FishCount
}

func less(a, b domain.EventResult) bool {
	if c := a.NetWeight.Cmp(b.NetWeight); c != 0 {
		return c > 0
	}
	if c := a.BigBassWeight.Cmp(b.BigBassWeight); c != 0 {
		return c > 0
	}
	if a.FishCount != b.FishCount {
		return a.FishCount > b.FishCount
	}
	return anglerLess(a.AnglerID, b.AnglerID)
}

func anglerLess(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
