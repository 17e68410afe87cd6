package domain

// ScoringConfig holds the points table for a single event.
//
// Defaults (DefaultScoringConfig): 100 points for first place, one point less
// per place, never below 50. Blank anglers (no weight, no fish) get 0 and
// disqualified anglers are listed as DQ without a rank.
type ScoringConfig struct {
	FirstPlacePoints    int
	DecrementPerPlace   int
	MinimumPoints       int
	ParticipationPoints int
	BigBassBonus        int
	// RankDisqualified ranks DQ anglers with zero net weight instead of
	// listing them as DQ with zero points.
	RankDisqualified bool
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		FirstPlacePoints:  100,
		DecrementPerPlace: 1,
		MinimumPoints:     50,
	}
}

func (c ScoringConfig) Validate() error {
	switch {
	case c.FirstPlacePoints < 0:
		return &ValidationError{Entity: "scoring config", Rule: "first place points must not be negative"}
	case c.DecrementPerPlace < 0:
		return &ValidationError{Entity: "scoring config", Rule: "decrement per place must not be negative"}
	case c.MinimumPoints < 0:
		return &ValidationError{Entity: "scoring config", Rule: "minimum points must not be negative"}
	case c.MinimumPoints > c.FirstPlacePoints:
		return &ValidationError{Entity: "scoring config", Rule: "minimum points exceed first place points"}
	case c.ParticipationPoints < 0:
		return &ValidationError{Entity: "scoring config", Rule: "participation points must not be negative"}
	case c.BigBassBonus < 0:
		return &ValidationError{Entity: "scoring config", Rule: "big bass bonus must not be negative"}
	}
	return nil
}

// PointsForRank applies max(MinimumPoints, FirstPlacePoints - DecrementPerPlace*(rank-1)).
func (c ScoringConfig) PointsForRank(rank int) int {
	p := c.FirstPlacePoints - c.DecrementPerPlace*(rank-1)
	if p < c.MinimumPoints {
		return c.MinimumPoints
	}
	return p
}

// SeasonConfig controls Angler-of-the-Year aggregation. The zero value
// qualifies everyone, drops nothing and never deducts.
type SeasonConfig struct {
	// MinEventsToQualify is the number of events an angler must fish to be
	// ranked for AoY.
	MinEventsToQualify int
	// DropLowest discards the K lowest-point events of anglers who fished at
	// least K+1 events.
	DropLowest int
	// MissedEventDeduction is subtracted once per season event the angler did
	// not fish. Cumulative points never go below zero.
	MissedEventDeduction int
}

func (c SeasonConfig) Validate() error {
	switch {
	case c.MinEventsToQualify < 0:
		return &ValidationError{Entity: "season config", Rule: "minimum events must not be negative"}
	case c.DropLowest < 0:
		return &ValidationError{Entity: "season config", Rule: "drop lowest must not be negative"}
	case c.MissedEventDeduction < 0:
		return &ValidationError{Entity: "season config", Rule: "missed event deduction must not be negative"}
	}
	return nil
}
