package ragcontext

import (
	"math"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/model"
)

// ScoringConfig carries the relevance heuristics. The step tables are
// deliberate tuning constants; changing them changes ranking behavior,
// so they live in one place.
type ScoringConfig struct {
	CategoryExact    float64 // same category as requested
	CategoryGroup    float64 // same coarse group (food/transport/...)
	CategoryBaseline float64

	// AmountSteps: relevance by deviation from the mean requested amount.
	// A deviation of <= Deviation maps to Score; beyond the last step the
	// baseline applies.
	AmountSteps    []ScoreStep
	AmountBaseline float64

	// TemporalSteps: relevance by age in days.
	TemporalSteps    []ScoreStep
	TemporalBaseline float64

	// MinAIConfidence gates the AI-provenance retrieval; an AI record below
	// this confidence is not worth surfacing. This is the one place the
	// configured similarity threshold is consulted.
	MinAIConfidence float64
}

type ScoreStep struct {
	Limit float64
	Score float64
}

// DefaultScoringConfig matches the configured defaults.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		CategoryExact:    1.0,
		CategoryGroup:    0.7,
		CategoryBaseline: 0.1,
		AmountSteps: []ScoreStep{
			{Limit: 0.1, Score: 1.0},
			{Limit: 0.3, Score: 0.8},
			{Limit: 0.5, Score: 0.6},
			{Limit: 1.0, Score: 0.4},
		},
		AmountBaseline: 0.1,
		TemporalSteps: []ScoreStep{
			{Limit: 7, Score: 1.0},
			{Limit: 30, Score: 0.8},
			{Limit: 90, Score: 0.6},
			{Limit: 180, Score: 0.4},
		},
		TemporalBaseline: 0.2,
		MinAIConfidence:  0.7,
	}
}

// categoryScore rates a historical expense against the requested category
// set: exact member, same coarse group, or baseline.
func (c ScoringConfig) categoryScore(got model.Category, requested []model.Category) float64 {
	for _, want := range requested {
		if got == want {
			return c.CategoryExact
		}
	}
	group := got.Group()
	if group != "" {
		for _, want := range requested {
			if want.Group() == group {
				return c.CategoryGroup
			}
		}
	}
	return c.CategoryBaseline
}

// amountScore rates by relative deviation from the mean of the requested
// amounts. An empty request list scores baseline.
func (c ScoringConfig) amountScore(amount float64, requested []float64) float64 {
	if len(requested) == 0 {
		return c.AmountBaseline
	}
	var sum float64
	for _, a := range requested {
		sum += a
	}
	mean := sum / float64(len(requested))
	if mean == 0 {
		return c.AmountBaseline
	}
	deviation := math.Abs(amount-mean) / mean
	for _, step := range c.AmountSteps {
		if deviation <= step.Limit {
			return step.Score
		}
	}
	return c.AmountBaseline
}

// temporalScore rates by record age.
func (c ScoringConfig) temporalScore(date, now time.Time) float64 {
	ageDays := now.Sub(date).Hours() / 24
	for _, step := range c.TemporalSteps {
		if ageDays <= step.Limit {
			return step.Score
		}
	}
	return c.TemporalBaseline
}

// amountWindow is the retrieval window for the amount source:
// [0.5*min(amounts), 2*max(amounts)].
func amountWindow(amounts []float64) (lo, hi float64, ok bool) {
	if len(amounts) == 0 {
		return 0, 0, false
	}
	lo, hi = amounts[0], amounts[0]
	for _, a := range amounts[1:] {
		if a < lo {
			lo = a
		}
		if a > hi {
			hi = a
		}
	}
	return lo * 0.5, hi * 2, true
}
