package reconcile

import (
	"variantstore/api/models"
	"variantstore/api/models/constants"
)

// accumulator folds per-caller metrics into ConsensusStats. Extremes start
// untouched; a caller without a parsable AAF or depth leaves them as they are.
type accumulator struct {
	stats models.ConsensusStats
}

func newAccumulator() *accumulator {
	return &accumulator{stats: models.NewConsensusStats()}
}

func (a *accumulator) fold(c constants.Caller, metrics models.CallerMetrics) {
	a.stats.CallerData[c] = metrics

	if aaf, ok := metrics.AAF(); ok {
		if !a.stats.MaxSomAAF.Set || aaf > a.stats.MaxSomAAF.Value {
			a.stats.MaxSomAAF = models.Tracked[float64]{Value: aaf, Set: true}
		}
	}

	if depth, ok := metrics.Depth(); ok {
		if !a.stats.MinDepth.Set || depth < a.stats.MinDepth.Value {
			a.stats.MinDepth = models.Tracked[int]{Value: depth, Set: true}
		}
		if !a.stats.MaxDepth.Set || depth > a.stats.MaxDepth.Value {
			a.stats.MaxDepth = models.Tracked[int]{Value: depth, Set: true}
		}
	}
}
