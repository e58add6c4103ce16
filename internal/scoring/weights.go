package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"
)

// Weights maps a substat key (GOOD naming) to its contribution per point.
// Keys missing from the table contribute nothing.
type Weights map[string]float64

func DefaultWeights() Weights {
	return Weights{
		"atk":       1.0,
		"critRate_": 2.0,
		"critDMG_":  1.5,
	}
}

func (w Weights) ItemScore(it domain.Item) float64 {
	score := 0.0
	for _, sub := range it.Substats {
		score += sub.Value * w[sub.Key]
	}
	return score
}

// Score sums the weighted substats of every item in the combination.
func (w Weights) Score(c domain.Combination) float64 {
	score := 0.0
	for _, it := range c {
		score += w.ItemScore(it)
	}
	return score
}

func (w Weights) Validate() error {
	for _, k := range w.Keys() {
		v := w[k]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %q is not a finite number", k)
		}
	}
	return nil
}

// Keys returns the weighted keys in sorted order.
func (w Weights) Keys() []string {
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
