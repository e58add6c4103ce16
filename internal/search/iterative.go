package search

import "github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"

// Iterative walks the cartesian product with an odometer over per-slot
// indices. The last slot varies fastest; the walk ends when the carry runs
// past the first slot.
func Iterative(pools *domain.Pools, scorer Scorer) (Result, error) {
	if err := checkPools(pools); err != nil {
		return Result{}, err
	}

	t := newTracker(scorer)
	var indices [domain.SlotCount]int
	current := make(domain.Combination, domain.SlotCount)

	for {
		for slot := range indices {
			current[slot] = pools[slot][indices[slot]]
		}
		t.visit(current)

		slot := domain.SlotCount - 1
		for slot >= 0 {
			indices[slot]++
			if indices[slot] < len(pools[slot]) {
				break
			}
			indices[slot] = 0
			slot--
		}
		if slot < 0 {
			break
		}
	}

	return t.result()
}
