package search

import (
	"gonum.org/v1/gonum/stat/combin"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"
)

// Cartesian drives the walk with gonum's row-major cartesian generator. It
// visits combinations in the same order as Iterative and Recursive and is
// kept as an independent cross-check of both.
func Cartesian(pools *domain.Pools, scorer Scorer) (Result, error) {
	if err := checkPools(pools); err != nil {
		return Result{}, err
	}

	t := newTracker(scorer)
	gen := combin.NewCartesianGenerator(pools.Sizes())
	indices := make([]int, domain.SlotCount)
	current := make(domain.Combination, domain.SlotCount)

	for gen.Next() {
		indices = gen.Product(indices)
		for slot, idx := range indices {
			current[slot] = pools[slot][idx]
		}
		t.visit(current)
	}

	return t.result()
}
