package search

import "github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"

// scratch is the partial combination shared by every branch of the
// recursive walk. Items are pushed before descending and popped after.
type scratch struct {
	items domain.Combination
}

func (s *scratch) push(it domain.Item) { s.items = append(s.items, it) }
func (s *scratch) pop()                { s.items = s.items[:len(s.items)-1] }

// Recursive enumerates the cartesian product depth-first, slot 0 outermost.
// An empty pool produces no leaves, which surfaces as ErrNoCombination.
func Recursive(pools *domain.Pools, scorer Scorer) (Result, error) {
	t := newTracker(scorer)
	buf := &scratch{items: make(domain.Combination, 0, domain.SlotCount)}
	descend(pools, buf, 0, t)
	return t.result()
}

func descend(pools *domain.Pools, buf *scratch, depth int, t *tracker) {
	if depth == domain.SlotCount {
		t.visit(buf.items)
		return
	}
	for _, it := range pools[depth] {
		buf.push(it)
		descend(pools, buf, depth+1, t)
		buf.pop()
	}
}
