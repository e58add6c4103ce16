package search

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"
)

// ErrNoCombination is returned when the cartesian product of the pools is empty.
var ErrNoCombination = errors.New("no valid combination found")

type EmptyPoolError struct {
	Slot domain.Slot
}

func (e *EmptyPoolError) Error() string {
	return fmt.Sprintf("no candidates for slot %s", e.Slot)
}

func (e *EmptyPoolError) Is(target error) bool {
	return target == ErrNoCombination
}

type Scorer interface {
	Score(c domain.Combination) float64
}

type Result struct {
	Best      domain.Combination
	Score     float64
	Evaluated int
}

type Strategy string

const (
	StrategyIterative Strategy = "iterative"
	StrategyRecursive Strategy = "recursive"
	StrategyCartesian Strategy = "cartesian"
)

// Strategies lists every strategy in the order they are run for comparisons.
var Strategies = []Strategy{StrategyIterative, StrategyRecursive, StrategyCartesian}

func ParseStrategy(s string) (Strategy, error) {
	v := Strategy(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range Strategies {
		if st == v {
			return st, nil
		}
	}
	return "", fmt.Errorf("unsupported strategy %q (supported: iterative, recursive, cartesian)", s)
}

// Title returns the strategy name as shown in reports.
func (s Strategy) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

func Run(s Strategy, pools *domain.Pools, scorer Scorer) (Result, error) {
	switch s {
	case StrategyIterative:
		return Iterative(pools, scorer)
	case StrategyRecursive:
		return Recursive(pools, scorer)
	case StrategyCartesian:
		return Cartesian(pools, scorer)
	}
	return Result{}, fmt.Errorf("unsupported strategy %q", s)
}

func checkPools(pools *domain.Pools) error {
	if slot, empty := pools.FirstEmpty(); empty {
		return &EmptyPoolError{Slot: slot}
	}
	return nil
}

// tracker keeps the best combination seen so far. The first combination
// visited is always kept. After that only a strictly higher score replaces
// the current best, so the first combination visited wins ties.
type tracker struct {
	scorer    Scorer
	best      domain.Combination
	score     float64
	evaluated int
}

func newTracker(scorer Scorer) *tracker {
	return &tracker{scorer: scorer, score: math.Inf(-1)}
}

// visit scores c and retains a copy of it when it beats the current best.
// c may be a reused buffer.
func (t *tracker) visit(c domain.Combination) {
	t.evaluated++
	score := t.scorer.Score(c)
	if t.best == nil || score > t.score {
		t.score = score
		t.best = c.Clone()
	}
}

func (t *tracker) result() (Result, error) {
	if t.best == nil {
		return Result{Evaluated: t.evaluated}, ErrNoCombination
	}
	return Result{Best: t.best, Score: t.score, Evaluated: t.evaluated}, nil
}
