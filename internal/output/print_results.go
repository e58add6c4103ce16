package output

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/scoring"
	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/search"
)

// Run is one finished (or failed) search, as handed to the reporter.
type Run struct {
	Strategy search.Strategy
	Result   search.Result
	Err      error
	Elapsed  time.Duration
}

func PrintResult(w io.Writer, r Run, weights scoring.Weights) {
	if r.Err != nil {
		PrintNoResult(w, r.Strategy, r.Err)
		return
	}

	title := r.Strategy.Title()
	fmt.Fprintf(w, "Best Combination (%s):\n", title)
	for _, it := range r.Result.Best {
		fmt.Fprintf(w, "%s from set %s with main stat %s (score %s)\n",
			it.Slot, it.SetKey, it.MainStatKey, formatScore(weights.ItemScore(it)))
	}
	fmt.Fprintf(w, "Total score: %s\n", formatScore(r.Result.Score))
	fmt.Fprintf(w, "Combinations evaluated: %d\n", r.Result.Evaluated)
	fmt.Fprintf(w, "\nExecution time (%s): %d milliseconds\n", title, r.Elapsed.Milliseconds())
}

func PrintNoResult(w io.Writer, s search.Strategy, err error) {
	var epe *search.EmptyPoolError
	if errors.As(err, &epe) {
		fmt.Fprintf(w, "Error (%s): no valid combinations found: %v\n", s.Title(), err)
		return
	}
	fmt.Fprintf(w, "Error (%s): %v\n", s.Title(), err)
}

// PrintComparison prints one row per strategy and whether all successful
// runs picked the same combination.
func PrintComparison(w io.Writer, runs []Run) bool {
	fmt.Fprintf(w, "%-10s %12s %12s %10s\n", "Strategy", "Score", "Evaluated", "Time")
	fmt.Fprintf(w, "%-10s %12s %12s %10s\n", "----------", "------------", "------------", "----------")

	agree := true
	var ref *Run
	for i := range runs {
		r := &runs[i]
		if r.Err != nil {
			fmt.Fprintf(w, "%-10s %12s %12s %10s\n", r.Strategy, "-", "-", r.Elapsed.Round(time.Millisecond))
			continue
		}
		fmt.Fprintf(w, "%-10s %12s %12d %10s\n", r.Strategy, formatScore(r.Result.Score), r.Result.Evaluated, r.Elapsed.Round(time.Millisecond))
		if ref == nil {
			ref = r
			continue
		}
		if !sameCombination(ref.Result, r.Result) {
			agree = false
		}
	}

	if agree {
		fmt.Fprintln(w, "All strategies agree.")
	} else {
		fmt.Fprintln(w, "Strategies disagree!")
	}
	return agree
}

func sameCombination(a, b search.Result) bool {
	if a.Score != b.Score || len(a.Best) != len(b.Best) {
		return false
	}
	for i := range a.Best {
		x, y := a.Best[i], b.Best[i]
		if x.Slot != y.Slot || x.SetKey != y.SetKey || x.MainStatKey != y.MainStatKey || x.Level != y.Level || x.Rarity != y.Rarity {
			return false
		}
		if len(x.Substats) != len(y.Substats) {
			return false
		}
		for j := range x.Substats {
			if x.Substats[j] != y.Substats[j] {
				return false
			}
		}
	}
	return true
}

func formatScore(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
