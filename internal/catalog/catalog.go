package catalog

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"
)

// Report describes what a load produced. Skipped holds one error per
// malformed record; skipped records never abort a load. Warnings describe
// records that were loaded but may not be what the user expects.
type Report struct {
	Source   string
	Loaded   int
	Skipped  []error
	Warnings []error
}

func (r *Report) skip(format string, args ...any) {
	r.Skipped = append(r.Skipped, fmt.Errorf(format, args...))
}

// Load reads a catalog file, picking the format from the file extension.
// Unknown extensions are read as the line-oriented text format.
func Load(ctx context.Context, path string) (domain.Pools, Report, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadGOOD(path)
	case ".xlsx":
		return LoadXLSX(path)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, path)
	default:
		return LoadText(path)
	}
}

// FromItems builds pools from already-converted items.
func FromItems(source string, items []domain.Item) (domain.Pools, Report) {
	var pools domain.Pools
	for _, it := range items {
		pools.Add(it)
	}
	return pools, Report{Source: source, Loaded: len(items)}
}

// record is the loosely typed form shared by every catalog format before
// it is validated into a domain.Item.
type record struct {
	slot     string
	set      string
	rarity   string
	level    string
	mainStat string
	substats []domain.Attribute
}

func (rec record) item() (domain.Item, error) {
	slot, err := domain.ParseSlot(rec.slot)
	if err != nil {
		return domain.Item{}, err
	}
	rarity, err := strconv.Atoi(strings.TrimSpace(rec.rarity))
	if err != nil {
		return domain.Item{}, fmt.Errorf("invalid rarity %q", rec.rarity)
	}
	level, err := strconv.Atoi(strings.TrimSpace(rec.level))
	if err != nil {
		return domain.Item{}, fmt.Errorf("invalid level %q", rec.level)
	}
	set := strings.TrimSpace(rec.set)
	if set == "" {
		return domain.Item{}, fmt.Errorf("missing set key")
	}
	return domain.Item{
		Slot:        slot,
		SetKey:      set,
		Rarity:      rarity,
		Level:       level,
		MainStatKey: strings.TrimSpace(rec.mainStat),
		Substats:    rec.substats,
	}, nil
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid substat value %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("substat value %q is not a finite number", s)
	}
	return v, nil
}

// parseSubstats reads space separated key:value tokens. Tokens without a
// colon are ignored.
func parseSubstats(s string) ([]domain.Attribute, error) {
	var out []domain.Attribute
	for _, tok := range strings.Fields(s) {
		key, val, ok := strings.Cut(tok, ":")
		if !ok {
			continue
		}
		v, err := parseValue(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, domain.Attribute{Key: key, Value: v})
	}
	return out, nil
}

// FormatSubstats is the inverse of the substat column used by the text and
// xlsx formats.
func FormatSubstats(subs []domain.Attribute) string {
	parts := make([]string, 0, len(subs))
	for _, s := range subs {
		parts = append(parts, s.Key+":"+strconv.FormatFloat(s.Value, 'f', -1, 64))
	}
	return strings.Join(parts, " ")
}
