package output

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/genshinsim/gcsim/pkg/core/attributes"
	"github.com/genshinsim/gcsim/pkg/core/keys"
	"github.com/genshinsim/gcsim/pkg/shortcut"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"
)

// goodToStat maps GOOD substat keys to gcsim stats. Keys ending in "_" are
// percentages and are converted to fractions.
var goodToStat = map[string]attributes.Stat{
	"def_":          attributes.DEFP,
	"def":           attributes.DEF,
	"hp":            attributes.HP,
	"hp_":           attributes.HPP,
	"atk":           attributes.ATK,
	"atk_":          attributes.ATKP,
	"enerRech_":     attributes.ER,
	"eleMas":        attributes.EM,
	"critRate_":     attributes.CR,
	"critDMG_":      attributes.CD,
	"heal_":         attributes.Heal,
	"pyro_dmg_":     attributes.PyroP,
	"hydro_dmg_":    attributes.HydroP,
	"cryo_dmg_":     attributes.CryoP,
	"electro_dmg_":  attributes.ElectroP,
	"anemo_dmg_":    attributes.AnemoP,
	"geo_dmg_":      attributes.GeoP,
	"dendro_dmg_":   attributes.DendroP,
	"physical_dmg_": attributes.PhyP,
}

// RenderSimStats renders the combination as gcsim config lines: one
// "add set" line per recognized set and one "add stats" line with the
// summed substats. Sets gcsim does not know and substats without a gcsim
// stat are left out and returned as warnings. An unknown character
// renders nothing.
func RenderSimStats(char string, c domain.Combination) (string, []error) {
	if char == "" || len(c) == 0 {
		return "", nil
	}
	ck, ok := shortcut.CharNameToKey[strings.ToLower(strings.TrimSpace(char))]
	if !ok {
		return "", []error{fmt.Errorf("unrecognized gcsim character %q", char)}
	}
	name := ck.String()

	var warns []error
	sets := map[keys.Set]int{}
	for k, n := range c.SetCounts() {
		sk, ok := shortcut.SetNameToKey[strings.ToLower(k)]
		if !ok {
			warns = append(warns, fmt.Errorf("unrecognized gcsim artifact set %q", k))
			continue
		}
		sets[sk] += n
	}
	setKeys := make([]keys.Set, 0, len(sets))
	for k := range sets {
		setKeys = append(setKeys, k)
	}
	sort.Slice(setKeys, func(i, j int) bool { return setKeys[i].String() < setKeys[j].String() })

	var b strings.Builder
	for _, k := range setKeys {
		b.WriteString(name)
		b.WriteString(" add set=\"")
		b.WriteString(k.String())
		b.WriteString("\" count=")
		b.WriteString(strconv.Itoa(sets[k]))
		b.WriteString(";\n")
	}

	totals := make([]float64, attributes.EndStatType)
	unknown := map[string]bool{}
	for _, it := range c {
		for _, sub := range it.Substats {
			st, ok := goodToStat[sub.Key]
			if !ok {
				if !unknown[sub.Key] {
					unknown[sub.Key] = true
					warns = append(warns, fmt.Errorf("substat %q has no gcsim stat", sub.Key))
				}
				continue
			}
			v := sub.Value
			if strings.HasSuffix(sub.Key, "_") {
				v = v / 100.0
			}
			totals[st] += v
		}
	}

	count := 0
	var line strings.Builder
	line.WriteString(name)
	line.WriteString(" add stats")
	for i, v := range totals {
		if v == 0 {
			continue
		}
		count++
		line.WriteString(" ")
		line.WriteString(attributes.Stat(i).String())
		line.WriteString("=")
		line.WriteString(formatStat(v))
	}
	if count > 0 {
		line.WriteString(";")
		b.WriteString(line.String())
		b.WriteString("\n")
	}
	return b.String(), warns
}

// formatStat avoids exponent notation, which the gcsim lexer does not read.
func formatStat(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}
