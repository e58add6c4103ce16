package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"
)

// LoadGOOD reads the artifacts of a GOOD (Genshin Open Object Description)
// export, as produced by inventory scanners.
func LoadGOOD(path string) (domain.Pools, Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Pools{}, Report{Source: path}, fmt.Errorf("read catalog %q: %w", path, err)
	}
	pools, rep, err := ParseGOOD(b)
	rep.Source = path
	if err != nil {
		return domain.Pools{}, rep, fmt.Errorf("parse catalog %q: %w", path, err)
	}
	return pools, rep, nil
}

func ParseGOOD(data []byte) (domain.Pools, Report, error) {
	var pools domain.Pools
	var rep Report

	if !gjson.ValidBytes(data) {
		return pools, rep, errors.New("invalid JSON")
	}
	if format := gjson.GetBytes(data, "format"); format.Exists() && format.String() != "GOOD" {
		return pools, rep, fmt.Errorf("unsupported format %q (expected GOOD)", format.String())
	}
	artifacts := gjson.GetBytes(data, "artifacts")
	if !artifacts.Exists() {
		return pools, rep, nil
	}
	if !artifacts.IsArray() {
		return pools, rep, errors.New("artifacts: expected an array")
	}

	idx := 0
	artifacts.ForEach(func(_, a gjson.Result) bool {
		defer func() { idx++ }()

		subs, err := goodSubstats(a.Get("substats"))
		if err != nil {
			rep.skip("artifacts[%d]: %v", idx, err)
			return true
		}
		rec := record{
			slot:     a.Get("slotKey").String(),
			set:      a.Get("setKey").String(),
			rarity:   a.Get("rarity").String(),
			level:    a.Get("level").String(),
			mainStat: a.Get("mainStatKey").String(),
			substats: subs,
		}
		it, err := rec.item()
		if err != nil {
			rep.skip("artifacts[%d]: %v", idx, err)
			return true
		}
		pools.Add(it)
		rep.Loaded++
		return true
	})

	return pools, rep, nil
}

func goodSubstats(arr gjson.Result) ([]domain.Attribute, error) {
	if !arr.Exists() {
		return nil, nil
	}
	var out []domain.Attribute
	var err error
	arr.ForEach(func(_, s gjson.Result) bool {
		key := s.Get("key").String()
		// Scanners emit empty placeholders for substats that are not unlocked yet.
		if key == "" {
			return true
		}
		v := s.Get("value")
		if v.Type != gjson.Number {
			err = fmt.Errorf("substat %s: value %s is not a number", key, v.Raw)
			return false
		}
		f, perr := parseValue(v.Raw)
		if perr != nil {
			err = fmt.Errorf("substat %s: %w", key, perr)
			return false
		}
		out = append(out, domain.Attribute{Key: key, Value: f})
		return true
	})
	return out, err
}
