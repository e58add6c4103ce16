package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"
)

const xlsxSheet = "Artifacts"

var xlsxHeaders = []string{"Slot", "Set", "Rarity", "Level", "Main Stat", "Substats"}

func colName(n int) string {
	// 1-indexed: 1 -> A, 26 -> Z, 27 -> AA
	if n <= 0 {
		return ""
	}
	out := ""
	for n > 0 {
		n--
		out = string(rune('A'+(n%26))) + out
		n /= 26
	}
	return out
}

// LoadXLSX reads the "Artifacts" sheet (or the first sheet when it is
// missing). Row 1 is a header; columns are Slot, Set, Rarity, Level,
// Main Stat, and then one or more cells of "key:value" substats.
func LoadXLSX(path string) (domain.Pools, Report, error) {
	rep := Report{Source: path}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.Pools{}, rep, fmt.Errorf("open xlsx %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := xlsxSheet
	if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return domain.Pools{}, rep, fmt.Errorf("xlsx %q: no sheets", filepath.Base(path))
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.Pools{}, rep, fmt.Errorf("read %s!%s: %w", filepath.Base(path), sheet, err)
	}

	var pools domain.Pools
	for i, row := range rows {
		if i == 0 {
			continue
		}
		rowNo := i + 1
		if isBlankRow(row) {
			continue
		}
		if len(row) < 5 {
			rep.skip("%s row %d: expected at least 5 columns, got %d", sheet, rowNo, len(row))
			continue
		}
		subs, err := parseSubstats(strings.Join(row[5:], " "))
		if err != nil {
			rep.skip("%s row %d: %v", sheet, rowNo, err)
			continue
		}
		rec := record{
			slot:     row[0],
			set:      row[1],
			rarity:   row[2],
			level:    row[3],
			mainStat: row[4],
			substats: subs,
		}
		it, err := rec.item()
		if err != nil {
			rep.skip("%s row %d: %v", sheet, rowNo, err)
			continue
		}
		pools.Add(it)
		rep.Loaded++
	}
	return pools, rep, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteXLSX writes the pools in the layout LoadXLSX reads.
func WriteXLSX(path string, pools *domain.Pools) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}
	for i, h := range xlsxHeaders {
		if err := f.SetCellValue(xlsxSheet, fmt.Sprintf("%s1", colName(i+1)), h); err != nil {
			return err
		}
	}

	headerStyleID, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", fmt.Sprintf("%s1", colName(len(xlsxHeaders))), headerStyleID); err != nil {
		return err
	}

	row := 2
	for s := range pools {
		for _, it := range pools[s] {
			values := []any{it.Slot.String(), it.SetKey, it.Rarity, it.Level, it.MainStatKey, FormatSubstats(it.Substats)}
			for i, v := range values {
				if err := f.SetCellValue(xlsxSheet, fmt.Sprintf("%s%d", colName(i+1), row), v); err != nil {
					return err
				}
			}
			row++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx %q: %w", path, err)
	}
	return nil
}
