package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/catalog"
	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"
)

const sampleText = `# slot set rarity level main substats
flower GladiatorsFinale 5 20 hp atk:19 critRate_:3.9 critDMG_:7.8 eleMas:23
plume GladiatorsFinale 5 20 atk critRate_:10.5 hp_:4.7
sands EmblemOfSeveredFate 5 20 enerRech_ atk:33 critDMG_:14
goblet ShimenawasReminiscence 4 16 pyro_dmg_ critDMG_:20.2
circlet EmblemOfSeveredFate 5 20 critRate_ atk:16 critDMG_:21.8
circlet EmblemOfSeveredFate 5 20 critDMG_ critRate_:6.6
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadText(t *testing.T) {
	pools, rep, err := catalog.ReadText(strings.NewReader(sampleText))
	require.NoError(t, err)
	assert.Equal(t, 6, rep.Loaded)
	assert.Empty(t, rep.Skipped)
	assert.Equal(t, []int{1, 1, 1, 1, 2}, pools.Sizes())

	f := pools[domain.Flower][0]
	assert.Equal(t, "GladiatorsFinale", f.SetKey)
	assert.Equal(t, 5, f.Rarity)
	assert.Equal(t, 20, f.Level)
	assert.Equal(t, "hp", f.MainStatKey)
	assert.Equal(t, []domain.Attribute{
		{Key: "atk", Value: 19},
		{Key: "critRate_", Value: 3.9},
		{Key: "critDMG_", Value: 7.8},
		{Key: "eleMas", Value: 23},
	}, f.Substats)

	assert.Equal(t, "critDMG_", pools[domain.Circlet][1].MainStatKey)
}

func TestReadTextSkipsMalformedRecords(t *testing.T) {
	in := strings.Join([]string{
		"flower GladiatorsFinale 5 20 hp atk:19",
		"helmet GladiatorsFinale 5 20 hp atk:19",
		"plume GladiatorsFinale five 20 atk atk:1",
		"sands GladiatorsFinale 5 twenty atk atk:1",
		"goblet GladiatorsFinale 5",
		"circlet GladiatorsFinale 5 20 critRate_ atk:abc",
		"circlet GladiatorsFinale 5 20 critRate_ atk:NaN",
		"",
		"goblet GladiatorsFinale 5 20 atk_ lonelytoken critDMG_:5",
	}, "\n")

	pools, rep, err := catalog.ReadText(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Loaded)
	require.Len(t, rep.Skipped, 6)
	assert.Contains(t, rep.Skipped[0].Error(), "line 2")
	assert.Contains(t, rep.Skipped[0].Error(), "helmet")

	require.Len(t, pools[domain.Goblet], 1)
	assert.Equal(t, []domain.Attribute{{Key: "critDMG_", Value: 5}}, pools[domain.Goblet][0].Substats)
}

func TestReadTextLongLines(t *testing.T) {
	in := strings.Join([]string{
		"flower GladiatorsFinale 5 20 hp atk:19",
		"plume GladiatorsFinale 5 20 atk" + strings.Repeat(" ", 100<<10) + "critRate_:10.5",
		"sands GladiatorsFinale 5 20 atk_ note:" + strings.Repeat("x", 1<<20),
		"goblet GladiatorsFinale 5 20 pyro_dmg_ critDMG_:5\r",
	}, "\n")

	pools, rep, err := catalog.ReadText(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Loaded)
	require.Len(t, rep.Skipped, 1)
	assert.Contains(t, rep.Skipped[0].Error(), "line 3: longer than")
	assert.Equal(t, []domain.Attribute{{Key: "critRate_", Value: 10.5}}, pools[domain.Plume][0].Substats)
	assert.Empty(t, pools[domain.Sands])
	assert.Equal(t, []domain.Attribute{{Key: "critDMG_", Value: 5}}, pools[domain.Goblet][0].Substats)
}

func TestParseGOOD(t *testing.T) {
	doc := `{
  "format": "GOOD",
  "version": 2,
  "source": "scanner",
  "artifacts": [
    {"setKey": "GladiatorsFinale", "slotKey": "flower", "rarity": 5, "level": 20, "mainStatKey": "hp",
     "substats": [{"key": "atk", "value": 19}, {"key": "critRate_", "value": 3.9}, {"key": "", "value": 0}]},
    {"setKey": "GladiatorsFinale", "slotKey": "plume", "rarity": 5, "level": 20, "mainStatKey": "atk",
     "substats": [{"key": "critDMG_", "value": "lots"}]},
    {"setKey": "GladiatorsFinale", "slotKey": "belt", "rarity": 5, "level": 20, "mainStatKey": "atk", "substats": []},
    {"setKey": "NoblesseOblige", "slotKey": "circlet", "rarity": 4, "level": 12, "mainStatKey": "critRate_",
     "substats": [{"key": "critDMG_", "value": 5.4}]}
  ]
}`
	pools, rep, err := catalog.ParseGOOD([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Loaded)
	assert.Len(t, rep.Skipped, 2)
	assert.Equal(t, []domain.Attribute{{Key: "atk", Value: 19}, {Key: "critRate_", Value: 3.9}}, pools[domain.Flower][0].Substats)
	assert.Equal(t, 4, pools[domain.Circlet][0].Rarity)
	assert.Equal(t, 12, pools[domain.Circlet][0].Level)
}

func TestParseGOODRejectsInvalidDocuments(t *testing.T) {
	_, _, err := catalog.ParseGOOD([]byte(`{"artifacts": [`))
	assert.Error(t, err)

	_, _, err = catalog.ParseGOOD([]byte(`{"format": "other"}`))
	assert.Error(t, err)

	_, _, err = catalog.ParseGOOD([]byte(`{"artifacts": {}}`))
	assert.Error(t, err)

	pools, rep, err := catalog.ParseGOOD([]byte(`{"format": "GOOD", "characters": []}`))
	require.NoError(t, err)
	assert.Zero(t, rep.Loaded)
	assert.Zero(t, pools.Total())
}

func TestLoadFormatsAgree(t *testing.T) {
	ctx := context.Background()
	want, _, err := catalog.ReadText(strings.NewReader(sampleText))
	require.NoError(t, err)

	dir := t.TempDir()
	xlsxPath := filepath.Join(dir, "artifacts.xlsx")
	require.NoError(t, catalog.WriteXLSX(xlsxPath, &want))
	dbPath := filepath.Join(dir, "artifacts.db")
	require.NoError(t, catalog.WriteSQLite(ctx, dbPath, &want))
	txtPath := writeFile(t, "artifacts.txt", sampleText)

	for _, path := range []string{txtPath, xlsxPath, dbPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			got, rep, err := catalog.Load(ctx, path)
			require.NoError(t, err)
			assert.Equal(t, path, rep.Source)
			assert.Equal(t, 6, rep.Loaded)
			assert.Empty(t, rep.Skipped)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadXLSXSkipsBadRows(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]any{
		{"Slot", "Set", "Rarity", "Level", "Main Stat", "Substats"},
		{"flower", "A", 5, 20, "hp", "atk:19", "critRate_:3.9"},
		{"helmet", "A", 5, 20, "hp", "atk:19"},
		{},
		{"plume", "A", 5},
		{"plume", "A", 5, 20, "atk", "critDMG_:x"},
		{"plume", "B", 4, 16, "atk"},
	}
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	path := filepath.Join(t.TempDir(), "legacy.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	got, rep, err := catalog.LoadXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Loaded)
	require.Len(t, rep.Skipped, 3)
	assert.Contains(t, rep.Skipped[0].Error(), "Sheet1 row 3")
	assert.Equal(t, []domain.Attribute{{Key: "atk", Value: 19}, {Key: "critRate_", Value: 3.9}}, got[domain.Flower][0].Substats)
	assert.Equal(t, "B", got[domain.Plume][0].SetKey)
	assert.Nil(t, got[domain.Plume][0].Substats)
}

func TestLoadSQLiteItemWithoutSubstats(t *testing.T) {
	ctx := context.Background()
	var p domain.Pools
	p.Add(domain.Item{Slot: domain.Sands, SetKey: "A", Rarity: 5, Level: 20, MainStatKey: "atk_",
		Substats: []domain.Attribute{{Key: "critRate_", Value: 3.5}}})
	p.Add(domain.Item{Slot: domain.Sands, SetKey: "B", Rarity: 5, Level: 20, MainStatKey: "atk_"})
	path := filepath.Join(t.TempDir(), "inv.sqlite")
	require.NoError(t, catalog.WriteSQLite(ctx, path, &p))

	got, rep, err := catalog.LoadSQLite(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Loaded)
	assert.Equal(t, "A", got[domain.Sands][0].SetKey)
	assert.Nil(t, got[domain.Sands][1].Substats)
}

func TestLoadMissingFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, name := range []string{"missing.txt", "missing.json", "missing.xlsx", "missing.db"} {
		_, _, err := catalog.Load(ctx, filepath.Join(dir, name))
		assert.Error(t, err, name)
	}
}

func TestFromItems(t *testing.T) {
	pools, rep := catalog.FromItems("enka:123", []domain.Item{
		{Slot: domain.Goblet, SetKey: "x"},
		{Slot: domain.Goblet, SetKey: "y"},
	})
	assert.Equal(t, 2, rep.Loaded)
	assert.Equal(t, "enka:123", rep.Source)
	assert.Len(t, pools[domain.Goblet], 2)
}

func TestFormatSubstats(t *testing.T) {
	s := catalog.FormatSubstats([]domain.Attribute{{Key: "atk", Value: 19}, {Key: "critRate_", Value: 3.9}})
	assert.Equal(t, "atk:19 critRate_:3.9", s)
}
