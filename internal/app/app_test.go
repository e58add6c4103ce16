package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/catalog"
	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"
)

const catalogText = `flower A 5 20 hp atk:10 critRate_:5
plume A 5 20 atk critDMG_:10
sands A 5 20 atk_ atk:5
goblet A 5 20 pyro_dmg_ critRate_:1
circlet A 5 20 critRate_ atk:1
circlet B 5 20 critDMG_ critRate_:3
`

type harness struct {
	dir    string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{dir: t.TempDir()}
	h.write(t, "artifacts.txt", catalogText)
	return h
}

func (h *harness) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (h *harness) run(t *testing.T, config, stdin string, mut func(*Options)) int {
	t.Helper()
	opts := Options{
		ConfigPath: h.write(t, "optimizer_config.yaml", config),
		Catalog:    filepath.Join(h.dir, "artifacts.txt"),
		Stdin:      strings.NewReader(stdin),
		Stdout:     &h.stdout,
		Stderr:     &h.stderr,
	}
	if mut != nil {
		mut(&opts)
	}
	return RunWithOptions(context.Background(), opts)
}

func TestRunDeclined(t *testing.T) {
	h := newHarness(t)
	code := h.run(t, "", "n\n", nil)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "Start search using Iterative? Y/N : Search not started\n", h.stdout.String())
}

func TestRunConfirmed(t *testing.T) {
	h := newHarness(t)
	code := h.run(t, "strategy: recursive\n", "Y\n", nil)
	require.Equal(t, ExitOK, code, h.stderr.String())

	out := h.stdout.String()
	assert.Contains(t, out, "Start search using Recursive? Y/N : Best Combination (Recursive):\n")
	assert.Contains(t, out, "circlet from set B with main stat critDMG_ (score 6)\n")
	assert.Contains(t, out, "Total score: 48\n")
	assert.Contains(t, out, "Combinations evaluated: 2\n")
	assert.Contains(t, out, "Execution time (Recursive): ")
	assert.Contains(t, h.stderr.String(), "catalog loaded")
	assert.Contains(t, h.stderr.String(), "run_id=")
}

func TestRunAllStrategies(t *testing.T) {
	h := newHarness(t)
	h.write(t, "artifacts.txt", strings.NewReplacer(" A ", " GladiatorsFinale ", " B ", " WanderersTroupe ").Replace(catalogText))
	code := h.run(t, "strategy: all\nconfirm: false\nchar: bennett\n", "", nil)
	require.Equal(t, ExitOK, code, h.stderr.String())

	out := h.stdout.String()
	assert.NotContains(t, out, "Y/N")
	assert.Contains(t, out, "All strategies agree.")
	assert.Contains(t, out, "Best Combination (Iterative):")
	assert.Contains(t, out, `bennett add set="gladiatorsfinale" count=4;`)
	assert.Contains(t, out, `bennett add set="wandererstroupe" count=1;`)
	assert.Contains(t, out, "bennett add stats atk=15 cr=0.09 cd=0.1;")
}

func TestRunWarnsOnSetsUnknownToGcsim(t *testing.T) {
	h := newHarness(t)
	code := h.run(t, "confirm: false\nchar: bennett\n", "", nil)
	require.Equal(t, ExitOK, code, h.stderr.String())

	assert.NotContains(t, h.stdout.String(), "add set=")
	assert.Contains(t, h.stdout.String(), "bennett add stats atk=15 cr=0.09 cd=0.1;")
	assert.Contains(t, h.stderr.String(), "unrecognized gcsim artifact set")
}

func TestRunEmptyPool(t *testing.T) {
	h := newHarness(t)
	h.write(t, "artifacts.txt", strings.ReplaceAll(catalogText, "goblet A 5 20 pyro_dmg_ critRate_:1\n", ""))
	code := h.run(t, "", "", func(o *Options) { o.AssumeYes = true })
	assert.Equal(t, ExitNoResult, code)
	assert.Equal(t, "Error (Iterative): no valid combinations found: no candidates for slot goblet\n", h.stdout.String())
}

func TestRunSkipsMalformedRecords(t *testing.T) {
	h := newHarness(t)
	h.write(t, "artifacts.txt", catalogText+"belt A 5 20 hp atk:1\n")
	code := h.run(t, "", "", func(o *Options) { o.AssumeYes = true })
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, h.stderr.String(), "record skipped")
	assert.Contains(t, h.stdout.String(), "Total score: 48\n")
}

func TestRunResolvesCatalogBesideDiscoveredConfig(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.MkdirAll(filepath.Join(h.dir, "data"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(h.dir, "cmd"), 0o755))
	h.write(t, filepath.Join("data", "artifacts.txt"), catalogText)
	h.write(t, "optimizer_config.yaml", "catalog: data/artifacts.txt\nconfirm: false\n")
	t.Chdir(filepath.Join(h.dir, "cmd"))

	code := RunWithOptions(context.Background(), Options{
		Stdin:  strings.NewReader(""),
		Stdout: &h.stdout,
		Stderr: &h.stderr,
	})
	require.Equal(t, ExitOK, code, h.stderr.String())
	assert.Contains(t, h.stdout.String(), "Total score: 48\n")
}

func TestRunErrors(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, ExitUsage, h.run(t, "strategy: greedy\n", "", nil))
	assert.Equal(t, ExitUsage, h.run(t, "unknown: 1\n", "", nil))
	assert.Equal(t, ExitUsage, h.run(t, "uid: \"12\"\n", "", nil))

	code := h.run(t, "", "", func(o *Options) {
		o.AssumeYes = true
		o.Catalog = filepath.Join(h.dir, "missing.txt")
	})
	assert.Equal(t, ExitNoResult, code)
	assert.Contains(t, h.stderr.String(), "missing.txt")
}

func TestRunFromEnka(t *testing.T) {
	payload := `{"avatarInfoList": [{"avatarId": 1, "equipList": [
	  {"itemId": 1, "reliquary": {"level": 21}, "flat": {"itemType": "ITEM_RELIQUARY", "equipType": "EQUIP_BRACER", "setNameTextMapHash": "h1", "rankLevel": 5,
	   "reliquaryMainstat": {"mainPropId": "FIGHT_PROP_HP"}, "reliquarySubstats": [{"appendPropId": "FIGHT_PROP_ATTACK", "statValue": 19}]}},
	  {"itemId": 2, "reliquary": {"level": 21}, "flat": {"itemType": "ITEM_RELIQUARY", "equipType": "EQUIP_NECKLACE", "setNameTextMapHash": "h1", "rankLevel": 5,
	   "reliquaryMainstat": {"mainPropId": "FIGHT_PROP_ATTACK"}, "reliquarySubstats": [{"appendPropId": "FIGHT_PROP_CRITICAL", "statValue": 3.5}]}},
	  {"itemId": 3, "reliquary": {"level": 21}, "flat": {"itemType": "ITEM_RELIQUARY", "equipType": "EQUIP_SHOES", "setNameTextMapHash": "h1", "rankLevel": 5,
	   "reliquaryMainstat": {"mainPropId": "FIGHT_PROP_ATTACK_PERCENT"}}},
	  {"itemId": 4, "reliquary": {"level": 21}, "flat": {"itemType": "ITEM_RELIQUARY", "equipType": "EQUIP_RING", "setNameTextMapHash": "h2", "rankLevel": 5,
	   "reliquaryMainstat": {"mainPropId": "FIGHT_PROP_FIRE_ADD_HURT"}}},
	  {"itemId": 5, "reliquary": {"level": 21}, "flat": {"itemType": "ITEM_RELIQUARY", "equipType": "EQUIP_DRESS", "setNameTextMapHash": "h2", "rankLevel": 5,
	   "reliquaryMainstat": {"mainPropId": "FIGHT_PROP_CRITICAL"}, "reliquarySubstats": [{"appendPropId": "FIGHT_PROP_CRITICAL_HURT", "statValue": 10}]}}
	]}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	h := newHarness(t)
	code := h.run(t, "uid: \"700000001\"\nconfirm: false\nenka_set_names:\n  h1: GladiatorsFinale\n", "", func(o *Options) {
		o.EnkaBaseURL = srv.URL
	})
	require.Equal(t, ExitOK, code, h.stderr.String())
	assert.Contains(t, h.stdout.String(), "flower from set GladiatorsFinale with main stat hp (score 19)")
	assert.Contains(t, h.stdout.String(), "goblet from set h2 with main stat pyro_dmg_ (score 0)")
	assert.Contains(t, h.stdout.String(), "Total score: 41\n")
	assert.Contains(t, h.stderr.String(), "source=enka:700000001")
	assert.Equal(t, 1, strings.Count(h.stderr.String(), "not in enka_set_names"))
	assert.NotContains(t, h.stderr.String(), "record skipped")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Y\n", true},
		{"y", true},
		{"  y  \n", true},
		{"yes\n", false},
		{"N\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		assert.Equal(t, tt.want, Confirm(strings.NewReader(tt.in), &out, "Iterative"), "input %q", tt.in)
		assert.True(t, strings.HasPrefix(out.String(), "Start search using Iterative? Y/N : "))
	}
}

func TestConvert(t *testing.T) {
	h := newHarness(t)
	src := filepath.Join(h.dir, "artifacts.txt")
	ctx := context.Background()

	for _, name := range []string{"out.xlsx", "out.db"} {
		dest := filepath.Join(h.dir, name)
		code := Convert(ctx, ConvertOptions{Source: src, Dest: dest, Stdout: &h.stdout, Stderr: &h.stderr})
		require.Equal(t, ExitOK, code, h.stderr.String())

		pools, rep, err := catalog.Load(ctx, dest)
		require.NoError(t, err)
		assert.Equal(t, 6, rep.Loaded)
		assert.Equal(t, []int{1, 1, 1, 1, 2}, pools.Sizes())
		assert.Equal(t, "B", pools[domain.Circlet][1].SetKey)
	}
	assert.Contains(t, h.stdout.String(), "Wrote 6 artifact(s)")

	code := Convert(ctx, ConvertOptions{Source: src, Dest: filepath.Join(h.dir, "out.csv"), Stdout: &h.stdout, Stderr: &h.stderr})
	assert.Equal(t, ExitUsage, code)
}

func TestExitError(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ExitOK, exitCode(&buf, nil))
	assert.Equal(t, ExitNoResult, exitCode(&buf, Exit(ExitNoResult)))
	assert.Empty(t, buf.String())
	assert.Equal(t, ExitUsage, exitCode(&buf, ExitWithError(ExitUsage, assert.AnError)))
	assert.Contains(t, buf.String(), assert.AnError.Error())
}
