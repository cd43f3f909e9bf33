package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/ba-companion/internal/banner"
	"github.com/xtding233/ba-companion/internal/calc"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--loglevel", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBondCommand(t *testing.T) {
	out, err := run(t, "bond", "--from", "1", "--to", "100", "--json")
	require.NoError(t, err)

	var rep calc.BondReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 240225, rep.TotalExp)
	assert.Equal(t, 44, rep.Estimate.Months)

	out, err = run(t, "bond", "--from", "1", "--to", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Bond 1 -> 2: 15 EXP")
	assert.Contains(t, out, "less than a month")

	_, err = run(t, "bond", "--from", "10", "--to", "3")
	assert.ErrorIs(t, err, calc.ErrRange)
}

func TestCharaCommand(t *testing.T) {
	out, err := run(t, "chara", "--from", "1", "--to", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Level 1 -> 2: 10 EXP")
	assert.Contains(t, out, "Credits needed: 70")

	out, err = run(t, "chara", "--from", "1", "--to", "90", "--pink", "50", "--grey", "3", "--json")
	require.NoError(t, err)
	var res calc.CharacterResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 500150, res.AvailableExp)
	assert.Equal(t, 505115, res.ExpNeededAfterInventory)
}

func TestPromoCommand(t *testing.T) {
	out, err := run(t, "promo", "--from", "4", "--to", "5", "--weapon", "2", "--json")
	require.NoError(t, err)
	var res calc.PromotionResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 420, res.NeededFragments)
	assert.Equal(t, 400, res.TotalEligma)
	assert.Equal(t, 600, res.TotalCost)
}

func TestBannersCommand(t *testing.T) {
	_, err := run(t, "banners")
	assert.ErrorIs(t, err, errNoFeed)

	dir := t.TempDir()
	feedPath := filepath.Join(dir, "banners.yaml")
	require.NoError(t, os.WriteFile(feedPath, []byte(`banners:
  - id: "live"
    startDate: "2024-01-01"
    endDate: "2099-01-01"
    type: "Fes"
    characters: [{id: "1", name: "Hoshino", rarity: 3}]
  - id: "over"
    startDate: "2020-01-01"
    endDate: "2020-02-01"
    type: "New"
`), 0o644))
	cfgPath := filepath.Join(dir, "bacalc.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("feed:\n  source: file\n  file: "+feedPath+"\n"), 0o644))

	out, err := run(t, "banners", "--config", cfgPath, "--json")
	require.NoError(t, err)
	var list []banner.Banner
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "live", list[0].ID)

	out, err = run(t, "banners", "--config", cfgPath, "--type", "New")
	require.NoError(t, err)
	assert.Contains(t, out, "No active banners.")
}

func TestDataDirOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "promotion.yaml"), []byte(`promotion:
  eligma:
    batch_size: 10
    prices: [1, 2, 3, 4, 5]
`), 0o644))

	out, err := run(t, "promo", "--from", "1", "--to", "2", "--json", "--data-dir", dir)
	require.NoError(t, err)
	var res calc.PromotionResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	// 30 fragments in batches of 10: 10*1 + 10*2 + 10*3
	assert.Equal(t, 60, res.TotalEligma)
}
