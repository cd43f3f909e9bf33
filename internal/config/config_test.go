package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":9090", cfg.GRPCAddr)
	assert.Equal(t, FeedNone, cfg.Feed.Source)
	assert.Equal(t, "banners", cfg.Feed.Collection)
	assert.Equal(t, "@every 10m", cfg.Feed.Refresh)
	assert.Equal(t, 15*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, PaceConfig{PatsPerDay: 5, GiftsPerMonth: 50}, cfg.Pace)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bacalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":7000"
data:
  dir: "/srv/bacalc"
  watch_interval: 2s
feed:
  source: Firestore
  project_id: from-file
pace:
  pats_per_day: 3
`), 0o644))

	t.Setenv("BACALC_FEED_PROJECT_ID", "from-env")
	t.Setenv("BACALC_LOG_LEVEL", "debug")

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, "/srv/bacalc", cfg.Data.Dir)
	assert.Equal(t, 2*time.Second, cfg.Data.WatchInterval)
	assert.Equal(t, FeedFirestore, cfg.Feed.Source)
	assert.Equal(t, "from-env", cfg.Feed.ProjectID)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Pace.PatsPerDay)
	assert.Equal(t, 50, cfg.Pace.GiftsPerMonth)
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{Feed: FeedConfig{Source: FeedFirestore, Refresh: "@hourly"}}
	assert.ErrorContains(t, cfg.Validate(), "project_id")

	cfg = Config{Feed: FeedConfig{Source: FeedFile, Refresh: "@hourly"}}
	assert.ErrorContains(t, cfg.Validate(), "feed.file")

	cfg = Config{Feed: FeedConfig{Source: "kafka"}}
	assert.ErrorContains(t, cfg.Validate(), "kafka")

	cfg = Config{Feed: FeedConfig{Source: FeedNone}, Pace: PaceConfig{PatsPerDay: -1}}
	assert.ErrorContains(t, cfg.Validate(), "pace")

	cfg = Config{Feed: FeedConfig{Source: FeedFile, File: "b.yaml", Refresh: "@every 1m"}}
	assert.NoError(t, cfg.Validate())
}
