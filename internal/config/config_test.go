package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), cfg.Tuning)
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexiz.yaml")
	body := `
log:
  level: debug
tuning:
  scheduler:
    intervals: [1, 2, 5]
    multipliers:
      easy: 1.5
      medium: 1.0
      hard: 0.8
      very_hard: 0.6
  session:
    max_dialogues: 1
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []int{1, 2, 5}, cfg.Tuning.Scheduler.Intervals)
	assert.Equal(t, 1.5, cfg.Tuning.Scheduler.Multipliers["easy"])
	assert.Equal(t, 1, cfg.Tuning.Session.MaxDialogues)

	// Untouched sections keep their defaults.
	assert.Equal(t, 2.5, cfg.Tuning.Scheduler.InitialEase)
	assert.Equal(t, 15, cfg.Tuning.Session.ReviewSeconds)
	assert.Len(t, cfg.Tuning.Estimator.Bands, 6)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LEXIZ_LOG_LEVEL", "warn")
	t.Setenv("LEXIZ_DB", "/tmp/lexiz-test.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/lexiz-test.db", cfg.Store.Path)
}

func TestLoadRejectsInvalidTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	body := `
tuning:
  scheduler:
    intervals: [7, 3]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ascending")
}

func TestTuningValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tuning)
		want   string
	}{
		{"missing multiplier", func(tu *Tuning) { delete(tu.Scheduler.Multipliers, "hard") }, `missing "hard"`},
		{"ease bounds", func(tu *Tuning) { tu.Scheduler.MinEase = 3.5 }, "ease bounds"},
		{"band overlap", func(tu *Tuning) { tu.Estimator.Bands[1].Min = 20 }, "overlaps"},
		{"bad band level", func(tu *Tuning) { tu.Estimator.Bands[0].Level = "Z1" }, "unknown CEFR level"},
		{"window", func(tu *Tuning) { tu.Selector.Window = 0 }, "selector.window"},
		{"profile weight", func(tu *Tuning) { tu.Session.ProfileWeight = 0 }, "profile_weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tu := DefaultTuning()
			tt.mutate(&tu)
			err := tu.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexiz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func(c *Config) {
			select {
			case got <- c:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o644))

	select {
	case c := <-got:
		assert.Equal(t, "error", c.Log.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	require.NoError(t, <-done)
}
