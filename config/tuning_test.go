package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTuning(t *testing.T) {
	tun := DefaultTuning()
	assert.Equal(t, int32(21), tun.InitialAspiration)
	assert.Equal(t, int32(2), tun.NullMoveBaseReduction)
	assert.Equal(t, int32(3), tun.LMRDepthLimit)
}

func TestLoadTuningEmptyPathUsesDefaults(t *testing.T) {
	tun, err := LoadTuning("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tun)
}

func TestLoadTuningPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.toml")
	require.NoError(t, os.WriteFile(path, []byte("initial_aspiration_window = 35\nfutility_margin = 200\n"), 0o644))

	tun, err := LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, int32(35), tun.InitialAspiration)
	assert.Equal(t, int32(200), tun.FutilityMargin)
	// Unmentioned fields keep their defaults.
	assert.Equal(t, DefaultTuning().NullMoveBaseReduction, tun.NullMoveBaseReduction)
}

func TestLoadTuningMissingFile(t *testing.T) {
	_, err := LoadTuning(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
