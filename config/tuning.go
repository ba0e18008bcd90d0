// Package config loads the engine's numeric search tuning constants
// (check extension, null-move limit and reduction, late-move-reduction
// and futility depth limits, futility margins, aspiration window) with
// defaults recorded here, loadable from an optional TOML file. The
// amount a late move is reduced by, and the move count from which
// reduction starts, are fixed in the search and not configurable.
package config

import (
	"github.com/BurntSushi/toml"
)

// Tuning holds the numeric constants the search treats as adjustable.
// FutilityMargin is loaded and stored, but no search step reads it.
type Tuning struct {
	CheckDepthExtension   int32 `toml:"check_depth_extension"`
	NullMoveDepthLimit    int32 `toml:"null_move_depth_limit"`
	NullMoveBaseReduction int32 `toml:"null_move_base_reduction"`
	LMRDepthLimit         int32 `toml:"lmr_depth_limit"`
	FutilityDepthLimit    int32 `toml:"futility_depth_limit"`
	FutilityMargin        int32 `toml:"futility_margin"`
	ReverseFutilityMargin int32 `toml:"reverse_futility_margin"`
	InitialAspiration     int32 `toml:"initial_aspiration_window"`
}

// DefaultTuning returns the compiled-in defaults.
func DefaultTuning() Tuning {
	return Tuning{
		CheckDepthExtension:   1,
		NullMoveDepthLimit:    1,
		NullMoveBaseReduction: 2,
		LMRDepthLimit:         3,
		FutilityDepthLimit:    3,
		FutilityMargin:        150,
		ReverseFutilityMargin: 120,
		InitialAspiration:     21,
	}
}

// LoadTuning reads tuning overrides from a TOML file, starting from
// DefaultTuning so a file only needs to mention the fields it changes.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	_, err := toml.DecodeFile(path, &t)
	if err != nil {
		return Tuning{}, err
	}
	return t, nil
}
