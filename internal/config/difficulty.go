package config

import (
	"slices"
	"strings"
)

// Preset is a named difficulty level.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
)

// ParsePreset normalizes a user-supplied preset name.
func ParsePreset(s string) Preset {
	return Preset(strings.ToLower(strings.TrimSpace(s)))
}

// PresetNames returns the configured presets ordered from slowest to fastest.
func (c Config) PresetNames() []Preset {
	names := make([]Preset, 0, len(c.Difficulty.Presets))
	for name := range c.Difficulty.Presets {
		names = append(names, Preset(name))
	}
	slices.SortFunc(names, func(a, b Preset) int {
		da, db := c.Difficulty.Presets[string(a)], c.Difficulty.Presets[string(b)]
		if da != db {
			return db - da
		}
		return strings.Compare(string(a), string(b))
	})
	return names
}

// NextPreset returns the preset after p, wrapping around.
// An unknown p yields the first preset.
func (c Config) NextPreset(p Preset) Preset {
	names := c.PresetNames()
	if len(names) == 0 {
		return p
	}
	i := slices.Index(names, p)
	return names[(i+1)%len(names)]
}

// PrevPreset returns the preset before p, wrapping around.
func (c Config) PrevPreset(p Preset) Preset {
	names := c.PresetNames()
	if len(names) == 0 {
		return p
	}
	i := slices.Index(names, p)
	if i <= 0 {
		return names[len(names)-1]
	}
	return names[i-1]
}
