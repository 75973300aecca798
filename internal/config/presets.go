package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

var (
	ErrPresetName      = errors.New("preset name is required")
	ErrDuplicatePreset = errors.New("duplicate preset name")
)

// PresetConfig is one [[preset]] table from the presets file. Charset and
// FirstChar accept "alphanumeric", "extended" or "custom"; "custom" draws
// from CustomChars, which must then be non-empty. FirstChar may also be
// empty to draw position 0 from the main charset. Separator is a single
// character.
type PresetConfig struct {
	Name        string   `toml:"name"`
	Length      int      `toml:"length"`
	Charset     string   `toml:"charset"`
	CustomChars string   `toml:"custom_chars"`
	SegmentSize int      `toml:"segment_size"`
	Separator   string   `toml:"separator"`
	FirstChar   string   `toml:"first_char"`
	Rules       []string `toml:"rules"`
	SymbolChars string   `toml:"symbol_chars"`
	MaxAttempts int      `toml:"max_attempts"` // Optional: falls back to MAX_ATTEMPTS
}

// PresetFile is the top-level layout of the presets TOML file.
type PresetFile struct {
	Presets []PresetConfig `toml:"preset"`
}

// LoadPresets reads named presets from a TOML file.
func LoadPresets(path string) ([]PresetConfig, error) {
	var file PresetFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Presets))
	for i, p := range file.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d: %w", i, ErrPresetName)
		}
		if _, ok := seen[p.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePreset, p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	return file.Presets, nil
}
