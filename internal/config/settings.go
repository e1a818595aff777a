package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is looked up in the working directory when no
// explicit config path is given.
const SettingsFileName = "marmoset.yaml"

// Settings are the tunable runtime limits and diagnostics switches.
// Zero values mean "use the built-in default".
type Settings struct {
	StackSize   int  `yaml:"stack_size"`
	MaxFrames   int  `yaml:"max_frames"`
	GlobalsSize int  `yaml:"globals_size"`
	Trace       bool `yaml:"trace"`
	Verbosity   int  `yaml:"verbosity"`
}

// LoadSettings reads settings from a YAML file. Unknown keys are
// rejected so typos surface instead of silently falling back.
func LoadSettings(path string) (Settings, error) {
	var s Settings

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading settings: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return s, fmt.Errorf("parsing %s: %w", path, err)
	}

	if s.StackSize < 0 || s.MaxFrames < 0 || s.GlobalsSize < 0 {
		return s, fmt.Errorf("parsing %s: limits must not be negative", path)
	}
	return s, nil
}

// LoadSettingsIfPresent reads the default settings file from the
// working directory, returning zero settings when it does not exist.
func LoadSettingsIfPresent() (Settings, error) {
	if _, err := os.Stat(SettingsFileName); os.IsNotExist(err) {
		return Settings{}, nil
	}
	return LoadSettings(SettingsFileName)
}
