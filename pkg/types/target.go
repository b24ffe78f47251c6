package types

import (
	"fmt"
	"strings"
)

// TargetMode describes how a distribution target receives content.
type TargetMode string

const (
	// TargetCanonical receives the real copy other targets derive from.
	TargetCanonical TargetMode = "canonical"
	// TargetSymlink points at the canonical target.
	TargetSymlink TargetMode = "symlink"
	// TargetCopy receives an independent copy of the canonical content.
	TargetCopy TargetMode = "copy"
)

// IsValid returns true if the mode is recognized.
func (m TargetMode) IsValid() bool {
	switch m {
	case TargetCanonical, TargetSymlink, TargetCopy:
		return true
	default:
		return false
	}
}

func (m TargetMode) String() string {
	return string(m)
}

// ParseTargetMode converts a case-insensitive name into a TargetMode.
func ParseTargetMode(s string) (TargetMode, error) {
	m := TargetMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("invalid target mode: %q. Must be 'canonical', 'symlink', or 'copy'", s)
	}
	return m, nil
}

// MarshalText implements encoding.TextMarshaler.
func (m TargetMode) MarshalText() ([]byte, error) {
	return []byte(m), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *TargetMode) UnmarshalText(text []byte) error {
	parsed, err := ParseTargetMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Transform requests a naming transform applied to directory paths.
type Transform struct {
	Flatten bool   `koanf:"flatten" yaml:"flatten" toml:"flatten"`
	Prefix  string `koanf:"prefix" yaml:"prefix,omitempty" toml:"prefix,omitempty"`
}

// IsZero reports whether the transform is a no-op.
func (t Transform) IsZero() bool {
	return !t.Flatten && t.Prefix == ""
}

// TargetConfig is one entry of a multi-target distribution.
type TargetConfig struct {
	Path      string     `koanf:"path" yaml:"path" toml:"path"`
	Mode      TargetMode `koanf:"mode" yaml:"mode" toml:"mode"`
	Transform *Transform `koanf:"transform" yaml:"transform,omitempty" toml:"transform,omitempty"`
}

// PathMappingEntry records where the files of one original directory
// ended up after a transform pass.
type PathMappingEntry struct {
	OriginalDir string
	NewDir      string
	Files       []string
}
