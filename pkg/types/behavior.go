package types

import (
	"fmt"
	"strings"
)

// Behavior defines how pre-existing destination content is treated.
type Behavior string

const (
	// BehaviorOverwrite replaces existing destination entries.
	BehaviorOverwrite Behavior = "overwrite"
	// BehaviorAdd only writes entries missing from the destination.
	BehaviorAdd Behavior = "add"
	// BehaviorMirror makes the destination match the source exactly,
	// deleting destination-only entries.
	BehaviorMirror Behavior = "mirror"
	// BehaviorSkip leaves the path untouched.
	BehaviorSkip Behavior = "skip"
)

// AllBehaviors returns all supported behaviors.
func AllBehaviors() []Behavior {
	return []Behavior{BehaviorOverwrite, BehaviorAdd, BehaviorMirror, BehaviorSkip}
}

// IsValid returns true if the behavior is recognized.
func (b Behavior) IsValid() bool {
	switch b {
	case BehaviorOverwrite, BehaviorAdd, BehaviorMirror, BehaviorSkip:
		return true
	default:
		return false
	}
}

func (b Behavior) String() string {
	return string(b)
}

// ParseBehavior converts a case-insensitive name into a Behavior.
func ParseBehavior(s string) (Behavior, error) {
	b := Behavior(strings.ToLower(strings.TrimSpace(s)))
	if !b.IsValid() {
		return "", fmt.Errorf("invalid behavior: %q. Must be 'overwrite', 'add', 'mirror', or 'skip'", s)
	}
	return b, nil
}

// MarshalText implements encoding.TextMarshaler.
func (b Behavior) MarshalText() ([]byte, error) {
	return []byte(b), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Behavior) UnmarshalText(text []byte) error {
	parsed, err := ParseBehavior(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// FolderBehaviorMap maps normalized relative paths to their behavior.
// The empty key addresses the root.
type FolderBehaviorMap map[string]Behavior
