package types

import "time"

// DefaultConcurrencyLimit is the window size used by the link batch processor.
const DefaultConcurrencyLimit = 10

// DefaultRetryAttempts is the retry budget for downloads.
const DefaultRetryAttempts = 3

// Options configures a copy, move or distribute operation.
type Options struct {
	DefaultBehavior  Behavior          `koanf:"default_behavior" yaml:"default_behavior" toml:"default_behavior"`
	FolderBehavior   FolderBehaviorMap `koanf:"folder_behavior" yaml:"folder_behavior,omitempty" toml:"folder_behavior,omitempty"`
	ConcurrencyLimit int               `koanf:"concurrency_limit" yaml:"concurrency_limit" toml:"concurrency_limit"`
	RetryAttempts    int               `koanf:"retry_attempts" yaml:"retry_attempts" toml:"retry_attempts"`
	RetryDelay       []time.Duration   `koanf:"retry_delay" yaml:"retry_delay,omitempty" toml:"retry_delay,omitempty"`
	Flatten          bool              `koanf:"flatten" yaml:"flatten" toml:"flatten"`
	Prefix           string            `koanf:"prefix" yaml:"prefix,omitempty" toml:"prefix,omitempty"`
	Targets          []TargetConfig    `koanf:"targets" yaml:"targets,omitempty" toml:"targets,omitempty"`

	// SourceContentRoot is a dataset-relative directory whose subtree is
	// re-rooted under the destination when links are rewritten. Naming
	// transforms only rename paths below it when it is the source itself.
	SourceContentRoot string `koanf:"source_content_root" yaml:"source_content_root,omitempty" toml:"source_content_root,omitempty"`

	DryRun bool `koanf:"dry_run" yaml:"dry_run" toml:"dry_run"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		DefaultBehavior:  BehaviorOverwrite,
		FolderBehavior:   FolderBehaviorMap{},
		ConcurrencyLimit: DefaultConcurrencyLimit,
		RetryAttempts:    DefaultRetryAttempts,
		RetryDelay:       []time.Duration{time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// Transform returns the naming transform requested by the options.
func (o Options) Transform() Transform {
	return Transform{Flatten: o.Flatten, Prefix: o.Prefix}
}

// Concurrency returns the effective batch window size.
func (o Options) Concurrency() int {
	if o.ConcurrencyLimit <= 0 {
		return DefaultConcurrencyLimit
	}
	return o.ConcurrencyLimit
}
