package config

import (
	"time"

	"github.com/arthur-debert/docsync/pkg/types"
)

// Config is the effective docsync configuration.
type Config struct {
	types.Options `koanf:",squash" yaml:",inline"`

	Links    LinksConfig    `koanf:"links" yaml:"links" toml:"links"`
	Download DownloadConfig `koanf:"download" yaml:"download" toml:"download"`
}

// LinksConfig drives the dataset-wide normalization pass.
type LinksConfig struct {
	// DocsFolders are top level folders whose name may start a link
	// written relative to the dataset root.
	DocsFolders []string `koanf:"docs_folders" yaml:"docs_folders" toml:"docs_folders"`
	Exclude     []string `koanf:"exclude" yaml:"exclude" toml:"exclude"`
}

// DownloadConfig configures remote fetches.
type DownloadConfig struct {
	CheckSpace bool   `koanf:"check_space" yaml:"check_space" toml:"check_space"`
	S3Profile  string `koanf:"s3_profile" yaml:"s3_profile,omitempty" toml:"s3_profile,omitempty"`
	S3Region   string `koanf:"s3_region" yaml:"s3_region,omitempty" toml:"s3_region,omitempty"`
}

// Default returns the configuration described by the embedded defaults.
func Default() *Config {
	return &Config{
		Options: types.DefaultOptions(),
		Links: LinksConfig{
			DocsFolders: []string{"docs"},
			Exclude:     []string{"node_modules/**", "vendor/**"},
		},
		Download: DownloadConfig{CheckSpace: true},
	}
}

// RetryDelays returns the configured schedule, falling back to the
// default one when empty.
func (c *Config) RetryDelays() []time.Duration {
	if len(c.RetryDelay) == 0 {
		return types.DefaultOptions().RetryDelay
	}
	return c.RetryDelay
}
