// Package config loads docsync settings with koanf.
//
// Layers are applied in order, later layers winning key by key:
//
//  1. embedded defaults.toml
//  2. user config ($XDG_CONFIG_HOME/docsync/config.toml)
//  3. dataset config (.docsync.toml, .docsync.yaml)
//  4. an explicit --config file
//  5. DOCSYNC_* environment variables (DOCSYNC_LINKS__EXCLUDE for nested keys)
//  6. command line overrides
package config
