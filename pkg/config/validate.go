package config

import (
	"runtime"

	"github.com/arthur-debert/docsync/pkg/behavior"
	"github.com/arthur-debert/docsync/pkg/errors"
)

// Validate checks values the decoder cannot: ranges, the folder
// behavior map and the distribution targets.
func Validate(cfg *Config) error {
	if !cfg.DefaultBehavior.IsValid() {
		return errors.Newf(errors.ErrConfigInvalid, "invalid default behavior %q", cfg.DefaultBehavior)
	}
	if cfg.ConcurrencyLimit < 1 {
		return errors.Newf(errors.ErrConfigInvalid, "concurrency_limit must be at least 1, got %d", cfg.ConcurrencyLimit).
			WithDetail("key", "concurrency_limit")
	}
	if cfg.RetryAttempts < 0 {
		return errors.Newf(errors.ErrConfigInvalid, "retry_attempts cannot be negative, got %d", cfg.RetryAttempts).
			WithDetail("key", "retry_attempts")
	}
	for _, d := range cfg.RetryDelay {
		if d <= 0 {
			return errors.Newf(errors.ErrConfigInvalid, "retry_delay entries must be positive, got %s", d).
				WithDetail("key", "retry_delay")
		}
	}
	if err := behavior.ValidateMap(cfg.FolderBehavior); err != nil {
		return err
	}
	return behavior.ValidateTargets(cfg.Targets, runtime.GOOS)
}
