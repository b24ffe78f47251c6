package config

import (
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/types"
)

const configHeader = "# docsync dataset configuration\n# Uncomment a value to override the default.\n\n"

// ToMap returns cfg as plain values keyed like the config files, with
// durations written as strings.
func (c *Config) ToMap() map[string]interface{} {
	folders := make(map[string]interface{}, len(c.FolderBehavior))
	for k, v := range c.FolderBehavior {
		folders[k] = string(v)
	}

	delays := make([]string, len(c.RetryDelay))
	for i, d := range c.RetryDelay {
		delays[i] = durationString(d)
	}

	m := map[string]interface{}{
		"default_behavior":    string(c.DefaultBehavior),
		"folder_behavior":     folders,
		"concurrency_limit":   c.ConcurrencyLimit,
		"retry_attempts":      c.RetryAttempts,
		"retry_delay":         delays,
		"flatten":             c.Flatten,
		"prefix":              c.Prefix,
		"dry_run":             c.DryRun,
		"source_content_root": c.SourceContentRoot,
		"links": map[string]interface{}{
			"docs_folders": c.Links.DocsFolders,
			"exclude":      c.Links.Exclude,
		},
		"download": map[string]interface{}{
			"check_space": c.Download.CheckSpace,
			"s3_profile":  c.Download.S3Profile,
			"s3_region":   c.Download.S3Region,
		},
	}
	if len(c.Targets) > 0 {
		m["targets"] = targetsToMaps(c.Targets)
	}
	return m
}

func targetsToMaps(targets []types.TargetConfig) []map[string]interface{} {
	out := make([]map[string]interface{}, len(targets))
	for i, t := range targets {
		entry := map[string]interface{}{
			"path": t.Path,
			"mode": string(t.Mode),
		}
		if t.Transform != nil {
			entry["transform"] = map[string]interface{}{
				"flatten": t.Transform.Flatten,
				"prefix":  t.Transform.Prefix,
			}
		}
		out[i] = entry
	}
	return out
}

// durationString drops the zero units time.Duration.String keeps, so 1s
// renders as "1s" and 90s as "1m30s".
func durationString(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}

// Render encodes cfg as yaml or toml.
func Render(cfg *Config, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		out, err := yaml.Marshal(cfg.ToMap())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode yaml")
		}
		return out, nil
	case "toml":
		out, err := toml.Marshal(cfg.ToMap())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode toml")
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format %q", format)
	}
}

// GenerateConfigContent returns a starter dataset config: the defaults
// rendered as toml with every value commented out.
func GenerateConfigContent() (string, error) {
	out, err := Render(Default(), "toml")
	if err != nil {
		return "", err
	}
	return configHeader + commentOutConfigValues(string(out)), nil
}

// commentOutConfigValues comments out every assignment line, keeping
// blank lines, comments and section headers as they are.
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
