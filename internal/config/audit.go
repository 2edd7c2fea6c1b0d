package config

import (
	"fmt"

	"github.com/JaimeStill/warden/pkg/env"
)

// AuditConfig sizes the asynchronous audit recorder.
type AuditConfig struct {
	BufferSize int `toml:"buffer_size"`
	// Actor is recorded when a request carries no X-Actor header.
	Actor string `toml:"actor"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AuditConfig) Finalize() error {
	if c.BufferSize == 0 {
		c.BufferSize = 256
	}
	defaultString(&c.Actor, "system")

	env.Int(&c.BufferSize, "WARDEN_AUDIT_BUFFER_SIZE")
	env.String(&c.Actor, "WARDEN_AUDIT_ACTOR")

	if c.BufferSize < 1 {
		return fmt.Errorf("buffer_size must be positive")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *AuditConfig) Merge(overlay *AuditConfig) {
	if overlay.BufferSize != 0 {
		c.BufferSize = overlay.BufferSize
	}
	mergeString(&c.Actor, overlay.Actor)
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled *bool  `toml:"enabled"`
	Path    string `toml:"path"`
}

// On reports whether the metrics endpoint is served. Unset means enabled,
// but an unfinalized config without a path serves nothing.
func (c *MetricsConfig) On() bool {
	if c.Path == "" {
		return false
	}
	return c.Enabled == nil || *c.Enabled
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *MetricsConfig) Finalize() error {
	defaultString(&c.Path, "/metrics")

	env.BoolPtr(&c.Enabled, "WARDEN_METRICS_ENABLED")
	env.String(&c.Path, "WARDEN_METRICS_PATH")

	if c.Path[0] != '/' {
		return fmt.Errorf("path must start with /: %s", c.Path)
	}
	return nil
}

// Merge overwrites fields set in overlay.
func (c *MetricsConfig) Merge(overlay *MetricsConfig) {
	if overlay.Enabled != nil {
		c.Enabled = overlay.Enabled
	}
	mergeString(&c.Path, overlay.Path)
}
