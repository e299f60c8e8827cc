// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/runtime-env-edge/internal/runtimeenv"
)

// Defaults applied to fields that no source has set.
const (
	DefaultHTTPAddress     = ":8080"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultUpstreamTimeout = 30 * time.Second
	DefaultLogLevel        = "info"
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = DefaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if len(cfg.Inject.Allowlist) == 0 {
		cfg.Inject.Allowlist = slices.Clone(runtimeenv.DefaultAllowlistKeys)
	}
	if cfg.Inject.Marker == "" {
		cfg.Inject.Marker = runtimeenv.DefaultMarker
	}
	if cfg.Inject.GlobalName == "" {
		cfg.Inject.GlobalName = runtimeenv.DefaultGlobalName
	}
	if cfg.Inject.MaxTokenBytes == 0 {
		cfg.Inject.MaxTokenBytes = runtimeenv.DefaultMaxTokenBytes
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

// validate checks that the final merged [StructuredConfig] is usable before
// the edge starts. Every failing group is reported, each wrapping its
// sentinel error.
func (cfg *StructuredConfig) validate() error {
	return errors.Join(
		cfg.Server.validate(),
		cfg.Upstream.validate(),
		cfg.Inject.validate(),
		cfg.Log.validate(),
	)
}

func (s Server) validate() error {
	if _, _, err := net.SplitHostPort(s.HTTPAddress); err != nil {
		return fmt.Errorf("%w: address %q: %w", ErrInvalidServerConfigs, s.HTTPAddress, err)
	}
	if s.RequestTimeout <= 0 || s.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidServerConfigs)
	}
	if s.RateLimitRPS < 0 {
		return fmt.Errorf("%w: rate limit must not be negative", ErrInvalidServerConfigs)
	}
	return nil
}

func (u Upstream) validate() error {
	if u.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidUpstreamConfigs)
	}

	parsed, err := url.Parse(u.URL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUpstreamConfigs, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: url %q must be an absolute http(s) URL", ErrInvalidUpstreamConfigs, u.URL)
	}

	if u.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidUpstreamConfigs)
	}
	return nil
}

func (i Inject) validate() error {
	if _, err := runtimeenv.NewAllowlist(i.Allowlist...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInjectConfigs, err)
	}
	if i.Marker == "" {
		return fmt.Errorf("%w: marker is required", ErrInvalidInjectConfigs)
	}
	if err := runtimeenv.ValidateGlobalName(i.GlobalName); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInjectConfigs, err)
	}
	if i.MaxTokenBytes <= 0 {
		return fmt.Errorf("%w: max token bytes must be positive", ErrInvalidInjectConfigs)
	}
	return nil
}

func (l Log) validate() error {
	if _, err := zerolog.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogConfigs, err)
	}
	return nil
}
