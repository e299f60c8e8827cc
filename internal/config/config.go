// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the edge
// server. It is populated by merging values from environment variables,
// command-line flags and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Server holds the listen address and timeouts of the inbound HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Upstream describes the origin whose responses are rewritten.
	Upstream Upstream `envPrefix:"UPSTREAM_"`

	// Inject controls which values are exposed to the browser and how the
	// script element is rendered.
	Inject Inject `envPrefix:"INJECT_"`

	// Log holds logging settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address the edge listens on, "host:port" or
	// ":port". Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds reading a whole inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown after a stop signal.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// RateLimitRPS is the per-client-IP request budget per second.
	// Zero disables rate limiting. Env: SERVER_RATE_LIMIT_RPS
	RateLimitRPS int `env:"RATE_LIMIT_RPS"`
}

// Upstream holds the origin settings.
type Upstream struct {
	// URL is the absolute http(s) URL of the origin. Env: UPSTREAM_URL
	URL string `env:"URL"`

	// Timeout is how long to wait for the origin's response headers.
	// Env: UPSTREAM_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Inject holds the runtime-env injection settings.
type Inject struct {
	// Disabled turns the edge into a plain reverse proxy. Env: INJECT_DISABLED
	Disabled bool `env:"DISABLED"`

	// Allowlist names the environment variables exposed to the browser.
	// Env: INJECT_ALLOWLIST (comma separated)
	Allowlist []string `env:"ALLOWLIST" envSeparator:","`

	// Marker is the value of the data-runtime-env attribute. Env: INJECT_MARKER
	Marker string `env:"MARKER"`

	// GlobalName is the browser global the values are merged into.
	// Env: INJECT_GLOBAL_NAME
	GlobalName string `env:"GLOBAL_NAME"`

	// MaxTokenBytes caps a single buffered HTML token before the rewriter
	// gives up and passes the rest through. Env: INJECT_MAX_TOKEN_BYTES
	MaxTokenBytes int `env:"MAX_TOKEN_BYTES"`
}

// Log holds logging settings.
type Log struct {
	// Level is a zerolog level name ("debug", "info", ...). Env: LOG_LEVEL
	Level string `env:"LEVEL"`
}

// GetStructuredConfig loads, merges, and validates the edge configuration
// from all available sources in the following priority order (last source
// wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags parsed from args
//  3. JSON file (path resolved from sources 1 and 2)
//
// Defaults are applied to fields left empty by every source.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
