package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidServerConfigs indicates an unusable listen address, a
	// non-positive timeout or a negative rate limit.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidUpstreamConfigs indicates a missing or non-http(s) upstream
	// URL, or a non-positive upstream timeout.
	ErrInvalidUpstreamConfigs = errors.New("invalid upstream configuration")
	// ErrInvalidInjectConfigs indicates a bad allowlist, marker, global name
	// or token limit.
	ErrInvalidInjectConfigs = errors.New("invalid inject configuration")
	// ErrInvalidLogConfigs indicates an unknown log level.
	ErrInvalidLogConfigs = errors.New("invalid log configuration")
)
