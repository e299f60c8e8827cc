// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package runtimeenv

import "errors"

var (
	// ErrEmptyAllowlist is returned by [NewAllowlist] when no keys are given.
	ErrEmptyAllowlist = errors.New("allowlist is empty")
	// ErrInvalidKey is returned by [NewAllowlist] for a key that is not a
	// plain ASCII identifier.
	ErrInvalidKey = errors.New("invalid allowlist key")
	// ErrInvalidGlobalName is returned by [ValidateGlobalName] for a name
	// that cannot be used as a JavaScript property identifier.
	ErrInvalidGlobalName = errors.New("invalid global name")
)
