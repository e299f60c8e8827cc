package runtimeenv

import (
	"fmt"
	"regexp"
	"slices"
)

// DefaultAllowlistKeys are the keys exposed to the browser when the deploy
// configuration does not name any.
var DefaultAllowlistKeys = []string{"SUPABASE_URL", "SUPABASE_ANON_KEY"}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Allowlist is the ordered, immutable set of configuration keys that may
// cross the server/client boundary. The zero value allows nothing.
type Allowlist struct {
	keys []string
}

// NewAllowlist validates keys and builds an [Allowlist] from them.
//
// Every key must be a plain ASCII identifier. Duplicates are collapsed,
// keeping the first occurrence so the original order is preserved.
func NewAllowlist(keys ...string) (Allowlist, error) {
	if len(keys) == 0 {
		return Allowlist{}, ErrEmptyAllowlist
	}

	unique := make([]string, 0, len(keys))
	for _, key := range keys {
		if !identifierPattern.MatchString(key) {
			return Allowlist{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
		if !slices.Contains(unique, key) {
			unique = append(unique, key)
		}
	}

	return Allowlist{keys: unique}, nil
}

// MustAllowlist is like [NewAllowlist] but panics on invalid input.
// It is meant for package-level defaults built from constant keys.
func MustAllowlist(keys ...string) Allowlist {
	a, err := NewAllowlist(keys...)
	if err != nil {
		panic(err)
	}
	return a
}

// Keys returns a copy of the allowlisted keys in their configured order.
func (a Allowlist) Keys() []string {
	return slices.Clone(a.keys)
}

// Len returns the number of allowlisted keys.
func (a Allowlist) Len() int {
	return len(a.keys)
}

// Contains reports whether key is allowlisted.
func (a Allowlist) Contains(key string) bool {
	return slices.Contains(a.keys, key)
}

// Payload is the subset of configuration exposed to the browser.
type Payload map[string]string

// Filter returns the allowlisted entries of src that hold a non-empty value.
//
// Keys are looked up one by one in allowlist order; src is never enumerated,
// so keys outside the allowlist are never read. Missing and empty values are
// skipped silently. A nil src yields an empty payload.
func Filter(src Source, allowlist Allowlist) Payload {
	payload := make(Payload, len(allowlist.keys))
	if src == nil {
		return payload
	}

	for _, key := range allowlist.keys {
		if v, ok := src.Lookup(key); ok && len(v) > 0 {
			payload[key] = v
		}
	}

	return payload
}
