package runtimeenv

import "os"

// EnvSource reads configuration from the process environment.
type EnvSource struct{}

// Lookup implements [Source] on top of [os.LookupEnv].
func (EnvSource) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapSource is an in-memory [Source]. A nil MapSource has no keys.
type MapSource map[string]string

// Lookup implements [Source].
func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
