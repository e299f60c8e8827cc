package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNetAddress_String tests the String method of NetAddress
func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{name: "empty address", addr: NetAddress{}, expected: ""},
		{name: "localhost with port", addr: NetAddress{Host: "localhost", Port: 8080}, expected: "localhost:8080"},
		{name: "IPv4 with port", addr: NetAddress{Host: "127.0.0.1", Port: 9090}, expected: "127.0.0.1:9090"},
		{name: "IPv6 with port", addr: NetAddress{Host: "::1", Port: 8080}, expected: "[::1]:8080"},
		{name: "only port", addr: NetAddress{Port: 8080}, expected: ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

// TestNetAddress_Set tests the Set method of NetAddress
func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectError  bool
		expectedAddr NetAddress
	}{
		{name: "valid localhost", input: "localhost:8080", expectedAddr: NetAddress{Host: "localhost", Port: 8080}},
		{name: "valid IPv4", input: "0.0.0.0:80", expectedAddr: NetAddress{Host: "0.0.0.0", Port: 80}},
		{name: "valid IPv6", input: "[::1]:443", expectedAddr: NetAddress{Host: "::1", Port: 443}},
		{name: "empty host", input: ":8080", expectedAddr: NetAddress{Port: 8080}},
		{name: "missing port", input: "localhost", expectError: true},
		{name: "non numeric port", input: "localhost:http", expectError: true},
		{name: "zero port", input: "localhost:0", expectError: true},
		{name: "port out of range", input: "localhost:70000", expectError: true},
		{name: "hostname", input: "example.com:8080", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var addr NetAddress
			err := addr.Set(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, NetAddress{}, addr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedAddr, addr)
		})
	}
}

func TestParseFlags_AllFlags(t *testing.T) {
	cfg, err := parseFlags([]string{
		"-a", "127.0.0.1:9000",
		"-u", "http://app:3000",
		"-config", "/etc/edge.json",
		"-request-timeout", "20s",
		"-shutdown-timeout", "3s",
		"-upstream-timeout", "45s",
		"-rate-limit", "10",
		"-allowlist", "SUPABASE_URL, SITE_NAME,,",
		"-marker", "cfg",
		"-global", "__CFG__",
		"-max-token-bytes", "2048",
		"-no-inject",
		"-log-level", "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.HTTPAddress)
	assert.Equal(t, 20*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10, cfg.Server.RateLimitRPS)
	assert.Equal(t, "http://app:3000", cfg.Upstream.URL)
	assert.Equal(t, 45*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "/etc/edge.json", cfg.JSONFilePath)
	assert.Equal(t, []string{"SUPABASE_URL", "SITE_NAME"}, cfg.Inject.Allowlist)
	assert.Equal(t, "cfg", cfg.Inject.Marker)
	assert.Equal(t, "__CFG__", cfg.Inject.GlobalName)
	assert.Equal(t, 2048, cfg.Inject.MaxTokenBytes)
	assert.True(t, cfg.Inject.Disabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParseFlags_NoFlags(t *testing.T) {
	cfg, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseFlags_ShortConfigAlias(t *testing.T) {
	cfg, err := parseFlags([]string{"-c", "edge.json"})
	require.NoError(t, err)
	assert.Equal(t, "edge.json", cfg.JSONFilePath)
}

func TestParseFlags_Errors(t *testing.T) {
	for name, args := range map[string][]string{
		"unknown flag":  {"-unknown"},
		"bad address":   {"-a", "nowhere"},
		"bad duration":  {"-request-timeout", "later"},
		"missing value": {"-u"},
		"bad int":       {"-rate-limit", "x"},
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := parseFlags(args)
			assert.Nil(t, cfg)
			assert.ErrorContains(t, err, "error parsing flags")
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , ,"))
	assert.Equal(t, []string{"A", "B"}, splitList("A,B"))
	assert.Equal(t, []string{"A", "B"}, splitList(" A , B "))
}
