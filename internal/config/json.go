package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors StructuredConfig for the JSON file, using
// snake_case keys and human readable durations.
type StructuredJSONConfig struct {
	Server struct {
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
		RateLimitRPS    int      `json:"rate_limit_rps"`
	} `json:"server,omitempty"`

	Upstream struct {
		URL     string   `json:"url"`
		Timeout Duration `json:"timeout"`
	} `json:"upstream,omitempty"`

	Inject struct {
		Disabled      bool     `json:"disabled"`
		Allowlist     []string `json:"allowlist"`
		Marker        string   `json:"marker"`
		GlobalName    string   `json:"global_name"`
		MaxTokenBytes int      `json:"max_token_bytes"`
	} `json:"inject,omitempty"`

	Log struct {
		Level string `json:"level"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
			RateLimitRPS:    jsonCfg.Server.RateLimitRPS,
		},
		Upstream: Upstream{
			URL:     jsonCfg.Upstream.URL,
			Timeout: time.Duration(jsonCfg.Upstream.Timeout),
		},
		Inject: Inject{
			Disabled:      jsonCfg.Inject.Disabled,
			Allowlist:     jsonCfg.Inject.Allowlist,
			Marker:        jsonCfg.Inject.Marker,
			GlobalName:    jsonCfg.Inject.GlobalName,
			MaxTokenBytes: jsonCfg.Inject.MaxTokenBytes,
		},
		Log: Log{Level: jsonCfg.Log.Level},
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as plain nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
