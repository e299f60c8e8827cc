package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses configuration flags from args on a private flag set, so
// repeated calls never collide with the global flag.CommandLine.
//
// Flags:
//
//	-a edge listen address in format [host]:port
//	-u upstream URL
//	-c/-config json file path with configs
//	-request-timeout inbound request timeout (e.g., "30s")
//	-shutdown-timeout graceful shutdown timeout (e.g., "10s")
//	-upstream-timeout upstream response header timeout (e.g., "30s")
//	-rate-limit per-IP requests per second, 0 disables
//	-allowlist comma separated variable names to expose
//	-marker data-runtime-env attribute value
//	-global browser global name
//	-max-token-bytes largest HTML token buffered while looking for </head>
//	-no-inject disable injection
//	-log-level zerolog level name
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("edge-server", flag.ContinueOnError)

	var address NetAddress
	var upstreamURL, jsonConfigPath string
	var requestTimeout, shutdownTimeout, upstreamTimeout time.Duration
	var rateLimit, maxTokenBytes int
	var allowlist, marker, globalName string
	var noInject bool
	var logLevel string

	fs.Var(&address, "a", "Net address host:port")
	fs.StringVar(&upstreamURL, "u", "", "Upstream URL")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Inbound request timeout (e.g., 30s)")
	fs.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown timeout (e.g., 10s)")
	fs.DurationVar(&upstreamTimeout, "upstream-timeout", 0, "Upstream response header timeout (e.g., 30s)")
	fs.IntVar(&rateLimit, "rate-limit", 0, "Per-IP requests per second, 0 disables")
	fs.StringVar(&allowlist, "allowlist", "", "Comma separated variable names exposed to the browser")
	fs.StringVar(&marker, "marker", "", "data-runtime-env attribute value")
	fs.StringVar(&globalName, "global", "", "Browser global name")
	fs.IntVar(&maxTokenBytes, "max-token-bytes", 0, "Largest HTML token buffered before giving up")
	fs.BoolVar(&noInject, "no-inject", false, "Disable injection")
	fs.StringVar(&logLevel, "log-level", "", "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Server: Server{
			HTTPAddress:     address.String(),
			RequestTimeout:  requestTimeout,
			ShutdownTimeout: shutdownTimeout,
			RateLimitRPS:    rateLimit,
		},
		Upstream: Upstream{
			URL:     upstreamURL,
			Timeout: upstreamTimeout,
		},
		Inject: Inject{
			Disabled:      noInject,
			Allowlist:     splitList(allowlist),
			Marker:        marker,
			GlobalName:    globalName,
			MaxTokenBytes: maxTokenBytes,
		},
		Log:          Log{Level: logLevel},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// splitList splits a comma separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses the input string of form [host]:port and populates the
// NetAddress. An empty host listens on all interfaces; any other host must be
// "localhost" or an IP address.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be between 1 and 65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
