package http

import (
	"fmt"
	"net/http/httputil"
	"net/url"

	"github.com/MKhiriev/runtime-env-edge/internal/config"
	"github.com/MKhiriev/runtime-env-edge/internal/logger"
	"github.com/MKhiriev/runtime-env-edge/internal/metrics"
	"github.com/MKhiriev/runtime-env-edge/internal/runtimeenv"
	"github.com/MKhiriev/runtime-env-edge/models"
)

// Handler serves the edge: a reverse proxy to the upstream whose HTML
// responses carry the runtime env script, plus a few /_edge endpoints.
type Handler struct {
	proxy *httputil.ReverseProxy

	// rewriter is nil when injection is disabled.
	rewriter *runtimeenv.Rewriter
	source   runtimeenv.Source

	buildInfo    models.AppBuildInfo
	rateLimitRPS int

	logger *logger.Logger
}

// NewHandler builds the edge handler from the validated configuration.
// Values are looked up in source on every rewritten response.
func NewHandler(cfg *config.StructuredConfig, source runtimeenv.Source, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Handler, error) {
	target, err := url.Parse(cfg.Upstream.URL)
	if err != nil {
		return nil, fmt.Errorf("error parsing upstream url: %w", err)
	}

	h := &Handler{
		source:       source,
		buildInfo:    buildInfo,
		rateLimitRPS: cfg.Server.RateLimitRPS,
		logger:       logger,
	}

	if !cfg.Inject.Disabled {
		allowlist, err := runtimeenv.NewAllowlist(cfg.Inject.Allowlist...)
		if err != nil {
			return nil, fmt.Errorf("error building allowlist: %w", err)
		}

		h.rewriter = runtimeenv.NewRewriter(allowlist,
			runtimeenv.WithMarker(cfg.Inject.Marker),
			runtimeenv.WithScriptGlobalName(cfg.Inject.GlobalName),
			runtimeenv.WithMaxTokenBytes(cfg.Inject.MaxTokenBytes),
			runtimeenv.WithObserver(metrics.RewriteObserver{}),
		)
	}

	h.proxy = h.newReverseProxy(target, cfg.Upstream.Timeout)

	logger.Info().
		Str("upstream", target.Redacted()).
		Bool("inject", h.rewriter != nil).
		Strs("allowlist", cfg.Inject.Allowlist).
		Msg("http handler created")

	return h, nil
}
