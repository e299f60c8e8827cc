package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/MKhiriev/runtime-env-edge/internal/logger"
)

func (h *Handler) newReverseProxy(target *url.URL, timeout time.Duration) *httputil.ReverseProxy {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout
	// The client's Accept-Encoding goes upstream as is; the transport must
	// not negotiate and decode on its own behalf.
	transport.DisableCompression = true

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		Transport:      otelhttp.NewTransport(transport),
		ModifyResponse: h.modifyResponse,
		ErrorHandler:   h.proxyError,
	}
}

func (h *Handler) modifyResponse(resp *http.Response) error {
	if h.rewriter == nil {
		return nil
	}

	encoding := resp.Header.Get("Content-Encoding")
	h.rewriter.Rewrite(resp.Request, resp, h.source)

	// the rewriter decoded a gzip document; compression is restored on the
	// way out
	if encoding != "" && resp.Header.Get("Content-Encoding") == "" {
		markDecoded(resp.Request.Context())
	}
	return nil
}

func (h *Handler) proxyError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	if errors.Is(err, context.Canceled) {
		log.Debug().Err(err).Msg("client went away before upstream answered")
	} else {
		log.Error().Err(err).Str("uri", r.RequestURI).Msg("upstream request failed")
	}

	w.WriteHeader(http.StatusBadGateway)
}
