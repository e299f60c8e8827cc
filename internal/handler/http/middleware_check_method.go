// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/runtime-env-edge/internal/logger"
)

// CheckHTTPMethod returns an [http.HandlerFunc] that is intended to be
// registered as the router's MethodNotAllowed handler via
// [chi.Mux.MethodNotAllowed].
//
// Only the edge endpoints under [EdgePrefix] can reach it, since the proxy
// route accepts every method. Instead of chi's 405 it answers 404 Not Found,
// so the methods an edge endpoint serves are not advertised to callers.
//
// A request whose method does match a route (chi only calls this handler
// when it does not) is handed back to router.
//
// Usage:
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router chi.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			router.ServeHTTP(w, r)
			return
		}

		logger.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("method not served by edge endpoint")

		w.WriteHeader(http.StatusNotFound)
	}
}
