// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// buildRouter creates a minimal chi.Mux shaped like the edge router: a
// namespace of fixed endpoints next to a catch-all.
func buildRouter() *chi.Mux {
	router := chi.NewRouter()

	router.Route("/_edge", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		r.Post("/reload", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		})
	})
	router.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

func TestCheckHTTPMethod_TableTest(t *testing.T) {
	router := buildRouter()

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{name: "GET on GET endpoint", method: http.MethodGet, path: "/_edge/healthz", expectedStatus: http.StatusOK},
		{name: "POST on POST endpoint", method: http.MethodPost, path: "/_edge/reload", expectedStatus: http.StatusAccepted},
		{name: "POST on GET endpoint is hidden", method: http.MethodPost, path: "/_edge/healthz", expectedStatus: http.StatusNotFound},
		{name: "DELETE on GET endpoint is hidden", method: http.MethodDelete, path: "/_edge/healthz", expectedStatus: http.StatusNotFound},
		{name: "GET on POST endpoint is hidden", method: http.MethodGet, path: "/_edge/reload", expectedStatus: http.StatusNotFound},
		{name: "catch-all takes any method", method: http.MethodPatch, path: "/anything", expectedStatus: http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rr.Code)
		})
	}
}

func TestCheckHTTPMethod_DelegatesMatchingMethod(t *testing.T) {
	router := buildRouter()
	rr := httptest.NewRecorder()

	// called directly, as chi never would for a served method
	CheckHTTPMethod(router)(rr, httptest.NewRequest(http.MethodGet, "/_edge/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}
