package utils

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_TableTest(t *testing.T) {
	tests := []struct {
		name       string
		data       any
		statusCode int
		wantBody   string
	}{
		{name: "map", data: map[string]string{"status": "ok"}, statusCode: http.StatusOK, wantBody: `{"status":"ok"}`},
		{name: "struct", data: struct {
			Version string `json:"version"`
		}{Version: "1.0.0"}, statusCode: http.StatusOK, wantBody: `{"version":"1.0.0"}`},
		{name: "custom status", data: map[string]string{"status": "down"}, statusCode: http.StatusServiceUnavailable, wantBody: `{"status":"down"}`},
		{name: "nil", data: nil, statusCode: http.StatusOK, wantBody: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			n, err := WriteJSON(w, tt.data, tt.statusCode)
			require.NoError(t, err)

			assert.Equal(t, len(tt.wantBody), n)
			assert.Equal(t, tt.statusCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestWriteJSON_MarshalError(t *testing.T) {
	w := httptest.NewRecorder()

	n, err := WriteJSON(w, math.Inf(1), http.StatusOK)

	require.Error(t, err)
	assert.Zero(t, n)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEqual(t, "application/json", w.Header().Get("Content-Type"))
}
