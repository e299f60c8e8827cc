package http

import (
	"net/http"

	"github.com/MKhiriev/runtime-env-edge/internal/logger"
	"github.com/MKhiriev/runtime-env-edge/internal/utils"
)

type healthResponse struct {
	Status string `json:"status"`
}

type versionResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.WriteJSON(w, healthResponse{Status: "ok"}, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing health response")
	}
}

func (h *Handler) version(w http.ResponseWriter, r *http.Request) {
	resp := versionResponse{
		Version: h.buildInfo.BuildVersion(),
		Date:    h.buildInfo.BuildDate(),
		Commit:  h.buildInfo.BuildCommit(),
	}

	if _, err := utils.WriteJSON(w, resp, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing version response")
	}
}
