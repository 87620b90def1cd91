package http

import (
	"net/http"

	"github.com/MKhiriev/go-news-sync/internal/utils"
)

type versionResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, versionResponse{
		Version: h.buildInfo.BuildVersion(),
		Date:    h.buildInfo.BuildDate(),
		Commit:  h.buildInfo.BuildCommit(),
	}, http.StatusOK)
}
