package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-news-sync/internal/adapter"
	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/utils"
	"github.com/MKhiriev/go-news-sync/internal/validators"
	"github.com/MKhiriev/go-news-sync/models"
)

// errorStatuses is checked in order, so more specific errors come first.
var errorStatuses = []struct {
	err    error
	status int
}{
	{utils.ErrBodyTooLarge, http.StatusRequestEntityTooLarge},

	{ErrInvalidAfter, http.StatusBadRequest},
	{ErrInvalidBody, http.StatusBadRequest},
	{ErrInvalidOnlineFlag, http.StatusBadRequest},

	{validators.ErrEmptyID, http.StatusBadRequest},
	{validators.ErrEmptyIDs, http.StatusBadRequest},
	{validators.ErrEmptyTopicID, http.StatusBadRequest},
	{validators.ErrDuplicateTopicID, http.StatusBadRequest},
	{validators.ErrMissingDate, http.StatusBadRequest},

	{models.ErrUnknownCollection, http.StatusNotFound},

	{adapter.ErrRemoteUnavailable, http.StatusServiceUnavailable},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError logs err and answers with its mapped status.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("func", funcName).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("func", funcName).Int("status", status).Msg("request rejected")
	}

	_, _ = utils.WriteJSON(w, errorResponse{Error: err.Error()}, status)
}
