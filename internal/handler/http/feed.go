package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/utils"
	"github.com/MKhiriev/go-news-sync/internal/validators"
	"github.com/MKhiriev/go-news-sync/models"
)

// maxBodySize limits request bodies of the write routes.
const maxBodySize = 8 << 20

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.feed.Ping(r.Context()); err != nil {
		writeError(w, r, "Handler.health", err)
		return
	}
	_, _ = utils.WriteJSON(w, healthResponse{Status: "ok"}, http.StatusOK)
}

// setHealth toggles simulated reachability: PUT /api/health?online=false
// makes every feed route answer 503 until it is switched back.
func (h *Handler) setHealth(w http.ResponseWriter, r *http.Request) {
	online, err := strconv.ParseBool(r.URL.Query().Get("online"))
	if err != nil {
		writeError(w, r, "Handler.setHealth", fmt.Errorf("%w: %w", ErrInvalidOnlineFlag, err))
		return
	}

	h.feed.SetOnline(online)
	logger.FromRequest(r).Info().
		Str("func", "Handler.setHealth").
		Bool("online", online).
		Msg("feed reachability changed")

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) changes(w http.ResponseWriter, r *http.Request) {
	collection, err := models.ParseCollection(chi.URLParam(r, "collection"))
	if err != nil {
		writeError(w, r, "Handler.changes", err)
		return
	}

	var after int64
	if raw := r.URL.Query().Get("after"); raw != "" {
		after, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || after < 0 {
			writeError(w, r, "Handler.changes", fmt.Errorf("%w: %q", ErrInvalidAfter, raw))
			return
		}
	}

	changes, err := h.feed.FetchChanges(r.Context(), collection, after)
	if err != nil {
		writeError(w, r, "Handler.changes", err)
		return
	}
	if changes == nil {
		changes = []models.ChangeEntry{}
	}

	_, _ = utils.WriteJSON(w, changes, http.StatusOK)
}

func (h *Handler) fetchEntities(w http.ResponseWriter, r *http.Request) {
	collection, err := models.ParseCollection(chi.URLParam(r, "collection"))
	if err != nil {
		writeError(w, r, "Handler.fetchEntities", err)
		return
	}

	var req models.FetchEntitiesRequest
	if err = utils.DecodeJSON(r.Body, maxBodySize, &req); err != nil {
		writeError(w, r, "Handler.fetchEntities", fmt.Errorf("%w: %w", ErrInvalidBody, err))
		return
	}
	if err = h.validator.Validate(r.Context(), req); err != nil {
		writeError(w, r, "Handler.fetchEntities", err)
		return
	}

	entities, err := h.feed.FetchEntities(r.Context(), collection, req.IDs)
	if err != nil {
		writeError(w, r, "Handler.fetchEntities", err)
		return
	}
	if entities == nil {
		entities = []models.Entity{}
	}

	_, _ = utils.WriteJSON(w, entities, http.StatusOK)
}

// publishEntities upserts a JSON array of entities of the collection and
// answers with the new head version of the feed.
func (h *Handler) publishEntities(w http.ResponseWriter, r *http.Request) {
	collection, err := models.ParseCollection(chi.URLParam(r, "collection"))
	if err != nil {
		writeError(w, r, "Handler.publishEntities", err)
		return
	}

	body, err := utils.ReadBody(r.Body, maxBodySize)
	if err != nil {
		writeError(w, r, "Handler.publishEntities", fmt.Errorf("%w: %w", ErrInvalidBody, err))
		return
	}
	entities, err := models.DecodeEntities(collection, body)
	if err != nil {
		writeError(w, r, "Handler.publishEntities", fmt.Errorf("%w: %w", ErrInvalidBody, err))
		return
	}
	if len(entities) == 0 {
		writeError(w, r, "Handler.publishEntities", validators.ErrEmptyIDs)
		return
	}
	if err = h.validator.Validate(r.Context(), entities); err != nil {
		writeError(w, r, "Handler.publishEntities", err)
		return
	}

	h.feed.Put(entities...)
	version := h.feed.Version(collection)

	logger.FromRequest(r).Info().
		Str("func", "Handler.publishEntities").
		Str("collection", collection.String()).
		Int("entities", len(entities)).
		Int64("version", version).
		Msg("entities published")

	_, _ = utils.WriteJSON(w, models.Checkpoint{Collection: collection, Version: version}, http.StatusOK)
}

func (h *Handler) deleteEntity(w http.ResponseWriter, r *http.Request) {
	collection, err := models.ParseCollection(chi.URLParam(r, "collection"))
	if err != nil {
		writeError(w, r, "Handler.deleteEntity", err)
		return
	}
	id := chi.URLParam(r, "id")

	version := h.feed.Remove(collection, id)

	logger.FromRequest(r).Info().
		Str("func", "Handler.deleteEntity").
		Str("collection", collection.String()).
		Str("id", id).
		Int64("version", version).
		Msg("entity deleted")

	_, _ = utils.WriteJSON(w, models.Checkpoint{Collection: collection, Version: version}, http.StatusOK)
}
