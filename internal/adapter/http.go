package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-news-sync/internal/config"
	"github.com/MKhiriev/go-news-sync/internal/logger"
	"github.com/MKhiriev/go-news-sync/internal/utils"
	"github.com/MKhiriev/go-news-sync/models"
)

type httpChangeSource struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPChangeSource constructs an HTTP/REST implementation of
// [RemoteSource]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPChangeSource(adapterCfg config.ClientAdapter, logger *logger.Logger) (RemoteSource, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	return &httpChangeSource{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// FetchChanges implements [ChangeSource]. It GETs
// GET /api/changes/{collection}?after={after} and decodes the JSON array of
// change entries.
func (h *httpChangeSource) FetchChanges(ctx context.Context, collection models.Collection, after int64) ([]models.ChangeEntry, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("collection", collection.String()).
		SetQueryParam("after", strconv.FormatInt(after, 10)).
		Get("/api/changes/{collection}")
	if err != nil {
		return nil, mapTransportError("fetch changes request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var changes []models.ChangeEntry
	if err = json.Unmarshal(resp.Body(), &changes); err != nil {
		return nil, fmt.Errorf("%w: decode changes: %w", ErrMalformedResponse, err)
	}

	h.logger.Debug().
		Str("func", "httpChangeSource.FetchChanges").
		Str("collection", collection.String()).
		Int64("after", after).
		Int("changes", len(changes)).
		Msg("change feed fetched")

	return changes, nil
}

// FetchEntities implements [ChangeSource]. It POSTs the ids to
// POST /api/entities/{collection}/fetch and decodes the entity payloads of
// the collection. An empty id list makes no request. Elements that do not
// parse are left out, so their ids show up as missing to the caller.
func (h *httpChangeSource) FetchEntities(ctx context.Context, collection models.Collection, ids []string) ([]models.Entity, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("collection", collection.String()).
		SetBody(models.FetchEntitiesRequest{IDs: ids}).
		Post("/api/entities/{collection}/fetch")
	if err != nil {
		return nil, mapTransportError("fetch entities request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	entities, skipped, err := models.DecodeEntitiesSkipInvalid(collection, resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if skipped > 0 {
		logger.FromContext(ctx).Warn().
			Str("func", "httpChangeSource.FetchEntities").
			Str("collection", collection.String()).
			Int("skipped", skipped).
			Msg("skipped entity payloads that could not be parsed")
	}

	return entities, nil
}

// Ping implements [HealthChecker] with GET /api/health.
func (h *httpChangeSource) Ping(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/health")
	if err != nil {
		return mapTransportError("health request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	return nil
}
