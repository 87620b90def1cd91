package models

import (
	"encoding/json"
	"fmt"
)

// FetchEntitiesRequest is the body of the entity payload request of the
// HTTP change feed.
type FetchEntitiesRequest struct {
	IDs []string `json:"ids"`
}

// Seed is the JSON document used to preload a change feed.
type Seed struct {
	Topics        []Topic        `json:"topics"`
	NewsResources []NewsResource `json:"news_resources"`
}

// DecodeEntities decodes a JSON array of entities of the given collection.
func DecodeEntities(c Collection, data []byte) ([]Entity, error) {
	switch c {
	case CollectionTopics:
		var topics []Topic
		if err := json.Unmarshal(data, &topics); err != nil {
			return nil, fmt.Errorf("decode topics: %w", err)
		}
		return ToEntities(topics), nil
	case CollectionNewsResources:
		var resources []NewsResource
		if err := json.Unmarshal(data, &resources); err != nil {
			return nil, fmt.Errorf("decode news resources: %w", err)
		}
		return ToEntities(resources), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
}

// DecodeEntitiesSkipInvalid decodes a JSON array of entities like
// [DecodeEntities], but elements that do not parse are skipped rather than
// failing the whole array. skipped is the number of elements dropped. Only a
// body that is not a JSON array is an error.
func DecodeEntitiesSkipInvalid(c Collection, data []byte) (entities []Entity, skipped int, err error) {
	var raw []json.RawMessage
	if err = json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", c, err)
	}

	switch c {
	case CollectionTopics:
		entities, skipped = decodeEach[Topic](raw)
	case CollectionNewsResources:
		entities, skipped = decodeEach[NewsResource](raw)
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
	return entities, skipped, nil
}

func decodeEach[T Entity](raw []json.RawMessage) ([]Entity, int) {
	out := make([]Entity, 0, len(raw))
	skipped := 0
	for _, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			skipped++
			continue
		}
		out = append(out, v)
	}
	return out, skipped
}

// ToEntities converts a typed slice into a slice of [Entity].
func ToEntities[T Entity](items []T) []Entity {
	out := make([]Entity, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
