package models

import (
	"errors"
	"fmt"
)

// ErrUnknownCollection is returned by [ParseCollection] when the given name
// does not match any known entity collection.
var ErrUnknownCollection = errors.New("unknown collection")

// Collection names a partition of entities with its own checkpoint and sync
// cadence.
type Collection string

const (
	// CollectionTopics holds [Topic] entities.
	CollectionTopics Collection = "topics"

	// CollectionNewsResources holds [NewsResource] entities together with
	// their topic relations.
	CollectionNewsResources Collection = "news_resources"
)

// AllCollections returns every known collection in sync order.
func AllCollections() []Collection {
	return []Collection{CollectionTopics, CollectionNewsResources}
}

// ParseCollection converts a raw name into a [Collection].
func ParseCollection(name string) (Collection, error) {
	switch Collection(name) {
	case CollectionTopics, CollectionNewsResources:
		return Collection(name), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}

func (c Collection) String() string {
	return string(c)
}
