package models

import "time"

// Entity is an opaque payload belonging to a collection and identified by a
// stable string id.
type Entity interface {
	EntityID() string
	EntityCollection() Collection
}

// Topic is an entity of [CollectionTopics].
type Topic struct {
	ID               string `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	ShortDescription string `json:"shortDescription" yaml:"shortDescription"`
	LongDescription  string `json:"longDescription" yaml:"longDescription"`
	URL              string `json:"url" yaml:"url"`
	ImageURL         string `json:"imageUrl" yaml:"imageUrl"`
}

func (t Topic) EntityID() string { return t.ID }

func (t Topic) EntityCollection() Collection { return CollectionTopics }

// NewsResource is an entity of [CollectionNewsResources]. Topics holds the
// ids of related topics; the local repository rewrites these relations
// atomically with the resource row.
type NewsResource struct {
	ID             string    `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	Content        string    `json:"content" yaml:"content"`
	URL            string    `json:"url" yaml:"url"`
	HeaderImageURL string    `json:"headerImageUrl" yaml:"headerImageUrl"`
	PublishDate    time.Time `json:"publishDate" yaml:"publishDate"`
	Type           string    `json:"type" yaml:"type"`
	Topics         []string  `json:"topics" yaml:"topics"`
}

func (n NewsResource) EntityID() string { return n.ID }

func (n NewsResource) EntityCollection() Collection { return CollectionNewsResources }
