// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-news-sync/models"
)

const (
	topicsTable        = "topics"
	newsResourcesTable = "news_resources"
	relationsTable     = "news_resources_topics"
	checkpointsTable   = "sync_checkpoints"
)

// maxStatementRows bounds the rows (or ids) bound into one statement. The
// widest row has seven columns, which keeps every statement well under the
// SQLite (32766) and PostgreSQL (65535) bind variable limits.
const maxStatementRows = 500

var (
	topicColumns = []string{
		"id", "name", "short_description", "long_description", "url", "image_url",
	}
	newsResourceColumns = []string{
		"id", "title", "content", "url", "header_image_url", "publish_date", "type",
	}
)

// upsertSuffix renders ON CONFLICT (id) DO UPDATE for every non-key column.
// The clause is understood by both PostgreSQL and SQLite 3.24+.
func upsertSuffix(key string, columns []string) string {
	suffix := "ON CONFLICT (" + key + ") DO UPDATE SET "
	first := true
	for _, c := range columns {
		if c == key {
			continue
		}
		if !first {
			suffix += ", "
		}
		suffix += c + " = excluded." + c
		first = false
	}
	return suffix
}

func buildUpsertTopicsQuery(b sq.StatementBuilderType, topics []models.Topic) (string, []any, error) {
	q := b.Insert(topicsTable).Columns(topicColumns...)
	for _, t := range topics {
		q = q.Values(t.ID, t.Name, t.ShortDescription, t.LongDescription, t.URL, t.ImageURL)
	}
	query, args, err := q.Suffix(upsertSuffix("id", topicColumns)).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertNewsResourcesQuery(b sq.StatementBuilderType, resources []models.NewsResource) (string, []any, error) {
	q := b.Insert(newsResourcesTable).Columns(newsResourceColumns...)
	for _, n := range resources {
		q = q.Values(n.ID, n.Title, n.Content, n.URL, n.HeaderImageURL, n.PublishDate.UTC(), n.Type)
	}
	query, args, err := q.Suffix(upsertSuffix("id", newsResourceColumns)).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// relation is one row of the news resource to topic join table.
type relation struct {
	newsResourceID string
	topicID        string
}

// relationRows lists one relation per distinct (resource, topic) pair.
func relationRows(resources []models.NewsResource) []relation {
	var rows []relation
	for _, n := range resources {
		seen := make(map[string]struct{}, len(n.Topics))
		for _, topicID := range n.Topics {
			if _, dup := seen[topicID]; dup {
				continue
			}
			seen[topicID] = struct{}{}
			rows = append(rows, relation{newsResourceID: n.ID, topicID: topicID})
		}
	}
	return rows
}

func buildInsertRelationsQuery(b sq.StatementBuilderType, rows []relation) (string, []any, error) {
	q := b.Insert(relationsTable).Columns("news_resource_id", "topic_id")
	for _, r := range rows {
		q = q.Values(r.newsResourceID, r.topicID)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteQuery(b sq.StatementBuilderType, table, column string, ids []string) (string, []any, error) {
	query, args, err := b.Delete(table).Where(sq.Eq{column: ids}).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertCheckpointQuery(b sq.StatementBuilderType, collection models.Collection, version int64) (string, []any, error) {
	query, args, err := b.Insert(checkpointsTable).
		Columns("collection", "version").
		Values(collection.String(), version).
		Suffix(upsertSuffix("collection", []string{"collection", "version"})).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectVersionQuery(b sq.StatementBuilderType, collection models.Collection) (string, []any, error) {
	query, args, err := b.Select("version").
		From(checkpointsTable).
		Where(sq.Eq{"collection": collection.String()}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectCheckpointsQuery(b sq.StatementBuilderType) (string, []any, error) {
	query, args, err := b.Select("collection", "version").
		From(checkpointsTable).
		OrderBy("collection").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectIDsQuery(b sq.StatementBuilderType, collection models.Collection) (string, []any, error) {
	table, err := collectionTable(collection)
	if err != nil {
		return "", nil, err
	}
	query, args, err := b.Select("id").From(table).OrderBy("id").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectTopicQuery(b sq.StatementBuilderType, id string) (string, []any, error) {
	query, args, err := b.Select(topicColumns...).
		From(topicsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectNewsResourceQuery(b sq.StatementBuilderType, id string) (string, []any, error) {
	query, args, err := b.Select(newsResourceColumns...).
		From(newsResourcesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectRelationsQuery(b sq.StatementBuilderType, newsResourceID string) (string, []any, error) {
	query, args, err := b.Select("topic_id").
		From(relationsTable).
		Where(sq.Eq{"news_resource_id": newsResourceID}).
		OrderBy("topic_id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func collectionTable(c models.Collection) (string, error) {
	switch c {
	case models.CollectionTopics:
		return topicsTable, nil
	case models.CollectionNewsResources:
		return newsResourcesTable, nil
	}
	return "", fmt.Errorf("%w: %q", models.ErrUnknownCollection, c)
}
