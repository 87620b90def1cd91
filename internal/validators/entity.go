package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-news-sync/models"
)

// Field names accepted by [EntityValidator].
const (
	FieldID          = "id"
	FieldTopics      = "topics"
	FieldPublishDate = "publish_date"
	FieldVersion     = "version"
	FieldIDs         = "ids"
)

type EntityValidator struct{}

func NewEntityValidator() Validator {
	return &EntityValidator{}
}

func (v *EntityValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Topic:
		return v.validateTopic(value, fields...)
	case *models.Topic:
		return v.validateTopic(*value, fields...)

	case models.NewsResource:
		return v.validateNewsResource(value, fields...)
	case *models.NewsResource:
		return v.validateNewsResource(*value, fields...)

	case models.ChangeEntry:
		return v.validateChangeEntry(value, fields...)

	case models.FetchEntitiesRequest:
		return v.validateFetchRequest(value, fields...)
	case *models.FetchEntitiesRequest:
		return v.validateFetchRequest(*value, fields...)

	case []models.Entity:
		for i, e := range value {
			if err := v.Validate(ctx, e, fields...); err != nil {
				return fmt.Errorf("validation error at index %d: %w", i, err)
			}
		}
		return nil

	default:
		return ErrUnsupportedType
	}
}

func (v *EntityValidator) validateTopic(topic models.Topic, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if topic.ID == "" {
				return ErrEmptyID
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *EntityValidator) validateNewsResource(resource models.NewsResource, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldTopics, FieldPublishDate}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if resource.ID == "" {
				return ErrEmptyID
			}
		case FieldTopics:
			seen := make(map[string]struct{}, len(resource.Topics))
			for _, id := range resource.Topics {
				if id == "" {
					return ErrEmptyTopicID
				}
				if _, dup := seen[id]; dup {
					return fmt.Errorf("%w: %q", ErrDuplicateTopicID, id)
				}
				seen[id] = struct{}{}
			}
		case FieldPublishDate:
			if resource.PublishDate.IsZero() {
				return ErrMissingDate
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *EntityValidator) validateChangeEntry(entry models.ChangeEntry, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldVersion}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if entry.ID == "" {
				return ErrEmptyID
			}
		case FieldVersion:
			if entry.Version < 0 {
				return ErrInvalidVersion
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *EntityValidator) validateFetchRequest(request models.FetchEntitiesRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldIDs}
	}

	for _, f := range fields {
		switch f {
		case FieldIDs:
			if len(request.IDs) == 0 {
				return ErrEmptyIDs
			}
			for i, id := range request.IDs {
				if id == "" {
					return fmt.Errorf("validation error at index %d: %w", i, ErrEmptyID)
				}
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}
