package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyID          = errors.New("id is required")
	ErrEmptyTopicID     = errors.New("topic reference cannot be empty")
	ErrDuplicateTopicID = errors.New("topic referenced twice")
	ErrEmptyIDs         = errors.New("IDs list cannot be empty")
	ErrInvalidVersion   = errors.New("invalid change list version")
	ErrMissingDate      = errors.New("publish date is required")
)
