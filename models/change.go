package models

// ChangeEntry represents one remote mutation in the change feed.
// Entries are returned by the remote source ordered by Version ascending.
type ChangeEntry struct {
	// ID is the stable identifier of the changed entity.
	ID string `json:"id"`

	// Version is the monotonically non-decreasing sequence number assigned
	// by the remote source.
	Version int64 `json:"changeListVersion"`

	// IsDelete marks the entry as a deletion of the entity.
	IsDelete bool `json:"isDelete"`
}

// Checkpoint is the last change-feed version fully and durably applied
// locally for one collection.
type Checkpoint struct {
	Collection Collection `json:"collection"`
	Version    int64      `json:"version"`
}
