package models

import "time"

// SyncOutcome is the reconciler's decision for one batch of change entries.
// UpsertIDs and DeleteIDs are sorted and never share an id.
type SyncOutcome struct {
	Collection    Collection
	UpsertIDs     []string
	DeleteIDs     []string
	NewCheckpoint int64
}

// IsEmpty reports whether the outcome requires no local mutation.
func (o SyncOutcome) IsEmpty() bool {
	return len(o.UpsertIDs) == 0 && len(o.DeleteIDs) == 0
}

// SyncBatch is the unit of work applied to the local repository in a single
// transaction together with the checkpoint write.
type SyncBatch struct {
	Collection Collection
	Upserts    []Entity
	Deletes    []string
	Checkpoint int64
}

// SyncState is the position of a sync run in the orchestrator state machine.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncFetching
	SyncReconciling
	SyncFetchingPayloads
	SyncApplying
	SyncFailed
)

var syncStateNames = map[SyncState]string{
	SyncIdle:             "idle",
	SyncFetching:         "fetching",
	SyncReconciling:      "reconciling",
	SyncFetchingPayloads: "fetching_payloads",
	SyncApplying:         "applying",
	SyncFailed:           "failed",
}

func (s SyncState) String() string {
	if name, ok := syncStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Active reports whether a run is in progress in this state.
func (s SyncState) Active() bool {
	return s != SyncIdle && s != SyncFailed
}

// SyncResult describes how a single sync run for one collection ended.
type SyncResult struct {
	// RunID correlates log lines of one run.
	RunID      string
	Collection Collection
	// State is SyncIdle on success and SyncFailed on failure.
	State    SyncState
	Upserted []string
	Deleted  []string
	// Dropped lists ids referenced by the feed that the remote could not
	// resolve.
	Dropped    []string
	Checkpoint int64
	// Coalesced is set when the trigger found a run already in progress and
	// did nothing.
	Coalesced bool
	Duration  time.Duration
	Err       error
}

// CollectionStatus summarises the local mirror of one collection.
type CollectionStatus struct {
	Collection Collection `json:"collection"`
	Checkpoint int64      `json:"checkpoint"`
	Entities   int        `json:"entities"`
}
