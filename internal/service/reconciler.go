package service

import (
	"slices"

	"github.com/MKhiriev/go-news-sync/models"
)

// Reconcile folds an ordered batch of change entries into the minimal local
// mutation.
//
// Only the last entry per id counts: a higher version wins, and on equal
// versions the entry that comes later in changes wins. This collapses
// "created then deleted" into a delete and "deleted then recreated" into an
// upsert without looking at payloads. The new checkpoint is the highest
// version seen, never lower than checkpoint. Empty changes return the
// identity outcome.
func Reconcile(collection models.Collection, checkpoint int64, changes []models.ChangeEntry) models.SyncOutcome {
	outcome := models.SyncOutcome{
		Collection:    collection,
		NewCheckpoint: checkpoint,
	}
	if len(changes) == 0 {
		return outcome
	}

	last := make(map[string]models.ChangeEntry, len(changes))
	for _, ch := range changes {
		if prev, ok := last[ch.ID]; ok && prev.Version > ch.Version {
			continue
		}
		last[ch.ID] = ch
	}
	for _, ch := range changes {
		// entries skipped by the fold still move the checkpoint
		outcome.NewCheckpoint = max(outcome.NewCheckpoint, ch.Version)
	}

	for id, ch := range last {
		if ch.IsDelete {
			outcome.DeleteIDs = append(outcome.DeleteIDs, id)
		} else {
			outcome.UpsertIDs = append(outcome.UpsertIDs, id)
		}
	}
	slices.Sort(outcome.UpsertIDs)
	slices.Sort(outcome.DeleteIDs)

	return outcome
}
