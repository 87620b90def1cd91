package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-news-sync/internal/service"
	"github.com/MKhiriev/go-news-sync/models"
)

var errSyncFailed = errors.New("sync failed")

var syncCmd = &cobra.Command{
	Use:   "sync [collection...]",
	Short: "Sync collections with the change feed once",
	Long: `Pull the change feed for the given collections, or for every
configured collection when none is given, and apply it to the local mirror.

Example:
  syncctl sync
  syncctl sync topics --remote localhost:8080 --driver memory --snapshot mirror.json`,
	RunE: runSync,
}

type syncOutput struct {
	RunID      string   `json:"run_id,omitempty"`
	Collection string   `json:"collection"`
	OK         bool     `json:"ok"`
	Upserted   []string `json:"upserted,omitempty"`
	Deleted    []string `json:"deleted,omitempty"`
	Dropped    []string `json:"dropped,omitempty"`
	Checkpoint int64    `json:"checkpoint"`
	DurationMS int64    `json:"duration_ms"`
	Error      string   `json:"error,omitempty"`
}

func runSync(cmd *cobra.Command, args []string) error {
	collections := make([]models.Collection, 0, len(args))
	for _, arg := range args {
		c, err := models.ParseCollection(arg)
		if err != nil {
			return err
		}
		collections = append(collections, c)
	}

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	syncer := service.NewClientSyncService(e.source, e.storages.Repository, nil, e.cfg.Sync, e.logger)

	var results []models.SyncResult
	if len(collections) == 0 {
		results = syncer.SyncAll(cmd.Context())
	} else {
		for _, c := range collections {
			results = append(results, syncer.Sync(cmd.Context(), c))
		}
	}

	failed := 0
	out := make([]syncOutput, 0, len(results))
	for _, r := range results {
		o := syncOutput{
			RunID:      r.RunID,
			Collection: r.Collection.String(),
			OK:         r.Err == nil,
			Upserted:   r.Upserted,
			Deleted:    r.Deleted,
			Dropped:    r.Dropped,
			Checkpoint: r.Checkpoint,
			DurationMS: r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			o.Error = r.Err.Error()
			failed++
		}
		out = append(out, o)
	}

	if err = printSync(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d collections", errSyncFailed, failed, len(results))
	}
	return nil
}

func printSync(w io.Writer, out []syncOutput) error {
	if outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, o := range out {
		if !o.OK {
			fmt.Fprintf(w, "%-15s failed: %s\n", o.Collection, o.Error)
			continue
		}
		fmt.Fprintf(w, "%-15s ok  upserted=%d deleted=%d dropped=%d checkpoint=%d (%s)\n",
			o.Collection, len(o.Upserted), len(o.Deleted), len(o.Dropped), o.Checkpoint,
			time.Duration(o.DurationMS)*time.Millisecond)
	}
	return nil
}
