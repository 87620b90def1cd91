package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-news-sync/internal/service"
	"github.com/MKhiriev/go-news-sync/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the local mirror and, optionally, feed reachability",
	Long: `Display the checkpoint and entity count of every mirrored collection.

Example:
  syncctl status
  syncctl status --health`,
	RunE: runStatus,
}

var statusHealth bool

func init() {
	statusCmd.Flags().BoolVar(&statusHealth, "health", false, "Probe the change feed")
}

type statusOutput struct {
	Collections []models.CollectionStatus `json:"collections"`
	Remote      *remoteOutput             `json:"remote,omitempty"`
}

type remoteOutput struct {
	Address   string `json:"address"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	statuses, err := service.NewStatusService(e.storages.Repository, buildInfo(), e.logger).Status(cmd.Context())
	if err != nil {
		return err
	}

	out := statusOutput{Collections: statuses}
	if statusHealth {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		remote := &remoteOutput{Address: e.cfg.Adapter.HTTPAddress, Reachable: true}
		if err = e.source.Ping(ctx); err != nil {
			remote.Reachable = false
			remote.Error = err.Error()
		}
		out.Remote = remote
	}

	w := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintln(w, "Local Mirror")
	fmt.Fprintln(w, "------------")
	for _, s := range out.Collections {
		fmt.Fprintf(w, "%-15s checkpoint=%d entities=%d\n", s.Collection, s.Checkpoint, s.Entities)
	}

	if out.Remote != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Change Feed")
		fmt.Fprintln(w, "-----------")
		fmt.Fprintf(w, "Address:   %s\n", out.Remote.Address)
		fmt.Fprintf(w, "Reachable: %v\n", out.Remote.Reachable)
		if out.Remote.Error != "" {
			fmt.Fprintf(w, "Error:     %s\n", out.Remote.Error)
		}
	}
	return nil
}
