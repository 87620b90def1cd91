package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints",
	Short: "Print the stored checkpoint of every collection",
	RunE:  runCheckpoints,
}

func runCheckpoints(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	checkpoints, err := e.storages.Repository.Checkpoints(cmd.Context())
	if err != nil {
		return fmt.Errorf("read checkpoints: %w", err)
	}

	w := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(checkpoints)
	}

	for _, cp := range checkpoints {
		fmt.Fprintf(w, "%-15s %d\n", cp.Collection, cp.Version)
	}
	return nil
}
