package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-news-sync/models"
)

// Build-time variables (set via ldflags)
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func buildInfo() models.AppBuildInfo {
	return models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
}

type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		bi := buildInfo()
		info := versionInfo{
			Version: bi.BuildVersion(),
			Commit:  bi.BuildCommit(),
			Date:    bi.BuildDate(),
			Go:      runtime.Version(),
		}

		if outputJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "syncctl %s\n", info.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", info.Commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", info.Date)
		fmt.Fprintf(cmd.OutOrStdout(), "  go:     %s\n", info.Go)
		return nil
	},
}
