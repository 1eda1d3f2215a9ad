package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tanq16/mediafire-dl/internal/output"
	"github.com/tanq16/mediafire-dl/internal/scheduler"
	"github.com/tanq16/mediafire-dl/internal/utils"
	"gopkg.in/yaml.v3"
)

type BatchEntry struct {
	Link       string `yaml:"link"`
	OutputPath string `yaml:"op,omitempty"`
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [YAML_FILE]",
		Short: "Download every link listed in a YAML file, one after another",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				output.PrintError(fmt.Sprintf("Error reading YAML file: %v", err))
				os.Exit(1)
			}
			jobs, err := parseBatch(data)
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			if len(jobs) == 0 {
				output.PrintError("No valid links found in the batch file")
				os.Exit(1)
			}
			if failures := scheduler.Run(cmd.Context(), jobs, newFetcher(), output.NewManager(os.Stderr)); failures > 0 {
				os.Exit(1)
			}
		},
	}
	return cmd
}

// parseBatch reads a YAML list of {link, op} entries. Entries without a
// link are skipped with a warning.
func parseBatch(data []byte) ([]utils.Job, error) {
	var entries []BatchEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error parsing YAML file: %w", err)
	}
	var jobs []utils.Job
	for i, entry := range entries {
		if entry.Link == "" {
			output.PrintWarning(fmt.Sprintf("Empty link in entry %d, skipping...", i+1))
			continue
		}
		req := utils.DownloadRequest{URL: entry.Link}
		if entry.OutputPath != "" {
			req.Output = utils.PathDestination{Path: entry.OutputPath}
		}
		jobs = append(jobs, scheduler.NewJob(req))
	}
	return jobs, nil
}
