package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tanq16/mediafire-dl/internal/output"
	"github.com/tanq16/mediafire-dl/internal/utils"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [DIR]",
		Short: "Remove temporary files left by interrupted downloads",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			removed, err := utils.CleanTempFiles(dir)
			if err != nil {
				output.PrintError(fmt.Sprintf("Error cleaning up temporary files: %v", err))
				os.Exit(1)
			}
			if len(removed) == 0 {
				output.PrintInfo(fmt.Sprintf("No temporary files in %s", dir))
				return
			}
			for _, name := range removed {
				fmt.Fprintln(os.Stderr, output.FStream("  "+name))
			}
			output.PrintSuccess(fmt.Sprintf("Removed %d temporary file(s)", len(removed)))
		},
	}
}
