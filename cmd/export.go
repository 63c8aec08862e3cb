package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-journal/internal/format"
)

var (
	exportDays    int
	exportProject string
	exportFormat  string
)

var exportCmd = &cobra.Command{
	Use:     "prompt",
	Aliases: []string{"export"},
	Short:   "Print recent journal activity as context for a language model",
	Args:    cobra.NoArgs,
	RunE:    runExport,
}

func init() {
	exportCmd.Flags().IntVar(&exportDays, "days", 7, "How many days back to include")
	exportCmd.Flags().StringVar(&exportProject, "project", "", "Only this project")
	exportCmd.Flags().StringVar(&exportFormat, "format", "prompt", "Output format: prompt, md, json")
}

func runExport(cmd *cobra.Command, args []string) error {
	snaps := store.Recent(exportDays)
	if exportProject != "" {
		kept := snaps[:0]
		for _, s := range snaps {
			if s.ProjectID == exportProject {
				kept = append(kept, s)
			}
		}
		snaps = kept
	}

	w := cmd.OutOrStdout()
	switch exportFormat {
	case "json":
		return writeJSON(w, snaps)
	case "md":
		if len(snaps) == 0 {
			fmt.Fprintln(w, "No recorded work activity.")
			return nil
		}
		parts := make([]string, 0, len(snaps))
		for _, s := range snaps {
			parts = append(parts, format.Summary(s))
		}
		fmt.Fprint(w, strings.Join(parts, "\n"))
	case "prompt":
		fmt.Fprint(w, format.PromptContext(snaps))
	default:
		return fmt.Errorf("unknown format %q (want prompt, md or json)", exportFormat)
	}
	return nil
}
