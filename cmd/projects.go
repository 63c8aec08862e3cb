package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var projectsJSON bool

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List known projects, most recently active first",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

func init() {
	projectsCmd.Flags().BoolVar(&projectsJSON, "json", false, "Print the registry as JSON")
}

func runProjects(cmd *cobra.Command, args []string) error {
	projects := store.Projects()
	w := cmd.OutOrStdout()
	if projectsJSON {
		return writeJSON(w, projects)
	}
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects recorded yet.")
		return nil
	}
	for _, p := range projects {
		fmt.Fprintf(w, "%-24s last %s  %4d snapshots  %s\n",
			p.ProjectID, p.LastSnapshotDate, p.SnapshotCount, p.RepoPath)
	}
	return nil
}
