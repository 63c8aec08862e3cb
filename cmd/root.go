package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-journal/internal/config"
	"github.com/Tiliavir/work-journal/internal/logger"
	"github.com/Tiliavir/work-journal/internal/query"
	"github.com/Tiliavir/work-journal/internal/storage"
)

var (
	journalDir string
	configPath string

	cfg   config.Config
	store *storage.Store
)

var rootCmd = &cobra.Command{
	Use:   "wj",
	Short: "Work journal – recall what you worked on, across all your repos",
	Long: `wj is a single-binary, file-based work journal.
Each day's activity per project is stored as a human-readable JSON snapshot
in ~/.wj/journal/<YYYY-MM-DD>/<project>.json.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// exitError carries a process exit code: 1 for "nothing found" and usage
// problems, 2 for storage failures.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func storageFailure(err error) error {
	return &exitError{code: 2, err: err}
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&journalDir, "journal", "", "Journal directory (overrides journal_dir)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.wj/config.json)")

	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(aiSummaryCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reindexCmd)
}

// setup loads config, installs the logger and opens the store.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logCfg := logger.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = cfg.LogFormat
	logCfg.Output = cmd.ErrOrStderr()
	logger.Init(logCfg)

	root := journalDir
	if root == "" {
		root = cfg.JournalDir
	}
	if root == "" {
		if root, err = storage.BaseDir(); err != nil {
			return storageFailure(err)
		}
	}

	store = storage.New(root, storage.Options{Logger: logger.ForComponent("storage")})
	return nil
}

func engine() *query.Engine {
	return query.New(store)
}
