package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scrimlab/scrim-stats/internal/loader"
)

var (
	loadCleanup bool
	loadWorkers int
)

var loadCmd = &cobra.Command{
	Use:   "load <dir>",
	Short: "Push a folder of exported match files into the store",
	Long: `Insert every *.json file in <dir> into the match store. A file may hold a
single match object or a list of them; anything else is skipped and reported.
Matches repeated within one run are inserted once.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().BoolVar(&loadCleanup, "cleanup", false, "delete each file once its matches are stored")
	loadCmd.Flags().IntVar(&loadWorkers, "workers", 4, "files parsed concurrently")
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close(cmd.Context())

	l := loader.New(loader.Config{
		Store:   st,
		Workers: loadWorkers,
		Cleanup: loadCleanup,
		Logger:  logger,
	})
	result, err := l.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nFiles read     : %d\n", result.FilesRead)
	fmt.Fprintf(os.Stdout, "Matches stored : %d\n", result.Inserted)
	fmt.Fprintf(os.Stdout, "Duplicates     : %d\n", result.Duplicates)
	if loadCleanup {
		fmt.Fprintf(os.Stdout, "Files removed  : %d\n", result.Removed)
	}
	for _, f := range result.FilesSkipped {
		fmt.Fprintf(os.Stdout, "Skipped %s: %s\n", f.Name, f.Reason)
	}
	return nil
}
