package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/scrimlab/scrim-stats/internal/charts"
	"github.com/scrimlab/scrim-stats/internal/config"
	"github.com/scrimlab/scrim-stats/internal/report"
)

var (
	reportTeam       string
	reportBucketDays int
	chartOutDir      string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print side win rates as tables",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Write side win-rate charts as SVG files",
	Long: `Write side_winrate.svg and side_winrate_timeline.svg to the output
directory, creating it if needed.`,
	Args: cobra.NoArgs,
	RunE: runChart,
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Print the tracked teams in TEAMS_FILE format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.LoadDotEnv()
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		out, err := config.TeamsYAML(cfg.Teams)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	for _, c := range []*cobra.Command{reportCmd, chartCmd} {
		c.Flags().StringVar(&reportTeam, "team", "", "tracked team name (default: all tracked teams)")
		c.Flags().IntVar(&reportBucketDays, "bucket-days", 0, "timeline period in days (default: BUCKET_DAYS)")
	}
	chartCmd.Flags().StringVar(&chartOutDir, "out", ".", "output directory")
}

func bucketWidth(cfg *config.Config) (time.Duration, error) {
	if reportBucketDays < 0 {
		return 0, fmt.Errorf("--bucket-days must be positive, got %d", reportBucketDays)
	}
	if reportBucketDays == 0 {
		return cfg.BucketWidth(), nil
	}
	return time.Duration(reportBucketDays) * 24 * time.Hour, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	if cfg.Teams.Len() == 0 {
		return errNoTeams
	}
	width, err := bucketWidth(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close(ctx)

	svc := newWinrateService(cfg, st, nil, logger)
	summary, err := svc.GetSideSummary(ctx, reportTeam)
	if err != nil {
		return err
	}
	timeline, err := svc.GetSideTimeline(ctx, reportTeam, width)
	if err != nil {
		return err
	}

	report.PrintSideSummary(os.Stdout, summary)
	report.PrintTimeline(os.Stdout, timeline)
	return nil
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	if cfg.Teams.Len() == 0 {
		return errNoTeams
	}
	width, err := bucketWidth(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close(ctx)

	svc := newWinrateService(cfg, st, nil, logger)
	summary, err := svc.GetSideSummary(ctx, reportTeam)
	if err != nil {
		return err
	}
	timeline, err := svc.GetSideTimeline(ctx, reportTeam, width)
	if err != nil {
		return err
	}

	title := "Win rate by side"
	timelineTitle := "Win rate by side through time"
	if reportTeam != "" {
		title += ": " + reportTeam
		timelineTitle += ": " + reportTeam
	}

	if err := os.MkdirAll(chartOutDir, 0o755); err != nil {
		return err
	}
	files := map[string]string{
		"side_winrate.svg":          charts.SideWinrate(title, summary.Summary),
		"side_winrate_timeline.svg": charts.Timeline(timelineTitle, timeline.Timeline),
	}
	for name, svg := range files {
		path := filepath.Join(chartOutDir, name)
		if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		fmt.Fprintf(os.Stdout, "Chart generated: %s\n", path)
	}
	return nil
}
