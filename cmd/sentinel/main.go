package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"DrawSentinel/internal/collector"
	"DrawSentinel/internal/config"
	"DrawSentinel/internal/logging"
	"DrawSentinel/internal/recorder"
	"DrawSentinel/internal/strategy"
	"DrawSentinel/internal/weights"
)

var (
	cfgPath string
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "DrawSentinel - lottery history analysis and backtesting",
	Long: `DrawSentinel loads a 5+2 lottery draw history, runs a panel of scoring
algorithms over it and merges their picks by ensemble vote.

Every algorithm can be replayed over past draws to measure how it would
have done. Expect them all to land on the random baseline: draws are
independent and no ranking of past numbers predicts the next one.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(verbose); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultCfg, "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, predictCmd, backtestCmd, learnCmd, fetchCmd, statsCmd, weightsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the components every command shares.
type app struct {
	rec recorder.Recorder
	col *collector.Collector
	eng *strategy.Engine
	wm  *weights.Manager
}

func newApp(cfg *config.Config) (*app, error) {
	fetcher, err := collector.NewFetcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("init fetcher: %w", err)
	}
	logging.Infof("data source: %s", fetcher.Name())

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logging.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	wm, err := weights.NewManager(cfg.Strategy.WeightsFile)
	if err != nil {
		rec.Close()
		return nil, fmt.Errorf("init weights: %w", err)
	}

	return &app{
		rec: rec,
		col: collector.NewCollector(fetcher, rec),
		eng: strategy.NewEngine(cfg.Strategy.Seed, cfg.Strategy.MinHistory),
		wm:  wm,
	}, nil
}

func (a *app) close() {
	if err := a.rec.Close(); err != nil {
		logging.Warnf("close recorder: %v", err)
	}
}
