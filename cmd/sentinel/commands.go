package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"DrawSentinel/internal/logging"
	"DrawSentinel/internal/model"
	"DrawSentinel/internal/report"
)

var (
	jsonOut   bool
	window    int
	markdown  bool
	resetFlag bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Rank numbers for the next draw",
	RunE:  runPredict,
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay every algorithm over recent draws",
	Long: `Replays each algorithm over the last --window draws, predicting every
draw from the draws before it, and compares the hits to the random baseline.`,
	RunE: runBacktest,
}

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Backtest and store per-algorithm vote weights",
	RunE:  runLearn,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Refresh the draw history from the configured source",
	RunE:  runFetch,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the draw history",
	RunE:  runStats,
}

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show the learned vote weights",
	RunE:  runWeights,
}

func init() {
	for _, c := range []*cobra.Command{predictCmd, backtestCmd, learnCmd, statsCmd} {
		c.Flags().BoolVar(&jsonOut, "json", false, "print JSON instead of a table")
	}
	for _, c := range []*cobra.Command{backtestCmd, learnCmd} {
		c.Flags().IntVarP(&window, "window", "w", 0, "number of recent draws to replay (default strategy.backtest_window)")
	}
	backtestCmd.Flags().BoolVar(&markdown, "markdown", false, "render a markdown report")
	weightsCmd.Flags().BoolVar(&resetFlag, "reset", false, "discard learned weights")
}

func backtestWindow() int {
	if window > 0 {
		return window
	}
	return cfg.Strategy.BacktestWindow
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func runPredict(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	draws, _, err := a.col.Collect(cmd.Context())
	if err != nil {
		return err
	}
	pred, err := a.eng.WithWeights(a.wm.Get()).Predict(draws)
	if err != nil {
		return err
	}
	if err := a.rec.RecordPrediction(pred); err != nil {
		logging.Warnf("record prediction: %v", err)
	}
	if jsonOut {
		return printJSON(cmd, pred)
	}
	fmt.Fprint(cmd.OutOrStdout(), report.Prediction(pred))
	return nil
}

func runBacktest(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	draws, _, err := a.col.Collect(cmd.Context())
	if err != nil {
		return err
	}
	rep, err := a.eng.Backtest(cmd.Context(), draws, backtestWindow())
	if err != nil {
		return err
	}
	if err := a.rec.RecordBacktest(rep); err != nil {
		logging.Warnf("record backtest: %v", err)
	}
	return printBacktest(cmd, rep)
}

func printBacktest(cmd *cobra.Command, rep *model.BacktestReport) error {
	switch {
	case jsonOut:
		return printJSON(cmd, rep)
	case markdown:
		out, err := report.RenderMarkdown(report.BacktestMarkdown(rep), 100)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	default:
		fmt.Fprint(cmd.OutOrStdout(), report.Backtest(rep))
	}
	return nil
}

func runLearn(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	draws, _, err := a.col.Collect(cmd.Context())
	if err != nil {
		return err
	}
	w, rep, err := a.eng.LearnWeights(cmd.Context(), draws, backtestWindow())
	if err != nil {
		return err
	}
	if err := a.wm.Apply(w, rep.Window); err != nil {
		return err
	}
	if err := a.rec.RecordBacktest(rep); err != nil {
		logging.Warnf("record backtest: %v", err)
	}
	if jsonOut {
		return printJSON(cmd, a.wm.GetState())
	}
	fmt.Fprint(cmd.OutOrStdout(), report.Backtest(rep))
	fmt.Fprint(cmd.OutOrStdout(), report.Weights(a.wm.GetState()))
	return nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	_, stats, err := a.col.Collect(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d draws from %s (%s to %s)\n", stats.Count, stats.Source,
		stats.FirstDate.Format("2006-01-02"), stats.LastDate.Format("2006-01-02"))
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	_, stats, err := a.col.Collect(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(cmd, stats)
	}
	fmt.Fprint(cmd.OutOrStdout(), report.Stats(stats))
	return nil
}

func runWeights(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if resetFlag {
		if err := a.wm.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Learned weights discarded.")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), report.Weights(a.wm.GetState()))
	return nil
}
