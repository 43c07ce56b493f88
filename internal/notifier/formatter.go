package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"DrawSentinel/internal/model"
)

const disclaimer = "<i>Draws are independent and random; no method beats the baseline.</i>"

func joinNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, " ")
}

// FormatPrediction formats the ensemble prediction into a Telegram message.
func FormatPrediction(p *model.Prediction) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🎯 <b>DrawSentinel prediction</b> | %s\n\n", p.GeneratedAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Main: <code>%s</code>\n", joinNumbers(model.CandidateNumbers(p.Main))))
	b.WriteString(fmt.Sprintf("Stars: <code>%s</code>\n\n", joinNumbers(model.CandidateNumbers(p.Bonus))))

	mode := "unweighted vote"
	if p.Weighted {
		mode = "learned weights"
	}
	b.WriteString(fmt.Sprintf("Based on %s draws up to %s, %d algorithms, %s.\n",
		humanize.Comma(int64(p.HistorySize)), p.BasedOn.Format("2006-01-02"), len(p.Results), mode))
	if len(p.Skipped) > 0 {
		b.WriteString(fmt.Sprintf("Skipped (short history): %s\n", strings.Join(p.Skipped, ", ")))
	}
	b.WriteString("\n" + disclaimer)
	return b.String()
}

// FormatBacktest lists the top algorithms by average main hits.
func FormatBacktest(r *model.BacktestReport, top int) string {
	rows := append([]model.AlgorithmStats(nil), r.Rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].AvgMain > rows[j].AvgMain })
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Backtest</b> | last %d draws\n\n", r.Tests))
	b.WriteString(fmt.Sprintf("Random baseline: %.3f main, %.3f stars per draw\n\n", r.BaselineMain, r.BaselineBonus))
	b.WriteString("<pre>")
	b.WriteString(fmt.Sprintf("%-18s %5s %5s %5s\n", "algorithm", "main", "stars", "lift"))
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%-18s %5.2f %5.2f %5.2f\n", row.Algorithm, row.AvgMain, row.AvgBonus, row.Lift))
	}
	e := r.Ensemble
	b.WriteString(fmt.Sprintf("%-18s %5.2f %5.2f %5.2f\n", "ensemble", e.AvgMain, e.AvgBonus, e.Lift))
	b.WriteString("</pre>\n")
	b.WriteString(disclaimer)
	return b.String()
}

// FormatStats formats the dataset summary.
func FormatStats(s model.DatasetStats) string {
	var b strings.Builder
	b.WriteString("📦 <b>Draw history</b>\n\n")
	b.WriteString(fmt.Sprintf("Draws: %s (%s)\n", humanize.Comma(int64(s.Count)), s.Source))
	b.WriteString(fmt.Sprintf("Range: %s → %s\n", s.FirstDate.Format("2006-01-02"), s.LastDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Hot main: <code>%s</code>\n", joinNumbers(model.CandidateNumbers(s.HotMain))))
	b.WriteString(fmt.Sprintf("Cold main: <code>%s</code>\n", joinNumbers(model.CandidateNumbers(s.ColdMain))))
	b.WriteString(fmt.Sprintf("Hot stars: <code>%s</code>\n", joinNumbers(model.CandidateNumbers(s.HotBonus))))
	b.WriteString(fmt.Sprintf("Main sum: mean %.1f, range %d–%d\n", s.MeanSum, s.MinSum, s.MaxSum))
	b.WriteString(fmt.Sprintf("Odd share: %.0f%%\n", s.OddRatio*100))
	if !s.FetchedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Fetched %s\n", humanize.Time(s.FetchedAt)))
	}
	return b.String()
}

// FormatWeights formats the learned ensemble weights, heaviest first.
func FormatWeights(s model.WeightState) string {
	if len(s.Weights) == 0 {
		return "⚖️ <b>Weights</b>\n\nNo weights learned yet; the ensemble votes unweighted."
	}
	names := make([]string, 0, len(s.Weights))
	for name := range s.Weights {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.Weights[names[i]] != s.Weights[names[j]] {
			return s.Weights[names[i]] > s.Weights[names[j]]
		}
		return names[i] < names[j]
	})

	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚖️ <b>Weights</b> | window %d, %d runs, learned %s\n\n<pre>",
		s.Window, s.Runs, humanize.Time(s.LastLearnedAt)))
	for _, name := range names {
		b.WriteString(fmt.Sprintf("%-18s %5.2f\n", name, s.Weights[name]))
	}
	b.WriteString("</pre>")
	return b.String()
}

// FormatEvaluation reports how a stored prediction did against the draw that followed it.
func FormatEvaluation(main, bonus []int, actual model.Draw) string {
	mainHits := actual.Hits(model.MainPool, main)
	bonusHits := actual.Hits(model.BonusPool, bonus)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔎 <b>Result %s</b>\n\n", actual.Date.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Drawn: <code>%s</code> + <code>%s</code>\n", joinNumbers(actual.Main), joinNumbers(actual.Bonus)))
	b.WriteString(fmt.Sprintf("Predicted: <code>%s</code> + <code>%s</code>\n", joinNumbers(main), joinNumbers(bonus)))
	b.WriteString(fmt.Sprintf("Hits: %d main, %d stars (baseline %.2f, %.2f)\n",
		mainHits, bonusHits, model.MainPool.Baseline(), model.BonusPool.Baseline()))
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /predict - ensemble prediction for the next draw\n" +
		"• /backtest - backtest every algorithm\n" +
		"• /stats - dataset summary\n" +
		"• /refresh - refetch draw history\n" +
		"• /weights - learned ensemble weights"
}

// FormatError wraps a failure for the chat.
func FormatError(action string, err error) string {
	return fmt.Sprintf("❌ %s failed: %s", action, html.EscapeString(err.Error()))
}

