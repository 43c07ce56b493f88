// Package report renders predictions, backtests and dataset summaries for the terminal.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"DrawSentinel/internal/model"
)

const disclaimer = "Draws are independent and uniformly random. These rankings describe the past; none of them beats the random baseline."

func numbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, " ")
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Border)).
		Headers(headers...)
}

func balls(cs []model.ScoredCandidate, style lipgloss.Style) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = style.Render(fmt.Sprintf("%02d", c.Number))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// Prediction renders the ensemble picks followed by every algorithm's picks.
func Prediction(p *model.Prediction) string {
	var b strings.Builder
	mode := "unweighted vote"
	if p.Weighted {
		mode = "learned weights"
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("Next draw after %s", p.BasedOn.Format("Mon 2006-01-02"))))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, balls(p.Main, ballStyle), "  ", balls(p.Bonus, starStyle)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s draws, %d algorithms, %s", humanize.Comma(int64(p.HistorySize)), len(p.Results), mode)))
	b.WriteString("\n\n")

	t := newTable("algorithm", "family", "main", "stars").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range p.Results {
		t.Row(r.Algorithm, r.Family, numbers(model.CandidateNumbers(r.Main)), numbers(model.CandidateNumbers(r.Bonus)))
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	if len(p.Skipped) > 0 {
		b.WriteString(mutedStyle.Render("skipped (short history): " + strings.Join(p.Skipped, ", ")))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(disclaimer))
	b.WriteString("\n")
	return b.String()
}

// sortedRows returns backtest rows by average main hits, best first.
func sortedRows(r *model.BacktestReport) []model.AlgorithmStats {
	rows := append([]model.AlgorithmStats(nil), r.Rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].AvgMain != rows[j].AvgMain {
			return rows[i].AvgMain > rows[j].AvgMain
		}
		return rows[i].Algorithm < rows[j].Algorithm
	})
	return rows
}

// Backtest renders a colour-coded table: green above the random baseline, red below.
func Backtest(r *model.BacktestReport) string {
	rows := append(sortedRows(r), r.Ensemble)

	t := newTable("#", "algorithm", "family", "tests", "avg main", "avg stars", "best", "lift").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(rows) || rows[row].Tests == 0 {
				return cellStyle
			}
			if rows[row].AvgMain > r.BaselineMain {
				return aboveStyle
			}
			if rows[row].AvgMain < r.BaselineMain {
				return belowStyle
			}
			return cellStyle
		})
	for i, row := range rows {
		rank := humanize.Ordinal(i + 1)
		if i == len(rows)-1 {
			rank = "-"
		}
		t.Row(rank, row.Algorithm, row.Family, humanize.Comma(int64(row.Tests)),
			fmt.Sprintf("%.3f", row.AvgMain), fmt.Sprintf("%.3f", row.AvgBonus),
			fmt.Sprintf("%d", row.BestMain), fmt.Sprintf("%.2f", row.Lift))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Backtest over the last %d draws", r.Tests)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("random baseline: %.3f main, %.3f stars per draw", r.BaselineMain, r.BaselineBonus)))
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(disclaimer))
	b.WriteString("\n")
	return b.String()
}

// Stats renders the dataset summary.
func Stats(s model.DatasetStats) string {
	t := newTable("metric", "value").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Row("draws", humanize.Comma(int64(s.Count))).
		Row("source", s.Source).
		Row("first draw", s.FirstDate.Format("2006-01-02")).
		Row("last draw", s.LastDate.Format("2006-01-02")).
		Row("hot main", numbers(model.CandidateNumbers(s.HotMain))).
		Row("cold main", numbers(model.CandidateNumbers(s.ColdMain))).
		Row("hot stars", numbers(model.CandidateNumbers(s.HotBonus))).
		Row("cold stars", numbers(model.CandidateNumbers(s.ColdBonus))).
		Row("main sum", fmt.Sprintf("mean %.1f, range %d-%d", s.MeanSum, s.MinSum, s.MaxSum)).
		Row("odd share", fmt.Sprintf("%.1f%%", s.OddRatio*100))
	if !s.FetchedAt.IsZero() {
		t.Row("fetched", humanize.Time(s.FetchedAt))
	}
	return titleStyle.Render("Draw history") + "\n" + t.String() + "\n"
}

// Weights renders learned weights, heaviest first.
func Weights(s model.WeightState) string {
	if len(s.Weights) == 0 {
		return mutedStyle.Render("No weights learned yet; the ensemble votes unweighted.") + "\n"
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
	t := newTable("algorithm", "weight").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(names) {
				if s.Weights[names[row]] >= 1 {
					return aboveStyle
				}
				return belowStyle
			}
			return cellStyle
		})
	for _, name := range names {
		t.Row(name, fmt.Sprintf("%.3f", s.Weights[name]))
	}
	title := fmt.Sprintf("Learned weights (window %d, %s run, %s)", s.Window, humanize.Ordinal(s.Runs), humanize.Time(s.LastLearnedAt))
	return titleStyle.Render(title) + "\n" + t.String() + "\n"
}

// BacktestMarkdown writes the backtest as a markdown document.
func BacktestMarkdown(r *model.BacktestReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Backtest: last %d draws\n\n", r.Tests))
	b.WriteString(fmt.Sprintf("Run `%s` at %s. Random baseline is **%.3f** main and **%.3f** star hits per draw.\n\n",
		r.ID, r.RunAt.Format("2006-01-02 15:04"), r.BaselineMain, r.BaselineBonus))
	b.WriteString("| algorithm | family | tests | avg main | avg stars | lift |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|\n")
	for _, row := range sortedRows(r) {
		b.WriteString(fmt.Sprintf("| %s | %s | %d | %.3f | %.3f | %.2f |\n",
			row.Algorithm, row.Family, row.Tests, row.AvgMain, row.AvgBonus, row.Lift))
	}
	e := r.Ensemble
	b.WriteString(fmt.Sprintf("| **ensemble** | vote | %d | %.3f | %.3f | %.2f |\n\n", e.Tests, e.AvgMain, e.AvgBonus, e.Lift))
	b.WriteString("> " + disclaimer + "\n")
	return b.String()
}

// RenderMarkdown renders markdown for the terminal.
func RenderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	return r.Render(md)
}
