package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DrawSentinel/internal/model"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	body := "data_source:\n  kind: file\n" +
		"strategy:\n  weights_file: " + filepath.Join(dir, "weights.json") + "\n" +
		"database:\n  sqlite_path: " + filepath.Join(dir, "test.db") + "\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestStatsCommand(t *testing.T) {
	path := writeConfig(t)
	out := execute(t, "--config", path, "stats", "--json=true")

	var stats model.DatasetStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, "bundled", stats.Source)
	assert.Greater(t, stats.Count, 100)
}

func TestFetchCommand(t *testing.T) {
	out := execute(t, "--config", writeConfig(t), "fetch")
	assert.Contains(t, out, "draws from bundled")
}

func TestPredictCommand(t *testing.T) {
	out := execute(t, "--config", writeConfig(t), "predict", "--json=false")
	assert.Contains(t, out, "Next draw after")
	assert.Contains(t, out, "unweighted vote")
}

func TestLearnThenWeights(t *testing.T) {
	path := writeConfig(t)
	execute(t, "--config", path, "learn", "--json=false", "--window", "6")

	out := execute(t, "--config", path, "weights", "--reset=false")
	assert.Contains(t, out, "Learned weights (window 6")

	out = execute(t, "--config", path, "weights", "--reset")
	assert.Contains(t, out, "discarded")
	out = execute(t, "--config", path, "weights", "--reset=false")
	assert.Contains(t, out, "unweighted")
}

func TestBacktestMarkdown(t *testing.T) {
	out := execute(t, "--config", writeConfig(t), "backtest", "--json=false", "--markdown", "--window", "5")
	assert.Contains(t, out, "Backtest")
	assert.Contains(t, out, "ensemble")
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_source:\n  kind: carrier-pigeon\n"), 0644))
	rootCmd.SetArgs([]string{"--config", path, "stats"})
	assert.Error(t, rootCmd.Execute())
}
