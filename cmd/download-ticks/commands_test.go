package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"download-ticks/internal/app"
	"download-ticks/internal/model"
	"download-ticks/internal/provider"
	"download-ticks/internal/saver"
)

type stubProvider struct {
	calls  int
	closed bool
}

func (s *stubProvider) Name() string { return "stub" }
func (s *stubProvider) Close() error { s.closed = true; return nil }

func (s *stubProvider) Klines(_ context.Context, q provider.Query) ([]model.Kline, error) {
	s.calls++
	var out []model.Kline
	for ts := q.Start; !ts.After(q.End); ts = ts.Add(time.Hour) {
		out = append(out, model.Kline{OpenTime: ts, CloseTime: ts.Add(time.Hour - time.Millisecond), Open: 1, Close: 1})
	}
	return out, nil
}

func stubInjector(t *testing.T, dp provider.DataProvider) *app.Overrides {
	t.Helper()
	var seen app.Overrides
	prev := initializeApp
	initializeApp = func(o app.Overrides) (*App, error) {
		seen = o
		return &App{
			Config: &app.Config{LogLevel: "error", Market: "binance", RetryCount: 3, PageLimit: 1000},
			DP:     dp,
		}, nil
	}
	t.Cleanup(func() { initializeApp = prev })
	return &seen
}

func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return cmd.Execute(context.Background(), fs)
}

func TestFetchCmd_SavesFile(t *testing.T) {
	dp := &stubProvider{}
	seen := stubInjector(t, dp)
	out := filepath.Join(t.TempDir(), "eth.json")

	status := run(t, &fetchCmd{}, "-s", "ETHBTC", "-i", "1h", "-f", "2024-01-01T00:00:00Z", "-t", "2024-01-01T05:00:00Z", "-o", out, "-r", "4")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, 4, seen.RetryCount)
	assert.True(t, dp.closed)

	got, err := saver.JSONSaver{}.Load(out)
	require.NoError(t, err)
	assert.Len(t, got, 6)
}

func TestFetchCmd_UsageErrors(t *testing.T) {
	stubInjector(t, &stubProvider{})

	assert.Equal(t, subcommands.ExitUsageError, run(t, &fetchCmd{}, "-i", "1h"), "missing symbol")
	assert.Equal(t, subcommands.ExitUsageError, run(t, &fetchCmd{}, "-s", "ETHBTC"), "missing interval")
	assert.Equal(t, subcommands.ExitUsageError,
		run(t, &fetchCmd{}, "-s", "ETHBTC", "-i", "1h", "-f", "2024-02-01", "-t", "2024-01-01"), "reversed dates")
	assert.Equal(t, subcommands.ExitUsageError, run(t, &fetchCmd{}, "-s", "ETHBTC", "-i", "1h", "extra"))
}

func TestFetchCmd_Stdout(t *testing.T) {
	stubInjector(t, &stubProvider{})
	var buf bytes.Buffer

	status := run(t, &fetchCmd{stdout: &buf}, "-s", "ETHBTC", "-i", "1h", "-f", "2024-01-01T00:00:00Z", "-t", "2024-01-01T01:00:00Z")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, buf.String(), "[1704067200000,1,")
}

func TestInfoCmd_Catalog(t *testing.T) {
	var buf bytes.Buffer
	require.Equal(t, subcommands.ExitSuccess, run(t, &infoCmd{stdout: &buf}))

	out := buf.String()
	assert.Contains(t, out, "binance")
	assert.Contains(t, out, "mm1")
	assert.Contains(t, out, "1 month")
}

func TestInfoCmd_Summary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "btc.csv")
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	klines := []model.Kline{
		{OpenTime: t0, CloseTime: t0.Add(time.Hour - time.Millisecond), Open: 10, High: 12, Low: 9, Close: 11},
		{OpenTime: t0.Add(time.Hour), CloseTime: t0.Add(2*time.Hour - time.Millisecond), Open: 11, High: 13, Low: 10, Close: 12},
	}
	require.NoError(t, saver.CSVSaver{}.Save(klines, path))

	var buf bytes.Buffer
	require.Equal(t, subcommands.ExitSuccess, run(t, &infoCmd{stdout: &buf}, path))
	out := buf.String()
	assert.Contains(t, out, "(csv)")
	assert.Contains(t, out, "1h (1 hour)")
	assert.Contains(t, out, "20.00%")

	buf.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &infoCmd{stdout: &buf}, "-o", path))
	assert.Contains(t, buf.String(), "klines")
}

func TestInfoCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, subcommands.ExitFailure, run(t, &infoCmd{stdout: io.Discard}, filepath.Join(dir, "missing.json")))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &infoCmd{stdout: io.Discard}, "a.json", "b.json"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &infoCmd{stdout: io.Discard}, "--format", "xml", "a.json"))
}
