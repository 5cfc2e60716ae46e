package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"download-ticks/internal/app"
	"download-ticks/internal/model"
	"download-ticks/internal/saver"
	"download-ticks/internal/summary"
)

type infoCmd struct {
	outputFile string
	format     string

	stdout io.Writer
}

func (*infoCmd) Name() string     { return "info" }
func (*infoCmd) Synopsis() string { return "summarize a saved kline file, or list markets and intervals" }
func (*infoCmd) Usage() string {
	return `info [-o FILE | FILE]:
  With a file, print count, time range, gaps, prices and volume totals.
  Without a file, list the supported markets and intervals.

`
}

func (c *infoCmd) SetFlags(fs *flag.FlagSet) {
	stringVar(fs, &c.outputFile, "output-file", "o", "", "saved kline file to summarize")
	stringVar(fs, &c.format, "format", "", "", "file format (default by file extension, else json)")
}

func (c *infoCmd) Execute(_ context.Context, fs *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	out := c.stdout
	if out == nil {
		out = os.Stdout
	}

	path := c.outputFile
	switch {
	case fs.NArg() > 1 || (fs.NArg() == 1 && path != ""):
		fmt.Fprintln(os.Stderr, "info: give at most one file")
		return subcommands.ExitUsageError
	case fs.NArg() == 1:
		path = fs.Arg(0)
	}

	if path == "" {
		if err := writeCatalog(out); err != nil {
			slog.Error("write catalog", "error", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	sv, err := saver.ForPath(path, c.format)
	if err != nil {
		slog.Error("invalid format", "error", err)
		return subcommands.ExitUsageError
	}
	klines, err := sv.Load(path)
	if err != nil {
		slog.Error("failed to read file", "file", path, "error", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(out, "file: %s (%s)\n", path, sv.Extension())
	if err := summary.Summarize(klines).Write(out); err != nil {
		slog.Error("write summary", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// writeCatalog lists markets and intervals with their aliases.
func writeCatalog(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "markets:")
	for _, m := range app.Markets {
		fmt.Fprintf(tw, "  %s\n", m)
	}
	fmt.Fprintln(tw, "intervals:")
	for _, iv := range model.Intervals {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", iv, iv.Alias(), iv.Description())
	}
	return tw.Flush()
}
