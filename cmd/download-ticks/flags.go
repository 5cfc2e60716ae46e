package main

import (
	"flag"
	"fmt"
	"time"

	"download-ticks/internal/model"
)

// timeLayouts are tried in order; times without an offset are UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// timeFlag parses an RFC 3339 date into t. Unset leaves t zero.
type timeFlag struct{ t *time.Time }

func (f timeFlag) String() string {
	if f.t == nil || f.t.IsZero() {
		return ""
	}
	return f.t.UTC().Format(time.RFC3339)
}

func (f timeFlag) Set(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			*f.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q, want RFC 3339 like 2019-01-01T00:00:00Z", s)
}

// intervalFlag parses an interval code (1m) or alias (m1) into iv.
type intervalFlag struct{ iv *model.Interval }

func (f intervalFlag) String() string {
	if f.iv == nil {
		return ""
	}
	return f.iv.String()
}

func (f intervalFlag) Set(s string) error {
	iv, err := model.ParseInterval(s)
	if err != nil {
		return err
	}
	*f.iv = iv
	return nil
}

// stringVar registers one string flag under a long and a short name.
func stringVar(fs *flag.FlagSet, p *string, long, short, value, usage string) {
	fs.StringVar(p, long, value, usage)
	if short != "" {
		fs.StringVar(p, short, value, "shorthand for --"+long)
	}
}

func intVar(fs *flag.FlagSet, p *int, long, short string, value int, usage string) {
	fs.IntVar(p, long, value, usage)
	if short != "" {
		fs.IntVar(p, short, value, "shorthand for --"+long)
	}
}

func boolVar(fs *flag.FlagSet, p *bool, long, short, usage string) {
	fs.BoolVar(p, long, false, usage)
	if short != "" {
		fs.BoolVar(p, short, false, "shorthand for --"+long)
	}
}

func valueVar(fs *flag.FlagSet, v flag.Value, long, short, usage string) {
	fs.Var(v, long, usage)
	if short != "" {
		fs.Var(v, short, "shorthand for --"+long)
	}
}
