package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// progress is the shared run state read by the heartbeat.
type progress struct {
	mu       sync.Mutex
	total    int
	done     int
	received int
	added    int
}

func (p *progress) page(received, added int) (done int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	p.received += received
	p.added += added
	return p.done
}

func (p *progress) snapshot() (done, total, received, added int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.total, p.received, p.added
}

// percent formats i of n as "12.345".
func percent(i, n int) string {
	if n <= 0 {
		return "100.000"
	}
	return fmt.Sprintf("%.3f", float64(i)*100/float64(n))
}

// logProgress emits "i/n (pct%)" at info when verbose, debug otherwise.
func logProgress(log *slog.Logger, verbose bool, i, n int, w Window, klines int) {
	level := slog.LevelDebug
	if verbose {
		level = slog.LevelInfo
	}
	log.Log(context.Background(), level, fmt.Sprintf("%d/%d (%s%%)", i, n, percent(i, n)),
		"window", w.String(), "klines", klines)
}

func runHeartbeat(ctx context.Context, interval time.Duration, p *progress, started time.Time, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			done, total, received, added := p.snapshot()
			logger.Info("heartbeat", "done", done, "total", total, "received", received, "added", added,
				"elapsed", time.Since(started).Round(time.Second))
		}
	}
}
