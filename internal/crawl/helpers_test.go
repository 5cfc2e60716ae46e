package crawl

import (
	"bytes"
	"context"
	"sync"
	"time"

	"download-ticks/internal/model"
	"download-ticks/internal/provider"
)

// safeBuffer is a bytes.Buffer shared by the run loop and the heartbeat goroutine.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type slowProvider struct {
	delay time.Duration
}

func (s *slowProvider) Name() string { return "slow" }
func (s *slowProvider) Close() error { return nil }

func (s *slowProvider) Klines(ctx context.Context, q provider.Query) ([]model.Kline, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return []model.Kline{{OpenTime: q.Start, CloseTime: q.Interval.Next(q.Start).Add(-time.Millisecond)}}, nil
}
