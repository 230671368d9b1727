package client

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/packlist/pkg/logger"
)

// ErrMismatch is returned by Repeat when two answers carried different
// checklists.
var ErrMismatch = errors.New("checklist differs between requests")

// RepeatConfig controls Repeat.
type RepeatConfig struct {
	Requests int // total requests to send
	Workers  int // concurrent senders
}

// RepeatReport summarizes a Repeat run.
type RepeatReport struct {
	Requests   int
	Succeeded  int
	Failed     int
	Mismatched int
	Duration   time.Duration
}

// Repeat sends the same trip cfg.Requests times from cfg.Workers goroutines
// and checks that every answer carries a byte-identical checklist.
func (c *Client) Repeat(ctx context.Context, trip Trip, cfg RepeatConfig) (RepeatReport, error) {
	if cfg.Requests < 1 {
		cfg.Requests = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	log := logger.Named("repeat")

	var (
		succeeded  atomic.Int64
		failed     atomic.Int64
		mismatched atomic.Int64

		refOnce  sync.Once
		ref      []byte
		firstErr error
		errOnce  sync.Once
	)

	start := time.Now()
	jobs := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				resp, err := c.Generate(ctx, trip)
				if err != nil {
					failed.Add(1)
					errOnce.Do(func() { firstErr = err })
					continue
				}
				got, err := resp.Checklist.MarshalJSON()
				if err != nil {
					failed.Add(1)
					continue
				}
				refOnce.Do(func() { ref = got })
				if !bytes.Equal(ref, got) {
					mismatched.Add(1)
					continue
				}
				succeeded.Add(1)
			}
		}()
	}

	// Feed jobs until done or cancelled
	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Requests; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	report := RepeatReport{
		Requests:   cfg.Requests,
		Succeeded:  int(succeeded.Load()),
		Failed:     int(failed.Load()),
		Mismatched: int(mismatched.Load()),
		Duration:   time.Since(start),
	}
	log.Info(ctx, "repeat finished",
		logger.Int("requests", report.Requests),
		logger.Int("succeeded", report.Succeeded),
		logger.Int("failed", report.Failed),
		logger.Int("mismatched", report.Mismatched),
		logger.Duration("duration", report.Duration),
	)

	switch {
	case report.Mismatched > 0:
		return report, ErrMismatch
	case firstErr != nil:
		return report, firstErr
	case ctx.Err() != nil:
		return report, ctx.Err()
	}
	return report, nil
}
