package service

import (
	"context"
	"time"

	"feed-notifier/misc"
)

// Runner polls sessions one after another on a fixed delay
type Runner struct {
	Sessions   []*Session
	Delay      time.Duration
	AfterCycle func([]Report)
}

// Remaining is the time left to wait after a cycle that took elapsed, never negative
func Remaining(delay, elapsed time.Duration) time.Duration {
	if elapsed >= delay {
		return 0
	}
	return delay - elapsed
}

// Cycle polls every session once
func (r *Runner) Cycle(ctx context.Context) []Report {
	reports := make([]Report, 0, len(r.Sessions))
	for _, session := range r.Sessions {
		if ctx.Err() != nil {
			break
		}
		report := session.Poll(ctx)
		misc.Info(report.String())
		reports = append(reports, report)
	}
	if r.AfterCycle != nil {
		r.AfterCycle(reports)
	}
	return reports
}

// Run loops until ctx is done, the delay is measured from the start of each cycle
func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		r.Cycle(ctx)
		timer := time.NewTimer(Remaining(r.Delay, time.Since(start)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
