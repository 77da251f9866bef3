package service

import (
	"context"
	"log/slog"
	"time"
)

// WeekRepairer periodically enforces the week span invariant
// (end = start + 4 days) against rows that drifted, e.g. through manual
// data surgery. It runs once at startup and then on a fixed interval, and
// holds no lock or connection between runs.
type WeekRepairer struct {
	weeks    *WeekService
	interval time.Duration
	log      *slog.Logger
}

// NewWeekRepairer constructs a WeekRepairer running every interval.
func NewWeekRepairer(weeks *WeekService, interval time.Duration, log *slog.Logger) *WeekRepairer {
	return &WeekRepairer{weeks: weeks, interval: interval, log: log}
}

// Run blocks until ctx is cancelled, repairing immediately and then on every
// tick. Repair failures are logged and retried on the next tick rather than
// terminating the loop.
func (r *WeekRepairer) Run(ctx context.Context) {
	r.repair(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.repair(ctx)
		}
	}
}

func (r *WeekRepairer) repair(ctx context.Context) {
	repaired, err := r.weeks.RepairWeekDates(ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "week date repair failed", "error", err)
		return
	}
	if repaired > 0 {
		r.log.WarnContext(ctx, "repaired week end dates", "count", repaired)
	}
}
