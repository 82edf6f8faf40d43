// Package housekeeper runs the periodic background sweep spec.md §4.7
// describes: idle eviction, sanction expiry, and a coalesced snapshot, on
// a fixed interval. Shaped like Hillside's internal/storage.Storage
// background workers (HistoryManager.Start/PeerManager.Start: a
// time.Ticker loop selecting against a stop channel) generalized from
// history pruning to the Dispatcher's Tick.
package housekeeper

import (
	"context"
	"log/slog"
	"time"

	"streamline/internal/dispatcher"
)

// Housekeeper drives Dispatcher.Tick on a fixed interval.
type Housekeeper struct {
	disp     *dispatcher.Dispatcher
	interval time.Duration
	log      *slog.Logger
}

// New constructs a Housekeeper; interval should be config.Config's
// HousekeeperInterval.
func New(disp *dispatcher.Dispatcher, interval time.Duration, log *slog.Logger) *Housekeeper {
	return &Housekeeper{disp: disp, interval: interval, log: log}
}

// Run blocks, ticking until ctx is cancelled. Intended to be started on
// its own goroutine by cmd/server/main.go.
func (h *Housekeeper) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			h.log.Debug("housekeeper tick", "time", now)
			h.disp.Tick(now)
		}
	}
}
