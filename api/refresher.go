/*
refresher.go - Periodic re-analysis of the default exports

PURPOSE:
  When the server is configured with default sales and cost files, those
  files are typically overwritten by a nightly export job. The refresher
  re-runs the analysis on an interval so GET /api/latest always reflects
  the files currently on disk, without anyone uploading them.

DESIGN:
  - Runs a background goroutine with configurable interval
  - Runs once immediately on Start
  - Unchanged files hit the analyzer cache, so a tick is cheap
  - A failed read keeps the previous result and logs a warning

USAGE:
  refresher := NewDefaultsRefresher(handler, 5*time.Minute)
  refresher.Start()
  // ... later
  refresher.Stop()

SEE ALSO:
  - handlers.go: Latest endpoint
  - menu/cache.go: Why repeated runs are cheap
*/
package api

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// DefaultsRefresher keeps the handler's latest analysis of the default
// exports current.
type DefaultsRefresher struct {
	Handler  *Handler
	Interval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewDefaultsRefresher creates a refresher. It does nothing until Start.
func NewDefaultsRefresher(h *Handler, interval time.Duration) *DefaultsRefresher {
	return &DefaultsRefresher{
		Handler:  h,
		Interval: interval,
	}
}

// Enabled reports whether both default files are configured and the
// interval is positive.
func (dr *DefaultsRefresher) Enabled() bool {
	d := dr.Handler.defaults
	return dr.Interval > 0 && d.SalesFile != "" && d.CostFile != ""
}

// Start begins refreshing. Calling Start on a running refresher is a no-op.
func (dr *DefaultsRefresher) Start() {
	dr.mu.Lock()
	defer dr.mu.Unlock()

	logger := dr.Handler.logger
	if !dr.Enabled() {
		logger.Info("defaults refresher disabled")
		return
	}
	if dr.ticker != nil {
		return
	}

	dr.ticker = time.NewTicker(dr.Interval)
	dr.stop = make(chan struct{})
	dr.wg.Add(1)

	go dr.run()

	logger.Info("defaults refresher started", "interval", dr.Interval)
}

// Stop stops the refresher and waits for an in-flight run to finish.
func (dr *DefaultsRefresher) Stop() {
	dr.mu.Lock()
	defer dr.mu.Unlock()

	if dr.ticker != nil {
		dr.ticker.Stop()
		close(dr.stop)
		dr.wg.Wait()
		dr.ticker = nil
		dr.Handler.logger.Info("defaults refresher stopped")
	}
}

func (dr *DefaultsRefresher) run() {
	defer dr.wg.Done()

	// Run immediately on start
	dr.Refresh()

	for {
		select {
		case <-dr.ticker.C:
			dr.Refresh()
		case <-dr.stop:
			return
		}
	}
}

// Refresh analyzes the default files once and publishes the result.
func (dr *DefaultsRefresher) Refresh() error {
	h := dr.Handler
	sales, err := os.ReadFile(h.defaults.SalesFile)
	if err != nil {
		h.logger.Warn("refresh: read default sales", "file", h.defaults.SalesFile, "error", err)
		return fmt.Errorf("read default sales: %w", err)
	}
	costs, err := os.ReadFile(h.defaults.CostFile)
	if err != nil {
		h.logger.Warn("refresh: read default costs", "file", h.defaults.CostFile, "error", err)
		return fmt.Errorf("read default costs: %w", err)
	}

	result := h.Analyzer.Analyze(sales, costs)
	h.setLatest(result)
	h.logger.Debug("refresh: published", "run_id", result.RunID, "status", result.Status)
	return nil
}
