// Package engine orchestrates credential trials across a bounded worker
// pool with per-target serialization and permanent unreachable marking.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/credprobe/credprobe/internal/drivers"
	"github.com/credprobe/credprobe/internal/status"
)

// Options configure a run.
type Options struct {
	// Workers bounds how many trials run concurrently; minimum 1.
	Workers int
	// Timeout is handed to the driver for each connect attempt.
	Timeout time.Duration
	// Delay is an optional pause before each attempt, taken while holding
	// the target's host lock so it throttles per host.
	Delay time.Duration
}

// Engine owns the worker pool and routes every trial through host
// synchronization, the driver, outcome classification, and the tracker.
type Engine struct {
	driver  drivers.Driver
	tracker *status.Tracker
	opts    Options
	logger  *slog.Logger
}

// New creates an engine. A worker count below 1 is clamped to 1.
func New(driver drivers.Driver, tracker *status.Tracker, opts Options, logger *slog.Logger) *Engine {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{
		driver:  driver,
		tracker: tracker,
		opts:    opts,
		logger:  logger.With("component", "engine"),
	}
}

// Summary is the final accounting of a run, read after every worker joined.
type Summary struct {
	Total            int
	Completed        int
	Valid            int
	UnreachableHosts int
}

// Run dispatches every trial and blocks until all of them have completed.
// Per-trial failures never abort the run; the summary is always complete.
func (e *Engine) Run(ctx context.Context, trials []Trial) Summary {
	hosts := buildHostTable(trials)

	e.logger.Info("dispatching trials",
		"trials", len(trials),
		"hosts", len(hosts),
		"workers", e.opts.Workers,
	)

	sem := make(chan struct{}, e.opts.Workers)
	var wg sync.WaitGroup
	for _, tr := range trials {
		wg.Add(1)
		sem <- struct{}{}
		go func(tr Trial) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome := e.runTrial(ctx, hosts[tr.Target], tr)
			e.logger.Debug("trial finished",
				"target", tr.Target.String(),
				"username", tr.Credential.Username,
				"outcome", outcome.Kind.String(),
			)
		}(tr)
	}
	wg.Wait()

	completed, valid, unreachableHosts := e.tracker.Snapshot()
	return Summary{
		Total:            len(trials),
		Completed:        completed,
		Valid:            valid,
		UnreachableHosts: unreachableHosts,
	}
}

// runTrial executes the per-trial sequence: host lock, unreachable re-check,
// driver invocation, classification, reporting. The host lock spans the
// whole sequence so the flag check and the driver call are atomic.
func (e *Engine) runTrial(ctx context.Context, hs *hostState, tr Trial) Outcome {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	if e.opts.Delay > 0 {
		time.Sleep(e.opts.Delay)
	}

	if hs.unreachable {
		e.tracker.Skip(tr.Target, tr.Credential, hs.reason)
		return Outcome{Kind: Skipped, Reason: hs.reason}
	}

	e.tracker.SetCurrent(tr.Target, tr.Credential)

	ok, err := e.driver.Connect(ctx, tr.Target.Host, tr.Target.Port,
		tr.Credential.Username, tr.Credential.Password, e.opts.Timeout)
	if err != nil {
		reason := err.Error()
		var uerr *drivers.UnreachableError
		if errors.As(err, &uerr) {
			reason = uerr.Reason
		}

		hs.unreachable = true
		hs.reason = reason
		if e.tracker.MarkUnreachable(tr.Target, reason) {
			e.logger.Warn("target marked unreachable",
				"target", tr.Target.String(),
				"reason", reason,
			)
		}
		e.tracker.Skip(tr.Target, tr.Credential, reason)
		return Outcome{Kind: Unreachable, Reason: reason}
	}

	e.tracker.Complete(tr.Target, tr.Credential, ok)
	if ok {
		return Outcome{Kind: Success}
	}
	return Outcome{Kind: Failure}
}
