// Package audit provides the leak auditor: a diagnostic harness that cycles
// the lifecycle manager through every known scene and checks that resource
// counters return to baseline instead of growing without bound.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/duskhall/dusk-go/engine/descriptor"
	"github.com/duskhall/dusk-go/engine/lifecycle"
	"github.com/duskhall/dusk-go/engine/logger"
	"github.com/duskhall/dusk-go/engine/resource"
)

// auditedKinds are the resource metrics the auditor tracks.
var auditedKinds = []resource.Kind{resource.KindTexture, resource.KindGeometry}

// Leak records one tolerance violation.
type Leak struct {
	// Cycle is the 1-based cycle index the violation was measured after.
	Cycle int

	// Metric is the resource metric name ("textures" or "geometry").
	Metric string

	// Before is the metric's baseline value, snapshotted before any load.
	Before int

	// After is the metric's value at measurement time.
	After int

	// Delta is After minus Before.
	Delta int
}

// Report is the auditor's result. Purely diagnostic; a failed audit never
// panics or aborts the process.
type Report struct {
	// Cycles is the number of cycles completed.
	Cycles int

	// Leaks lists every tolerance violation, in detection order.
	Leaks []Leak

	// Passed is true when no violations were detected.
	Passed bool
}

// Auditor drives the lifecycle manager through repeated load cycles and
// reports resource-counter growth.
type Auditor interface {
	// Run performs the configured number of cycles. Each cycle loads every
	// known scene id in order with a short settle delay after each load.
	// Growth since the pre-run baseline is checked after every cycle except
	// the first, against a per-metric tolerance scaled by the cycle index
	// (the tolerance absorbs the one scene still resident at measurement
	// time). Cancelling the context stops the run early with the cycles
	// completed so far.
	//
	// Parameters:
	//   - ctx: cancellation context observed between loads and settle waits
	//
	// Returns:
	//   - Report: the audit result
	Run(ctx context.Context) Report
}

type auditor struct {
	mgr      lifecycle.Manager
	cache    resource.Cache
	registry descriptor.Registry
	log      logger.Logger

	cycles     int
	settle     time.Duration
	tolerances map[resource.Kind]int
}

var _ Auditor = &auditor{}

// NewAuditor creates an Auditor with the provided options applied.
//
// Parameters:
//   - mgr: the lifecycle manager to drive (must not be nil)
//   - cache: the cache whose counters are audited (must not be nil)
//   - registry: the registry supplying the scene id set (must not be nil)
//   - options: functional options for auditor configuration
//
// Returns:
//   - Auditor: the newly created auditor
func NewAuditor(mgr lifecycle.Manager, cache resource.Cache, registry descriptor.Registry, options ...AuditorBuilderOption) Auditor {
	if mgr == nil {
		panic("audit: NewAuditor requires a non-nil Manager")
	}
	if cache == nil {
		panic("audit: NewAuditor requires a non-nil Cache")
	}
	if registry == nil {
		panic("audit: NewAuditor requires a non-nil Registry")
	}

	a := &auditor{
		mgr:      mgr,
		cache:    cache,
		registry: registry,
		log:      logger.NewNop(),
		cycles:   defaultCycles,
		settle:   defaultSettleDelay,
		tolerances: map[resource.Kind]int{
			resource.KindTexture:  defaultTolerance,
			resource.KindGeometry: defaultTolerance,
		},
	}

	for _, option := range options {
		option(a)
	}

	return a
}

func (a *auditor) Run(ctx context.Context) (report Report) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("audit run panicked", logger.WithField("panic", fmt.Sprintf("%v", r)))
			report.Passed = false
		}
	}()

	ids := a.registry.IDs()
	if len(ids) == 0 {
		a.log.Warn("audit run with no registered scenes")
		report.Passed = true
		return report
	}

	baseline := a.snapshot()
	a.log.Info("audit started",
		logger.WithField("cycles", a.cycles),
		logger.WithField("scenes", len(ids)))

	for cycle := 1; cycle <= a.cycles; cycle++ {
		for _, id := range ids {
			if ctx.Err() != nil {
				a.log.Warn("audit cancelled", logger.WithField("cycle", cycle))
				report.Passed = len(report.Leaks) == 0
				return report
			}
			if err := a.mgr.LoadRoom(id); err != nil {
				a.log.Warn("audit load failed",
					logger.WithField("scene", id),
					logger.WithField("error", err.Error()))
				continue
			}
			if !a.settleWait(ctx) {
				a.log.Warn("audit cancelled", logger.WithField("cycle", cycle))
				report.Passed = len(report.Leaks) == 0
				return report
			}
		}

		report.Cycles = cycle
		if cycle == 1 {
			continue
		}

		for _, kind := range auditedKinds {
			before := baseline[kind]
			after := a.cache.Outstanding(kind)
			delta := after - before
			if delta > a.tolerances[kind]*cycle {
				leak := Leak{Cycle: cycle, Metric: kind.String(), Before: before, After: after, Delta: delta}
				report.Leaks = append(report.Leaks, leak)
				a.log.Warn("leak detected",
					logger.WithField("cycle", cycle),
					logger.WithField("metric", leak.Metric),
					logger.WithField("delta", delta))
			}
		}
	}

	report.Passed = len(report.Leaks) == 0
	a.log.Info("audit finished",
		logger.WithField("passed", report.Passed),
		logger.WithField("leaks", len(report.Leaks)))
	return report
}

// snapshot captures the current value of every audited metric.
func (a *auditor) snapshot() map[resource.Kind]int {
	out := make(map[resource.Kind]int, len(auditedKinds))
	for _, kind := range auditedKinds {
		out[kind] = a.cache.Outstanding(kind)
	}
	return out
}

// settleWait sleeps for the settle delay, returning false if the context
// was cancelled first.
func (a *auditor) settleWait(ctx context.Context) bool {
	if a.settle <= 0 {
		return true
	}
	timer := time.NewTimer(a.settle)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
