// Package orchestrator implements the Pipeline Orchestrator (spec §4.6):
// it sequences a named subset of stages in canonical dependency order,
// enforces the critical-stage abort rule, aggregates per-stage outcomes,
// and supports dry-run. Grounded in the teacher's maintenance.Runner
// ticker-based task loop (internal/maintenance/maintenance.go) for the
// run-record/progress-tracking shape, generalized from a background
// ticker to an on-demand, deadline-bounded run.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mentone-hv/hv-sync/internal/stage"
)

// Status is the overall run status.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Bundles are the named mode shortcuts from spec §4.6.
var Bundles = map[string][]stage.Name{
	"setup":    {stage.Competitions, stage.Teams},
	"fixtures": {stage.Games},
	"daily":    {stage.Results, stage.Players, stage.Ladder},
	"weekly":   {stage.Games, stage.Results, stage.Players, stage.Ladder},
	"full":     stage.Order,
}

// ResolveModules expands a list of stage names and/or bundle names
// (setup|daily|weekly|fixtures|full) into the canonical dependency order,
// deduplicated.
func ResolveModules(modules []string) []stage.Name {
	wanted := make(map[stage.Name]bool)
	for _, m := range modules {
		if bundle, ok := Bundles[m]; ok {
			for _, s := range bundle {
				wanted[s] = true
			}
			continue
		}
		wanted[stage.Name(m)] = true
	}

	var out []stage.Name
	for _, s := range stage.Order {
		if wanted[s] {
			out = append(out, s)
		}
	}
	return out
}

// StageProgress is one stage's recorded outcome within a Run.
type StageProgress struct {
	Stage    stage.Name    `json:"stage"`
	OkCount  int           `json:"ok_count"`
	ErrCount int           `json:"error_count"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
	Skipped  bool          `json:"skipped,omitempty"`
}

// Run is the per-run progress record queryable by id, per spec §4.6.
type Run struct {
	ID        string          `json:"id"`
	Modules   []string        `json:"modules"`
	StartedAt time.Time       `json:"started_at"`
	EndedAt   time.Time       `json:"ended_at,omitempty"`
	Status    Status          `json:"status"`
	Stages    []StageProgress `json:"per_stage_progress"`
	Reason    string          `json:"reason,omitempty"`
}

// Registry holds in-process run records, queryable by id. The spec allows
// either the store or an in-process map; an in-process map avoids adding
// write traffic to the document store for operational bookkeeping.
type Registry struct {
	mu   sync.Mutex
	runs map[string]*Run
}

// NewRegistry builds an empty run registry.
func NewRegistry() *Registry {
	return &Registry{runs: make(map[string]*Run)}
}

func (r *Registry) put(run *Run) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *run
	r.runs[run.ID] = &cp
}

// Get returns a copy of the run record for id, if present.
func (r *Registry) Get(id string) (Run, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return Run{}, false
	}
	return *run, true
}

// Orchestrator ties a Registry to the stage.Deps every stage needs.
type Orchestrator struct {
	Deps     *stage.Deps
	Registry *Registry
}

// New builds an Orchestrator.
func New(deps *stage.Deps, registry *Registry) *Orchestrator {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Orchestrator{Deps: deps, Registry: registry}
}

// RunOptions carries the run-wide parameters: modules, dry_run, a
// deadline, and the per-stage selectors (days among them) in Stage. There
// is no verbose setting.
type RunOptions struct {
	ID       string
	Modules  []string
	DryRun   bool
	Deadline time.Duration
	Stage    stage.Options
}

// Execute runs the named modules/bundles in canonical dependency order,
// aborting the whole run if a critical stage fails (spec §4.6). Returns
// the completed Run record; the same record is also stored in o.Registry
// under RunOptions.ID for later lookup.
func (o *Orchestrator) Execute(ctx context.Context, opts RunOptions) Run {
	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = 30 * time.Minute
	}
	runCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	run := &Run{
		ID:        opts.ID,
		Modules:   opts.Modules,
		StartedAt: time.Now().UTC(),
		Status:    StatusRunning,
	}
	o.Registry.put(run)

	stageOpts := opts.Stage
	stageOpts.DryRun = stageOpts.DryRun || opts.DryRun

	modules := ResolveModules(opts.Modules)

	for _, name := range modules {
		if runCtx.Err() != nil {
			run.Status = StatusFailed
			run.Reason = "cancelled"
			run.Stages = append(run.Stages, StageProgress{Stage: name, Skipped: true})
			continue
		}

		outcome := stage.Run(runCtx, name, o.Deps, stageOpts)
		progress := StageProgress{
			Stage:    name,
			OkCount:  outcome.OkCount,
			ErrCount: outcome.ErrCount,
			Duration: outcome.Duration,
		}
		if outcome.FatalErr != nil {
			progress.Error = outcome.FatalErr.Error()
		}
		run.Stages = append(run.Stages, progress)
		o.Registry.put(run)

		if name.Critical() && outcome.FatalErr != nil {
			run.Status = StatusFailed
			run.Reason = fmt.Sprintf("critical stage %s failed: %v", name, outcome.FatalErr)
			run.EndedAt = time.Now().UTC()
			o.Registry.put(run)
			return *run
		}
	}

	if run.Status != StatusFailed {
		run.Status = StatusCompleted
	}
	run.EndedAt = time.Now().UTC()
	o.Registry.put(run)
	return *run
}
