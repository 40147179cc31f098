// Package bootstrap sequences the setup steps that bring the backend
// into a ready state.
//
// Each step exposes a satisfaction predicate and an apply operation, and
// every step is safe to re-run: a bootstrap that crashes halfway can be
// restarted and will skip whatever already holds. Steps execute in a
// fixed total order because each depends on its predecessors' side
// effects (seeding needs the migrated schema, the schema needs a
// reachable database).
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/seefood/mooring/internal/logger"
)

// Step is a named, idempotent setup action.
type Step interface {
	// Name identifies the step in logs and status output.
	Name() string

	// Satisfied reports whether the step's effect already holds. A
	// satisfied step is skipped by Run.
	Satisfied(ctx context.Context) (bool, error)

	// Apply performs the step's effect.
	Apply(ctx context.Context) error
}

// Optional marks steps whose failure must not abort the sequence.
// Implemented alongside Step.
type Optional interface {
	Optional() bool
}

// State is the outcome of a step within a run.
type State string

const (
	// StateSkipped means the step was already satisfied.
	StateSkipped State = "skipped"

	// StateApplied means Apply ran and succeeded.
	StateApplied State = "applied"

	// StateFailed means Apply ran and failed.
	StateFailed State = "failed"

	// StatePending means the step was not reached (status/dry-run, or a
	// preceding required step failed).
	StatePending State = "pending"
)

// Result records one step's outcome.
type Result struct {
	Name     string
	State    State
	Optional bool
	Err      error
	Elapsed  time.Duration
}

// Sequence executes steps in the order given.
type Sequence struct {
	steps []Step
}

// NewSequence builds a sequence over the given steps.
func NewSequence(steps ...Step) *Sequence {
	return &Sequence{steps: steps}
}

// Run executes the sequence. Steps already satisfied are skipped. A
// failing optional step is logged and the sequence continues; a failing
// required step aborts the run and its error is returned along with the
// results accumulated so far.
func (s *Sequence) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(s.steps))

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := s.runStep(ctx, step)
		results = append(results, res)

		if res.State == StateFailed && !res.Optional {
			// Remaining steps were never reached.
			for _, rest := range s.steps[i+1:] {
				results = append(results, Result{
					Name:     rest.Name(),
					State:    StatePending,
					Optional: isOptional(rest),
				})
			}
			return results, fmt.Errorf("step %q failed: %w", step.Name(), res.Err)
		}
	}
	return results, nil
}

// Status evaluates every step's satisfaction predicate without applying
// anything. Used by the status command and dry runs.
func (s *Sequence) Status(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(s.steps))

	for _, step := range s.steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := Result{Name: step.Name(), Optional: isOptional(step)}
		ok, err := step.Satisfied(ctx)
		switch {
		case err != nil:
			res.State = StatePending
			res.Err = err
		case ok:
			res.State = StateSkipped
		default:
			res.State = StatePending
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Sequence) runStep(ctx context.Context, step Step) Result {
	res := Result{Name: step.Name(), Optional: isOptional(step)}
	log := logger.With("step", step.Name())
	start := time.Now()

	ok, err := step.Satisfied(ctx)
	if err != nil {
		// The predicate could not be evaluated; Apply will surface the
		// real problem if there is one.
		log.Warn("could not check step state, applying anyway", "error", err)
	}
	if err == nil && ok {
		log.Info("step already satisfied, skipping")
		res.State = StateSkipped
		res.Elapsed = time.Since(start)
		return res
	}

	log.Info("applying step")
	if err := step.Apply(ctx); err != nil {
		res.Err = err
		res.State = StateFailed
		res.Elapsed = time.Since(start)
		if res.Optional {
			log.Warn("optional step failed, continuing", "error", err)
		} else {
			log.Error("step failed", "error", err)
		}
		return res
	}

	res.State = StateApplied
	res.Elapsed = time.Since(start)
	log.Info("step applied", "elapsed", res.Elapsed.Round(time.Millisecond).String())
	return res
}

func isOptional(step Step) bool {
	if o, ok := step.(Optional); ok {
		return o.Optional()
	}
	return false
}
