package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/JonSnow1807/student-scheduler/internal/models"
)

// Optimizer is the exact strategy: it translates the pass inputs into a
// constraint model and delegates the search to a Solver. Infeasibility and
// timeouts are reported through RunStats.Status, never as errors.
type Optimizer struct {
	solver Solver
	config Config
	logger *zap.Logger
}

// NewOptimizer constructs the exact strategy.
func NewOptimizer(solver Solver, config Config, logger *zap.Logger) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{solver: solver, config: config.Normalize(), logger: logger}
}

// Name identifies the strategy in configuration and run stats.
func (o *Optimizer) Name() string { return "cpsat" }

// Optimize builds and solves the constraint model, then maps every true
// decision variable back to an assignment. On INFEASIBLE or
// TIMEOUT_NO_SOLUTION the assignment set is empty and the status carries the
// outcome.
func (o *Optimizer) Optimize(ctx context.Context, in Inputs) (models.AssignmentSet, RunStats, error) {
	start := time.Now()
	stats := RunStats{Strategy: o.Name()}

	model := BuildModel(in, o.config)
	o.logger.Info("constraint model built",
		zap.String("term", in.Term),
		zap.Int("variables", model.NumVars()),
		zap.Int("constraints", len(model.Constraints)),
	)

	sol, err := o.solver.Solve(ctx, model, o.config.TimeLimit)
	if err != nil {
		return nil, stats, err
	}

	stats.Status = sol.Status
	stats.ProvenOptimal = sol.Status == StatusOptimal
	stats.Objective = sol.Objective
	stats.SolverConflicts = sol.Diagnostics.Conflicts
	stats.SolverDecisions = sol.Diagnostics.Decisions
	stats.IntermediateSolutions = sol.Diagnostics.Solutions

	var assignments models.AssignmentSet
	if sol.Status == StatusOptimal || sol.Status == StatusFeasible {
		for i, value := range sol.Values {
			if !value || i >= len(model.Vars) {
				continue
			}
			meta := model.Vars[i]
			assignments = append(assignments, models.Assignment{
				StudentID: meta.StudentID,
				CourseID:  meta.CourseID,
				SectionID: meta.SectionID,
				Term:      in.Term,
			})
		}
	}
	stats.AssignmentCount = len(assignments)
	stats.Elapsed = time.Since(start)

	o.logger.Info("exact solve finished",
		zap.String("term", in.Term),
		zap.String("status", string(stats.Status)),
		zap.Int("assignments", stats.AssignmentCount),
		zap.Int("objective", stats.Objective),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return assignments, stats, nil
}
