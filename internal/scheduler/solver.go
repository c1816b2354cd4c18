package scheduler

import (
	"context"
	"time"
)

// Status is the outcome of a solve call.
type Status string

const (
	StatusOptimal           Status = "OPTIMAL"
	StatusFeasible          Status = "FEASIBLE"
	StatusInfeasible        Status = "INFEASIBLE"
	StatusTimeoutNoSolution Status = "TIMEOUT_NO_SOLUTION"

	// StatusComplete is reported by the greedy heuristic, which always
	// terminates with a constructively valid assignment set.
	StatusComplete Status = "COMPLETE"
)

// Diagnostics are surfaced to callers as-is; the engine never branches on
// them.
type Diagnostics struct {
	Conflicts int64         `json:"conflicts"`
	Decisions int64         `json:"decisions"`
	WallTime  time.Duration `json:"wall_time"`
	Solutions int           `json:"solutions"`
}

// Solution is the raw solver result: a status, one boolean per variable on
// OPTIMAL/FEASIBLE, the achieved objective value, and search diagnostics.
type Solution struct {
	Status      Status
	Values      []bool
	Objective   int
	Diagnostics Diagnostics
}

// Solver is the narrow adapter boundary to the external discrete
// optimization capability: model in, status and value vector out. The
// modeling logic in BuildModel never depends on a concrete solver, so the
// backing library is swappable behind this interface.
type Solver interface {
	Solve(ctx context.Context, m *Model, timeLimit time.Duration) (*Solution, error)
}
