package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	gsat "github.com/crillab/gophersat/solver"
	"go.uber.org/zap"
)

// SATSolver adapts the gophersat pseudo-boolean optimizer to the Solver
// interface. It translates the maximisation objective into cost
// minimisation over negated literals and enforces a hard wall-clock limit;
// the search itself is a black box to the engine.
type SATSolver struct {
	logger *zap.Logger
}

// NewSATSolver constructs the adapter.
func NewSATSolver(logger *zap.Logger) *SATSolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SATSolver{logger: logger}
}

// Solve runs pseudo-boolean optimisation on the model.
func (s *SATSolver) Solve(ctx context.Context, m *Model, timeLimit time.Duration) (*Solution, error) {
	start := time.Now()
	if m.NumVars() == 0 {
		return &Solution{Status: StatusOptimal}, nil
	}

	constrs := make([]gsat.PBConstr, 0, len(m.Constraints))
	for _, c := range m.Constraints {
		if pb, ok := toPBConstr(c); ok {
			constrs = append(constrs, pb)
		}
	}

	prob := gsat.ParsePBConstrs(constrs)
	// The problem only learns variables from the constraints it was given,
	// and toPBConstr drops trivially satisfied ones. A variable appearing
	// nowhere else must still be registered or the cost function would point
	// past the problem's variable range.
	if prob.NbVars < m.NumVars() {
		prob.NbVars = m.NumVars()
	}

	// Maximising sum(w*x) is minimising sum_{w>0} w*(NOT x) plus
	// sum_{w<0} |w|*x; all cost coefficients stay non-negative.
	costLits := make([]gsat.Lit, 0, len(m.Objective))
	costCoeffs := make([]int, 0, len(m.Objective))
	for _, term := range m.Objective {
		switch {
		case term.Weight > 0:
			costLits = append(costLits, gsat.IntToLit(int32(-term.Var)))
			costCoeffs = append(costCoeffs, term.Weight)
		case term.Weight < 0:
			costLits = append(costLits, gsat.IntToLit(int32(term.Var)))
			costCoeffs = append(costCoeffs, -term.Weight)
		}
	}
	optimise := len(costLits) > 0
	if optimise {
		prob.SetCostFunc(costLits, costCoeffs)
	}

	sv := gsat.New(prob)
	sv.Verbose = false

	var res gsat.Result
	var timedOut atomic.Bool
	var solutions int64

	if optimise {
		results := make(chan gsat.Result)
		stop := make(chan struct{})
		finished := make(chan struct{})
		drained := make(chan struct{})

		go func() {
			defer close(drained)
			for range results {
				atomic.AddInt64(&solutions, 1)
			}
		}()
		go func() {
			timer := time.NewTimer(timeLimit)
			defer timer.Stop()
			select {
			case <-timer.C:
				timedOut.Store(true)
				close(stop)
			case <-ctx.Done():
				timedOut.Store(true)
				close(stop)
			case <-finished:
			}
		}()

		res = sv.Optimal(results, stop)
		close(finished)
		<-drained
	} else {
		// No objective: plain satisfiability is enough.
		status := sv.Solve()
		res = gsat.Result{Status: status}
		if status == gsat.Sat {
			res.Model = sv.Model()
		}
	}

	sol := &Solution{
		Diagnostics: Diagnostics{
			Conflicts: int64(sv.Stats.NbConflicts),
			Decisions: int64(sv.Stats.NbDecisions),
			WallTime:  time.Since(start),
			Solutions: int(atomic.LoadInt64(&solutions)),
		},
	}

	switch res.Status {
	case gsat.Unsat:
		// Unsatisfiability is a proof even when the clock ran out first.
		sol.Status = StatusInfeasible
	case gsat.Sat:
		if timedOut.Load() {
			sol.Status = StatusFeasible
		} else {
			sol.Status = StatusOptimal
		}
		sol.Values = make([]bool, m.NumVars())
		copy(sol.Values, res.Model)
		sol.Objective = evaluateObjective(m, sol.Values)
	default:
		sol.Status = StatusTimeoutNoSolution
	}

	s.logger.Debug("pb solve finished",
		zap.String("status", string(sol.Status)),
		zap.Int("objective", sol.Objective),
		zap.Duration("wall_time", sol.Diagnostics.WallTime),
		zap.Int("solutions", sol.Diagnostics.Solutions),
	)
	return sol, nil
}

// toPBConstr normalises a linear inequality into the at-least form with
// non-negative weights. Negative coefficients flip the literal
// (c*x == |c|*(NOT x) + c for boolean x); at-most constraints are negated
// wholesale. Trivially true constraints are dropped.
func toPBConstr(c Constraint) (gsat.PBConstr, bool) {
	lits := make([]int, len(c.Vars))
	coeffs := make([]int, len(c.Coeffs))
	bound := c.Bound

	switch c.Op {
	case AtLeast:
		copy(coeffs, c.Coeffs)
		copy(lits, c.Vars)
	case AtMost:
		// sum(c*x) <= b  <=>  sum(-c*x) >= -b
		for i, coeff := range c.Coeffs {
			coeffs[i] = -coeff
		}
		copy(lits, c.Vars)
		bound = -bound
	}

	for i, coeff := range coeffs {
		if coeff < 0 {
			coeffs[i] = -coeff
			lits[i] = -lits[i]
			bound += -coeff
		}
	}

	if bound <= 0 {
		return gsat.PBConstr{}, false
	}
	return gsat.PBConstr{Lits: lits, Weights: coeffs, AtLeast: bound}, true
}

func evaluateObjective(m *Model, values []bool) int {
	total := 0
	for _, term := range m.Objective {
		if term.Var-1 < len(values) && values[term.Var-1] {
			total += term.Weight
		}
	}
	return total
}
