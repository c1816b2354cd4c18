package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestToPBConstrNormalisation(t *testing.T) {
	cases := []struct {
		name       string
		in         Constraint
		wantLits   []int
		wantCoeffs []int
		wantBound  int
		dropped    bool
	}{
		{
			name:       "at-least passes through",
			in:         Constraint{Vars: []int{1, 2}, Coeffs: []int{1, 1}, Op: AtLeast, Bound: 1},
			wantLits:   []int{1, 2},
			wantCoeffs: []int{1, 1},
			wantBound:  1,
		},
		{
			name:       "at-most-one becomes at-least over negations",
			in:         Constraint{Vars: []int{1, 2, 3}, Coeffs: []int{1, 1, 1}, Op: AtMost, Bound: 1},
			wantLits:   []int{-1, -2, -3},
			wantCoeffs: []int{1, 1, 1},
			wantBound:  2,
		},
		{
			name:       "negative coefficient flips one literal",
			in:         Constraint{Vars: []int{1, 2}, Coeffs: []int{1, -1}, Op: AtLeast, Bound: 0},
			wantLits:   []int{1, -2},
			wantCoeffs: []int{1, 1},
			wantBound:  1,
		},
		{
			name:    "trivially true constraint is dropped",
			in:      Constraint{Vars: []int{1, 2}, Coeffs: []int{1, 1}, Op: AtMost, Bound: 2},
			dropped: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pb, ok := toPBConstr(tc.in)
			if tc.dropped {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.wantLits, pb.Lits)
			assert.Equal(t, tc.wantCoeffs, pb.Weights)
			assert.Equal(t, tc.wantBound, pb.AtLeast)
		})
	}
}

func TestSATSolverMaximisesObjective(t *testing.T) {
	// Two mutually exclusive variables; the heavier one must win.
	m := &Model{
		Vars: []VarMeta{
			{StudentID: "s1", SectionID: "a", Weight: 5},
			{StudentID: "s1", SectionID: "b", Weight: 3},
		},
		Constraints: []Constraint{
			{Kind: "time_exclusivity", Vars: []int{1, 2}, Coeffs: []int{1, 1}, Op: AtMost, Bound: 1},
		},
		Objective: []ObjectiveTerm{{Var: 1, Weight: 5}, {Var: 2, Weight: 3}},
	}

	sol, err := NewSATSolver(zap.NewNop()).Solve(context.Background(), m, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	require.Len(t, sol.Values, 2)
	assert.True(t, sol.Values[0])
	assert.False(t, sol.Values[1])
	assert.Equal(t, 5, sol.Objective)
}

func TestSATSolverPenaltyTerms(t *testing.T) {
	// A forced variable with a negative weight still satisfies, and the
	// objective reflects the charge.
	m := &Model{
		Vars: []VarMeta{
			{StudentID: "s1", SectionID: "a", Weight: -2},
			{StudentID: "s1", SectionID: "b", Weight: 4},
		},
		Constraints: []Constraint{
			{Kind: "load_lower", Vars: []int{1, 2}, Coeffs: []int{1, 1}, Op: AtLeast, Bound: 2},
		},
		Objective: []ObjectiveTerm{{Var: 1, Weight: -2}, {Var: 2, Weight: 4}},
	}

	sol, err := NewSATSolver(zap.NewNop()).Solve(context.Background(), m, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.Equal(t, 2, sol.Objective)
}

func TestSATSolverInfeasible(t *testing.T) {
	m := &Model{
		Vars: []VarMeta{{StudentID: "s1", SectionID: "a", Weight: 1}},
		Constraints: []Constraint{
			{Kind: "load_lower", Vars: []int{1}, Coeffs: []int{1}, Op: AtLeast, Bound: 1},
			{Kind: "capacity", Vars: []int{1}, Coeffs: []int{1}, Op: AtMost, Bound: 0},
		},
		Objective: []ObjectiveTerm{{Var: 1, Weight: 1}},
	}

	sol, err := NewSATSolver(zap.NewNop()).Solve(context.Background(), m, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
	assert.Empty(t, sol.Values)
}

func TestSATSolverSlackConstraintsOnly(t *testing.T) {
	// Every constraint here is trivially satisfied and gets dropped during
	// normalisation, so the variables reach the solver only through the cost
	// function. The solve must still cover the full variable range.
	m := &Model{
		Vars: []VarMeta{
			{StudentID: "s1", SectionID: "a", Weight: 9},
			{StudentID: "s1", SectionID: "b", Weight: 7},
			{StudentID: "s2", SectionID: "a", Weight: 5},
		},
		Constraints: []Constraint{
			{Kind: "capacity", Vars: []int{1, 3}, Coeffs: []int{1, 1}, Op: AtMost, Bound: 2},
			{Kind: "capacity", Vars: []int{2}, Coeffs: []int{1}, Op: AtMost, Bound: 4},
			{Kind: "load_upper", Vars: []int{1, 2}, Coeffs: []int{1, 1}, Op: AtMost, Bound: 5},
		},
		Objective: []ObjectiveTerm{
			{Var: 1, Weight: 9},
			{Var: 2, Weight: 7},
			{Var: 3, Weight: 5},
		},
	}

	sol, err := NewSATSolver(zap.NewNop()).Solve(context.Background(), m, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	require.Len(t, sol.Values, 3)
	assert.True(t, sol.Values[0])
	assert.True(t, sol.Values[1])
	assert.True(t, sol.Values[2])
	assert.Equal(t, 21, sol.Objective)
}

func TestSATSolverEmptyModel(t *testing.T) {
	sol, err := NewSATSolver(nil).Solve(context.Background(), &Model{}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
}
