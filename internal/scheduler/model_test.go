package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constraintsOfKind(m *Model, kind string) []Constraint {
	var out []Constraint
	for _, c := range m.Constraints {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func TestBuildModelVariablesAndWeights(t *testing.T) {
	cfg := testConfig()
	in := fixtureInputs(cfg)

	m := BuildModel(in, cfg)
	require.Equal(t, len(in.Students)*len(in.Sections), m.NumVars())

	weightByPair := make(map[[2]string]int)
	for _, meta := range m.Vars {
		weightByPair[[2]string{meta.StudentID, meta.SectionID}] = meta.Weight
	}

	// s1 ranks MATH101 first: 11 - 2*1 = 9.
	assert.Equal(t, 9, weightByPair[[2]string{"s1", "MATH101-01"}])
	// s3 ranks MATH101 third: 11 - 2*3 = 5.
	assert.Equal(t, 5, weightByPair[[2]string{"s3", "MATH101-01"}])
	// s1 never asked for PHYS201, so filler weight applies.
	assert.Equal(t, cfg.UnpreferredPenalty, weightByPair[[2]string{"s1", "PHYS201-01"}])

	for _, term := range m.Objective {
		assert.NotZero(t, term.Weight, "zero-weight terms must be dropped from the objective")
	}
}

func TestBuildModelWeightsClampAtZero(t *testing.T) {
	cfg := testConfig()
	cfg.WeightBase = 5
	cfg.WeightStep = 2
	in := fixtureInputs(cfg)
	// s3's priority-3 preference would score 5 - 6 = -1 without clamping.
	m := BuildModel(in, cfg)

	for _, meta := range m.Vars {
		if meta.StudentID == "s3" && meta.CourseID == "c-math" {
			assert.Equal(t, 0, meta.Weight)
		}
	}
}

func TestBuildModelConstraintFamilies(t *testing.T) {
	cfg := testConfig()
	cfg.MinLoad = 2
	in := fixtureInputs(cfg)

	m := BuildModel(in, cfg)

	// One capacity constraint per section.
	capacity := constraintsOfKind(m, "capacity")
	require.Len(t, capacity, len(in.Sections))
	for _, c := range capacity {
		assert.Equal(t, AtMost, c.Op)
		assert.Len(t, c.Vars, len(in.Students))
	}

	// One load-upper and one load-lower constraint per student.
	assert.Len(t, constraintsOfKind(m, "load_upper"), len(in.Students))
	assert.Len(t, constraintsOfKind(m, "load_lower"), len(in.Students))

	// The fixture has overlapping slots, so every student gets time
	// exclusivity constraints.
	assert.NotEmpty(t, constraintsOfKind(m, "time_exclusivity"))
}

func TestBuildModelPrerequisiteCoupling(t *testing.T) {
	cfg := testConfig()
	in := fixtureInputs(cfg)

	m := BuildModel(in, cfg)
	prereqs := constraintsOfKind(m, "prerequisite")
	// PHYS201 requires MATH101; one coupling constraint per student per
	// advanced section.
	require.Len(t, prereqs, len(in.Students))

	for _, c := range prereqs {
		assert.Equal(t, AtLeast, c.Op)
		assert.Equal(t, 0, c.Bound)
		require.NotEmpty(t, c.Coeffs)
		assert.Equal(t, -1, c.Coeffs[len(c.Coeffs)-1], "advanced section enters negatively")
		for _, coeff := range c.Coeffs[:len(c.Coeffs)-1] {
			assert.Equal(t, 1, coeff)
		}
	}
}

func TestBuildModelRelaxesLoadFloorOnSmallCatalog(t *testing.T) {
	cfg := testConfig()
	cfg.MinLoad = 5
	in := fixtureInputs(cfg) // only three courses

	m := BuildModel(in, cfg)
	assert.Empty(t, constraintsOfKind(m, "load_lower"),
		"a floor above the distinct course count would make every student infeasible")
}
