package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonSnow1807/student-scheduler/internal/models"
)

func TestBuildReportCountsAndRates(t *testing.T) {
	cfg := testConfig()
	in := fixtureInputs(cfg)
	// s1 gets both wishes, s2 only the first, s3 only the first of two, s4
	// nothing.
	assignments := models.AssignmentSet{
		{StudentID: "s1", CourseID: "c-math", SectionID: "MATH101-01", Term: in.Term},
		{StudentID: "s1", CourseID: "c-hist", SectionID: "HIST110-01", Term: in.Term},
		{StudentID: "s2", CourseID: "c-math", SectionID: "MATH101-01", Term: in.Term},
		{StudentID: "s3", CourseID: "c-hist", SectionID: "HIST110-01", Term: in.Term},
	}

	report := BuildReport(in, assignments, cfg)

	assert.Equal(t, in.Term, report.Term)
	assert.Equal(t, 4, report.TotalStudents)
	assert.Equal(t, 3, report.StudentsScheduled)
	assert.Equal(t, 4, report.TotalAssignments)
	assert.InDelta(t, 1.3, report.AverageLoad, 0.001)

	// First choices: s1 and s2 met, s3 met (HIST110 is their top pick), s4
	// denied: 3 of 4.
	first := report.PrioritySatisfaction[models.PriorityHighest]
	assert.Equal(t, 3, first.Met)
	assert.Equal(t, 4, first.Total)
	assert.InDelta(t, 75.0, first.Rate, 0.001)
	assert.InDelta(t, 75.0, report.FirstChoiceRate, 0.001)

	assert.Equal(t, 1, report.Outcomes.Perfect)      // s1
	assert.Equal(t, 2, report.Outcomes.Satisfactory) // s2 and s3 at 50%
	assert.Equal(t, 1, report.Outcomes.Unscheduled)  // s4

	assert.Equal(t, map[int]int{0: 1, 1: 2, 2: 1}, report.LoadHistogram)
}

func TestBuildReportCourseUtilisation(t *testing.T) {
	cfg := testConfig()
	in := fixtureInputs(cfg)
	assignments := models.AssignmentSet{
		{StudentID: "s1", CourseID: "c-math", SectionID: "MATH101-01", Term: in.Term},
		{StudentID: "s2", CourseID: "c-math", SectionID: "MATH101-01", Term: in.Term},
	}

	report := BuildReport(in, assignments, cfg)
	require.Len(t, report.Courses, 3)

	byCode := make(map[string]CourseStat)
	for _, stat := range report.Courses {
		byCode[stat.Code] = stat
	}

	math := byCode["MATH101"]
	assert.Equal(t, 1, math.Sections)
	assert.Equal(t, 4, math.Capacity)
	assert.Equal(t, 2, math.Enrolled)
	assert.InDelta(t, 50.0, math.Utilization, 0.001)
	assert.Equal(t, 4, math.Demand)
	assert.InDelta(t, 1.0, math.DemandRatio, 0.001)

	hist := byCode["HIST110"]
	assert.Equal(t, 0, hist.Enrolled)
	assert.InDelta(t, 0.0, hist.Utilization, 0.001)
}

func TestBuildReportTimeslotPopularity(t *testing.T) {
	cfg := testConfig()
	cfg.TopTimeslots = 1
	in := fixtureInputs(cfg)
	assignments := models.AssignmentSet{
		{StudentID: "s1", CourseID: "c-math", SectionID: "MATH101-01", Term: in.Term},
		{StudentID: "s2", CourseID: "c-math", SectionID: "MATH101-01", Term: in.Term},
		{StudentID: "s1", CourseID: "c-hist", SectionID: "HIST110-01", Term: in.Term},
	}

	report := BuildReport(in, assignments, cfg)
	require.Len(t, report.TimeslotPopularity, 1, "ranking honours the configured cut-off")

	top := report.TimeslotPopularity[0]
	assert.Equal(t, 0, top.Day)
	assert.Equal(t, 540, top.StartMinute)
	assert.Equal(t, 2, top.Count)
}

func TestBuildReportIsReproducible(t *testing.T) {
	cfg := testConfig()
	in := fixtureInputs(cfg)
	assignments := models.AssignmentSet{
		{StudentID: "s1", CourseID: "c-math", SectionID: "MATH101-01", Term: in.Term},
	}

	first := BuildReport(in, assignments, cfg)
	second := BuildReport(in, assignments, cfg)

	first.GeneratedAt, second.GeneratedAt = time.Time{}, time.Time{}
	assert.Equal(t, first, second)
}

func TestBuildReportEmptyPass(t *testing.T) {
	cfg := testConfig()
	in := fixtureInputs(cfg)

	report := BuildReport(in, nil, cfg)
	assert.Zero(t, report.StudentsScheduled)
	assert.Zero(t, report.AverageLoad)
	assert.Equal(t, len(in.Students), report.Outcomes.Unscheduled)
	assert.Empty(t, report.TimeslotPopularity)
}
