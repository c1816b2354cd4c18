package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonSnow1807/student-scheduler/internal/models"
)

func verifierFixture() ([]models.Section, []models.TimeSlot) {
	timeslots := []models.TimeSlot{
		{ID: "t1", Day: 0, StartMinute: 540, EndMinute: 600},
		{ID: "t2", Day: 0, StartMinute: 570, EndMinute: 630},
		{ID: "t3", Day: 0, StartMinute: 600, EndMinute: 660},
	}
	sections := []models.Section{
		{ID: "A-01", CourseID: "c1", TimeSlotID: "t1", Capacity: 2},
		{ID: "B-01", CourseID: "c2", TimeSlotID: "t2", Capacity: 2},
		{ID: "C-01", CourseID: "c3", TimeSlotID: "t3", Capacity: 2},
	}
	return sections, timeslots
}

func roster(ids ...string) []models.Student {
	students := make([]models.Student, 0, len(ids))
	for _, id := range ids {
		students = append(students, models.Student{ID: id})
	}
	return students
}

func TestVerifyCleanSchedule(t *testing.T) {
	sections, timeslots := verifierFixture()
	assignments := models.AssignmentSet{
		{StudentID: "s1", CourseID: "c1", SectionID: "A-01", Term: "2026-fall"},
		{StudentID: "s1", CourseID: "c3", SectionID: "C-01", Term: "2026-fall"},
		{StudentID: "s2", CourseID: "c2", SectionID: "B-01", Term: "2026-fall"},
	}

	violations := Verify(assignments, sections, timeslots, roster("s1", "s2"), LoadBounds{Min: 0, Max: 5})
	assert.Empty(t, violations)
}

func TestVerifyDetectsTimeConflict(t *testing.T) {
	sections, timeslots := verifierFixture()
	assignments := models.AssignmentSet{
		{StudentID: "s1", CourseID: "c1", SectionID: "A-01"},
		{StudentID: "s1", CourseID: "c2", SectionID: "B-01"}, // overlaps A-01
	}

	violations := Verify(assignments, sections, timeslots, roster("s1"), LoadBounds{Min: 0, Max: 5})
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationTimeConflict, violations[0].Kind)
	assert.Equal(t, "s1", violations[0].StudentID)
}

func TestVerifyAllowsBackToBackSlots(t *testing.T) {
	sections, timeslots := verifierFixture()
	// A-01 ends at 10:00 exactly when C-01 starts.
	assignments := models.AssignmentSet{
		{StudentID: "s1", CourseID: "c1", SectionID: "A-01"},
		{StudentID: "s1", CourseID: "c3", SectionID: "C-01"},
	}

	violations := Verify(assignments, sections, timeslots, roster("s1"), LoadBounds{Min: 0, Max: 5})
	assert.Empty(t, violations)
}

func TestVerifyDetectsCapacityOverflow(t *testing.T) {
	sections, timeslots := verifierFixture()
	assignments := models.AssignmentSet{
		{StudentID: "s1", CourseID: "c1", SectionID: "A-01"},
		{StudentID: "s2", CourseID: "c1", SectionID: "A-01"},
		{StudentID: "s3", CourseID: "c1", SectionID: "A-01"},
	}

	violations := Verify(assignments, sections, timeslots, roster("s1", "s2", "s3"), LoadBounds{Min: 0, Max: 5})
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationCapacity, violations[0].Kind)
	assert.Equal(t, "A-01", violations[0].SectionID)
}

func TestVerifyDetectsLoadBounds(t *testing.T) {
	sections, timeslots := verifierFixture()

	// Above the ceiling.
	over := models.AssignmentSet{
		{StudentID: "s1", CourseID: "c1", SectionID: "A-01"},
		{StudentID: "s1", CourseID: "c3", SectionID: "C-01"},
	}
	violations := Verify(over, sections, timeslots, roster("s1"), LoadBounds{Min: 0, Max: 1})
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationLoad, violations[0].Kind)

	// Below the floor.
	under := models.AssignmentSet{
		{StudentID: "s1", CourseID: "c1", SectionID: "A-01"},
	}
	violations = Verify(under, sections, timeslots, roster("s1"), LoadBounds{Min: 2, Max: 5})
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationLoad, violations[0].Kind)
	assert.Equal(t, "s1", violations[0].StudentID)
}

func TestVerifyReportsUnscheduledStudents(t *testing.T) {
	sections, timeslots := verifierFixture()

	// s2 is on the roster but received nothing; a positive floor makes that
	// a load violation even with zero assignments.
	assignments := models.AssignmentSet{
		{StudentID: "s1", CourseID: "c1", SectionID: "A-01"},
		{StudentID: "s1", CourseID: "c3", SectionID: "C-01"},
	}
	violations := Verify(assignments, sections, timeslots, roster("s1", "s2"), LoadBounds{Min: 2, Max: 5})
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationLoad, violations[0].Kind)
	assert.Equal(t, "s2", violations[0].StudentID)

	// With no floor an empty roster entry is fine.
	assert.Empty(t, Verify(assignments, sections, timeslots, roster("s1", "s2"), LoadBounds{Min: 0, Max: 5}))
}
