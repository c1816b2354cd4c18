package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonSnow1807/student-scheduler/internal/models"
	appErrors "github.com/JonSnow1807/student-scheduler/pkg/errors"
)

func TestPlannerSectionsNeeded(t *testing.T) {
	planner := NewPlanner(Config{StudentsPerSection: 40, MaxSectionsPerCourse: 5})

	cases := []struct {
		name   string
		demand int
		want   int
	}{
		{"zero demand still offers one section", 0, 1},
		{"below threshold", 39, 1},
		{"exactly one full section", 40, 1},
		{"two sections", 80, 2},
		{"clamped at max", 400, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, planner.sectionsNeeded(tc.demand))
		})
	}
}

func TestPlannerPlanSplitsCapacity(t *testing.T) {
	planner := NewPlanner(testConfig())
	courses := []models.Course{
		{ID: "c1", Code: "MATH101", Capacity: 100},
	}
	timeslots := []models.TimeSlot{
		{ID: "t1", Day: 0, StartMinute: 540, EndMinute: 600},
		{ID: "t2", Day: 0, StartMinute: 600, EndMinute: 660},
		{ID: "t3", Day: 1, StartMinute: 540, EndMinute: 600},
	}

	sections, err := planner.Plan(courses, timeslots, map[string]int{"c1": 130})
	require.NoError(t, err)
	require.Len(t, sections, 3)

	total := 0
	for _, sec := range sections {
		total += sec.Capacity
		assert.Equal(t, "c1", sec.CourseID)
	}
	assert.Equal(t, 100, total, "section capacities must sum to the course capacity")
	assert.Equal(t, 33, sections[0].Capacity)
	assert.Equal(t, 33, sections[1].Capacity)
	assert.Equal(t, 34, sections[2].Capacity, "last section absorbs the remainder")
	assert.Equal(t, "MATH101-01", sections[0].ID)
	assert.Equal(t, "MATH101-03", sections[2].ID)
}

func TestPlannerPlanRotatesTimeslots(t *testing.T) {
	cfg := testConfig()
	cfg.TimeslotStride = 1
	planner := NewPlanner(cfg)
	courses := []models.Course{{ID: "c1", Code: "MATH101", Capacity: 80}}
	timeslots := []models.TimeSlot{
		{ID: "t1", Day: 0, StartMinute: 540, EndMinute: 600},
		{ID: "t2", Day: 0, StartMinute: 600, EndMinute: 660},
	}

	sections, err := planner.Plan(courses, timeslots, map[string]int{"c1": 80})
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "t1", sections[0].TimeSlotID)
	assert.Equal(t, "t2", sections[1].TimeSlotID)
}

func TestPlannerPlanConfigurationErrors(t *testing.T) {
	planner := NewPlanner(testConfig())
	slot := []models.TimeSlot{{ID: "t1", Day: 0, StartMinute: 540, EndMinute: 600}}

	_, err := planner.Plan([]models.Course{{ID: "c1", Code: "X", Capacity: 10}}, nil, nil)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConfiguration))

	_, err = planner.Plan([]models.Course{{ID: "c1", Code: "X", Capacity: 0}}, slot, nil)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConfiguration))
}
