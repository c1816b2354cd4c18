package scheduler

import (
	"fmt"

	"github.com/JonSnow1807/student-scheduler/internal/models"
	appErrors "github.com/JonSnow1807/student-scheduler/pkg/errors"
)

// Planner derives the offered sections for a pass from raw courses and
// demand. Sections are pass-local; the planner never touches persistence.
type Planner struct {
	studentsPerSection int
	maxSections        int
	stride             int
}

// NewPlanner builds a planner from engine configuration.
func NewPlanner(cfg Config) *Planner {
	cfg = cfg.Normalize()
	return &Planner{
		studentsPerSection: cfg.StudentsPerSection,
		maxSections:        cfg.MaxSectionsPerCourse,
		stride:             cfg.TimeslotStride,
	}
}

// Plan creates sections for every course. Popular courses are split into up
// to maxSections sections sized by demand; zero-demand courses still receive
// one section so no course becomes unreachable. Timeslots rotate through the
// catalog with a fixed stride; collisions are tolerated here and resolved at
// solve time.
func (p *Planner) Plan(courses []models.Course, timeslots []models.TimeSlot, demandByCourse map[string]int) ([]models.Section, error) {
	if len(timeslots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrConfiguration, "no timeslots defined")
	}
	for _, course := range courses {
		if course.Capacity <= 0 {
			return nil, appErrors.Clone(appErrors.ErrConfiguration,
				fmt.Sprintf("course %s has non-positive capacity %d", course.Code, course.Capacity))
		}
	}

	sections := make([]models.Section, 0, len(courses))
	for ordinal, course := range courses {
		needed := p.sectionsNeeded(demandByCourse[course.ID])
		perSection := course.Capacity / needed

		for i := 0; i < needed; i++ {
			capacity := perSection
			if i == needed-1 {
				// The last section absorbs the integer-division remainder so
				// section capacities always sum to the course capacity.
				capacity = course.Capacity - perSection*(needed-1)
			}
			slot := timeslots[(ordinal+i*p.stride)%len(timeslots)]
			sections = append(sections, models.Section{
				ID:         fmt.Sprintf("%s-%02d", course.Code, i+1),
				CourseID:   course.ID,
				TimeSlotID: slot.ID,
				Capacity:   capacity,
				Ordinal:    i,
			})
		}
	}
	return sections, nil
}

// sectionsNeeded clamps demand/studentsPerSection to [1, maxSections].
func (p *Planner) sectionsNeeded(demand int) int {
	needed := demand / p.studentsPerSection
	if needed < 1 {
		return 1
	}
	if needed > p.maxSections {
		return p.maxSections
	}
	return needed
}
