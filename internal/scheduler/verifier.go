package scheduler

import (
	"fmt"
	"sort"

	"github.com/JonSnow1807/student-scheduler/internal/models"
)

// Violation kinds reported by Verify.
const (
	ViolationTimeConflict = "time_conflict"
	ViolationCapacity     = "capacity"
	ViolationLoad         = "load"
)

// Violation is one broken hard guarantee found in an assignment set.
type Violation struct {
	Kind      string `json:"kind"`
	StudentID string `json:"student_id,omitempty"`
	SectionID string `json:"section_id,omitempty"`
	Detail    string `json:"detail"`
}

// LoadBounds are the per-student limits checked by Verify.
type LoadBounds struct {
	Min int
	Max int
}

// Verify independently re-checks every hard guarantee against an assignment
// set: pairwise time conflicts per student using the full interval rule,
// section capacity, and per-student load bounds. It shares no state with the
// strategies; a clean result from a buggy strategy would still fail here.
//
// Load bounds cover every student in the roster, so a student left entirely
// unscheduled under a positive minimum is reported too. Violations are data
// for the caller to weigh, not errors.
func Verify(assignments models.AssignmentSet, sections []models.Section, timeslots []models.TimeSlot, students []models.Student, bounds LoadBounds) []Violation {
	slotByID := make(map[string]models.TimeSlot, len(timeslots))
	for _, slot := range timeslots {
		slotByID[slot.ID] = slot
	}
	sectionByID := make(map[string]models.Section, len(sections))
	for _, sec := range sections {
		sectionByID[sec.ID] = sec
	}

	var violations []Violation

	byStudent := make(map[string][]models.Assignment)
	seen := make(map[string]bool, len(students))
	var studentIDs []string
	for _, student := range students {
		if !seen[student.ID] {
			seen[student.ID] = true
			studentIDs = append(studentIDs, student.ID)
		}
	}
	for _, a := range assignments {
		if !seen[a.StudentID] {
			seen[a.StudentID] = true
			studentIDs = append(studentIDs, a.StudentID)
		}
		byStudent[a.StudentID] = append(byStudent[a.StudentID], a)
	}
	sort.Strings(studentIDs)

	for _, studentID := range studentIDs {
		own := byStudent[studentID]

		for i := 0; i < len(own); i++ {
			for j := i + 1; j < len(own); j++ {
				first, ok1 := slotOf(own[i], sectionByID, slotByID)
				second, ok2 := slotOf(own[j], sectionByID, slotByID)
				if !ok1 || !ok2 {
					continue
				}
				if first.Overlaps(second) {
					violations = append(violations, Violation{
						Kind:      ViolationTimeConflict,
						StudentID: studentID,
						SectionID: own[i].SectionID,
						Detail: fmt.Sprintf("sections %s and %s overlap on day %d",
							own[i].SectionID, own[j].SectionID, first.Day),
					})
				}
			}
		}

		if load := len(own); load < bounds.Min || load > bounds.Max {
			violations = append(violations, Violation{
				Kind:      ViolationLoad,
				StudentID: studentID,
				Detail:    fmt.Sprintf("load %d outside [%d, %d]", load, bounds.Min, bounds.Max),
			})
		}
	}

	enrolled := make(map[string]int)
	for _, a := range assignments {
		enrolled[a.SectionID]++
	}
	for _, sec := range sections {
		if enrolled[sec.ID] > sec.Capacity {
			violations = append(violations, Violation{
				Kind:      ViolationCapacity,
				SectionID: sec.ID,
				Detail:    fmt.Sprintf("section %s has %d enrolled over capacity %d", sec.ID, enrolled[sec.ID], sec.Capacity),
			})
		}
	}

	return violations
}

func slotOf(a models.Assignment, sections map[string]models.Section, slots map[string]models.TimeSlot) (models.TimeSlot, bool) {
	sec, ok := sections[a.SectionID]
	if !ok {
		return models.TimeSlot{}, false
	}
	slot, ok := slots[sec.TimeSlotID]
	return slot, ok
}
