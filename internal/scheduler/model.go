package scheduler

import (
	"github.com/JonSnow1807/student-scheduler/internal/models"
)

// CompareOp is the direction of a linear inequality constraint.
type CompareOp int

const (
	AtMost CompareOp = iota
	AtLeast
)

// Constraint is a linear inequality over boolean decision variables:
// sum(Coeffs[i] * Vars[i]) Op Bound. Vars are 1-based variable indices.
// Negative coefficients are permitted; adapters normalise them.
type Constraint struct {
	Kind   string
	Vars   []int
	Coeffs []int
	Op     CompareOp
	Bound  int
}

// ObjectiveTerm contributes Weight to the objective when its variable is
// true. The objective is maximised.
type ObjectiveTerm struct {
	Var    int
	Weight int
}

// VarMeta ties a decision variable back to its (student, section) pair.
type VarMeta struct {
	StudentID string
	SectionID string
	CourseID  string
	Weight    int
}

// Model is the solver-agnostic constraint program for one pass: one boolean
// variable per (student, section) pair, linear inequality constraints, and a
// linear maximisation objective. Building the model never solves anything.
type Model struct {
	Vars        []VarMeta // Vars[i] describes variable i+1
	Constraints []Constraint
	Objective   []ObjectiveTerm
}

// NumVars returns the number of decision variables.
func (m *Model) NumVars() int { return len(m.Vars) }

// BuildModel translates the pass inputs into a constraint model:
//
//   - course exclusivity: per student, at most one section of each course;
//   - time exclusivity: per student, at most one section per conflict group;
//   - capacity: per section, enrolment bounded by its capacity share;
//   - load bounds: per student, MinLoad <= total <= MaxLoad, with the lower
//     bound relaxed when the catalog cannot structurally provide MinLoad
//     distinct courses;
//   - prerequisite: an advanced section implies some section of the
//     prerequisite course for the same student.
//
// The objective rewards preferred courses with max(0, WeightBase -
// WeightStep*priority) and charges UnpreferredPenalty for filler
// assignments.
func BuildModel(in Inputs, cfg Config) *Model {
	cfg = cfg.Normalize()
	m := &Model{}

	sectionsByCourse := make(map[string][]models.Section)
	for _, sec := range in.Sections {
		sectionsByCourse[sec.CourseID] = append(sectionsByCourse[sec.CourseID], sec)
	}
	sectionsBySlot := make(map[string][]models.Section)
	for _, sec := range in.Sections {
		sectionsBySlot[sec.TimeSlotID] = append(sectionsBySlot[sec.TimeSlotID], sec)
	}

	prefLookup := make(map[string]map[string]int, len(in.Students))
	for _, pref := range in.Preferences {
		if prefLookup[pref.StudentID] == nil {
			prefLookup[pref.StudentID] = make(map[string]int)
		}
		prefLookup[pref.StudentID][pref.CourseID] = pref.Priority
	}

	// Variable numbering: students in input order, sections in input order.
	varIndex := make(map[string]map[string]int, len(in.Students)) // student -> section -> var
	for _, student := range in.Students {
		varIndex[student.ID] = make(map[string]int, len(in.Sections))
		for _, sec := range in.Sections {
			weight := cfg.UnpreferredPenalty
			if priority, ok := prefLookup[student.ID][sec.CourseID]; ok {
				weight = cfg.WeightBase - cfg.WeightStep*priority
				if weight < 0 {
					weight = 0
				}
			}
			m.Vars = append(m.Vars, VarMeta{
				StudentID: student.ID,
				SectionID: sec.ID,
				CourseID:  sec.CourseID,
				Weight:    weight,
			})
			v := len(m.Vars)
			varIndex[student.ID][sec.ID] = v
			if weight != 0 {
				m.Objective = append(m.Objective, ObjectiveTerm{Var: v, Weight: weight})
			}
		}
	}

	minLoad := cfg.MinLoad
	if len(sectionsByCourse) < minLoad {
		// The catalog cannot provide MinLoad distinct courses; forcing the
		// bound would make every student infeasible. The verifier still
		// reports the shortfall.
		minLoad = 0
	}

	for _, student := range in.Students {
		vars := varIndex[student.ID]

		// Course exclusivity.
		for _, course := range in.Courses {
			sections := sectionsByCourse[course.ID]
			if len(sections) < 2 {
				continue
			}
			m.Constraints = append(m.Constraints, atMostOne("course_exclusivity", vars, sectionIDs(sections)))
		}

		// Time exclusivity across conflict groups.
		for _, group := range in.Groups {
			var ids []string
			for _, slotID := range group.SlotIDs {
				for _, sec := range sectionsBySlot[slotID] {
					ids = append(ids, sec.ID)
				}
			}
			if len(ids) < 2 {
				continue
			}
			m.Constraints = append(m.Constraints, atMostOne("time_exclusivity", vars, ids))
		}

		// Sections sharing one timeslot always conflict, even when that slot
		// overlaps no other slot and so appears in no conflict group.
		for _, slot := range in.TimeSlots {
			sections := sectionsBySlot[slot.ID]
			if len(sections) < 2 {
				continue
			}
			m.Constraints = append(m.Constraints, atMostOne("time_exclusivity", vars, sectionIDs(sections)))
		}

		// Load bounds.
		all := make([]int, 0, len(in.Sections))
		for _, sec := range in.Sections {
			all = append(all, vars[sec.ID])
		}
		m.Constraints = append(m.Constraints, Constraint{
			Kind: "load_upper", Vars: all, Coeffs: ones(len(all)), Op: AtMost, Bound: cfg.MaxLoad,
		})
		if minLoad > 0 {
			m.Constraints = append(m.Constraints, Constraint{
				Kind: "load_lower", Vars: all, Coeffs: ones(len(all)), Op: AtLeast, Bound: minLoad,
			})
		}

		// Prerequisites: x[advanced section] <= sum x[prerequisite sections].
		for _, course := range in.Courses {
			if course.PrerequisiteID == nil {
				continue
			}
			prereqSections := sectionsByCourse[*course.PrerequisiteID]
			if len(prereqSections) == 0 {
				continue
			}
			for _, adv := range sectionsByCourse[course.ID] {
				cvars := make([]int, 0, len(prereqSections)+1)
				coeffs := make([]int, 0, len(prereqSections)+1)
				for _, pre := range prereqSections {
					cvars = append(cvars, vars[pre.ID])
					coeffs = append(coeffs, 1)
				}
				cvars = append(cvars, vars[adv.ID])
				coeffs = append(coeffs, -1)
				m.Constraints = append(m.Constraints, Constraint{
					Kind: "prerequisite", Vars: cvars, Coeffs: coeffs, Op: AtLeast, Bound: 0,
				})
			}
		}
	}

	// Section capacity across students.
	for _, sec := range in.Sections {
		cvars := make([]int, 0, len(in.Students))
		for _, student := range in.Students {
			cvars = append(cvars, varIndex[student.ID][sec.ID])
		}
		if len(cvars) == 0 {
			continue
		}
		m.Constraints = append(m.Constraints, Constraint{
			Kind: "capacity", Vars: cvars, Coeffs: ones(len(cvars)), Op: AtMost, Bound: sec.Capacity,
		})
	}

	return m
}

func atMostOne(kind string, vars map[string]int, sectionIDs []string) Constraint {
	ids := make([]int, 0, len(sectionIDs))
	for _, secID := range sectionIDs {
		ids = append(ids, vars[secID])
	}
	return Constraint{Kind: kind, Vars: ids, Coeffs: ones(len(ids)), Op: AtMost, Bound: 1}
}

func sectionIDs(sections []models.Section) []string {
	ids := make([]string, 0, len(sections))
	for _, sec := range sections {
		ids = append(ids, sec.ID)
	}
	return ids
}

func ones(n int) []int {
	coeffs := make([]int, n)
	for i := range coeffs {
		coeffs[i] = 1
	}
	return coeffs
}
