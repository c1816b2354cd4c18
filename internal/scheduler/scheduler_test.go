package scheduler

import (
	"time"

	"github.com/JonSnow1807/student-scheduler/internal/models"
)

// fixtureInputs builds a small but complete pass: four students, three
// courses (one with a prerequisite), four timeslots with one overlapping
// pair, and planner-derived sections.
func fixtureInputs(cfg Config) Inputs {
	students := []models.Student{
		{ID: "s1", Code: "STU-001", FullName: "Ava Chen"},
		{ID: "s2", Code: "STU-002", FullName: "Ben Osei"},
		{ID: "s3", Code: "STU-003", FullName: "Cara Ilic"},
		{ID: "s4", Code: "STU-004", FullName: "Dev Rao"},
	}
	mathID := "c-math"
	courses := []models.Course{
		{ID: mathID, Code: "MATH101", Name: "Calculus I", Capacity: 4, Instructor: "Dr. Patel"},
		{ID: "c-phys", Code: "PHYS201", Name: "Mechanics", Capacity: 4, Instructor: "Dr. Gold", PrerequisiteID: &mathID},
		{ID: "c-hist", Code: "HIST110", Name: "World History", Capacity: 4, Instructor: "Dr. Mora"},
	}
	timeslots := []models.TimeSlot{
		{ID: "t1", Day: 0, StartMinute: 540, EndMinute: 600, Room: "A-101"},
		{ID: "t2", Day: 0, StartMinute: 570, EndMinute: 630, Room: "A-102"},
		{ID: "t3", Day: 0, StartMinute: 660, EndMinute: 720, Room: "A-103"},
		{ID: "t4", Day: 1, StartMinute: 540, EndMinute: 600, Room: "B-201"},
	}
	preferences := []models.Preference{
		{ID: "p1", StudentID: "s1", CourseID: mathID, Priority: 1},
		{ID: "p2", StudentID: "s1", CourseID: "c-hist", Priority: 2},
		{ID: "p3", StudentID: "s2", CourseID: mathID, Priority: 1},
		{ID: "p4", StudentID: "s2", CourseID: "c-phys", Priority: 2},
		{ID: "p5", StudentID: "s3", CourseID: "c-hist", Priority: 1},
		{ID: "p6", StudentID: "s3", CourseID: mathID, Priority: 3},
		{ID: "p7", StudentID: "s4", CourseID: mathID, Priority: 1},
		{ID: "p8", StudentID: "s4", CourseID: "c-hist", Priority: 2},
	}

	demand := map[string]int{}
	for _, pref := range preferences {
		demand[pref.CourseID]++
	}
	planner := NewPlanner(cfg)
	sections, err := planner.Plan(courses, timeslots, demand)
	if err != nil {
		panic(err)
	}

	return Inputs{
		Term:        "2026-fall",
		Students:    students,
		Courses:     courses,
		TimeSlots:   timeslots,
		Sections:    sections,
		Preferences: preferences,
		Groups:      BuildConflictGroups(timeslots),
	}
}

// testConfig keeps solves instant and the load floor open so the tiny
// catalog stays feasible.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MinLoad = 0
	cfg.TimeLimit = 5 * time.Second
	return cfg
}
