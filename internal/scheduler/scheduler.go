package scheduler

import (
	"context"
	"time"

	"github.com/JonSnow1807/student-scheduler/internal/models"
)

// Config carries every tunable of the assignment engine for one pass.
type Config struct {
	StudentsPerSection   int
	MaxSectionsPerCourse int
	MinLoad              int
	MaxLoad              int
	WeightBase           int
	WeightStep           int
	UnpreferredPenalty   int
	TimeslotStride       int
	TimeLimit            time.Duration
	Seed                 int64
	TopTimeslots         int
}

// DefaultConfig returns the engine defaults used when a caller leaves a
// field unset.
func DefaultConfig() Config {
	return Config{
		StudentsPerSection:   40,
		MaxSectionsPerCourse: 5,
		MinLoad:              3,
		MaxLoad:              5,
		WeightBase:           11,
		WeightStep:           2,
		UnpreferredPenalty:   -2,
		TimeslotStride:       7,
		TimeLimit:            60 * time.Second,
		Seed:                 42,
		TopTimeslots:         10,
	}
}

// Normalize fills zero-valued fields from the defaults.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if c.StudentsPerSection <= 0 {
		c.StudentsPerSection = def.StudentsPerSection
	}
	if c.MaxSectionsPerCourse <= 0 {
		c.MaxSectionsPerCourse = def.MaxSectionsPerCourse
	}
	if c.MaxLoad <= 0 {
		c.MaxLoad = def.MaxLoad
	}
	if c.WeightBase <= 0 {
		c.WeightBase = def.WeightBase
	}
	if c.WeightStep <= 0 {
		c.WeightStep = def.WeightStep
	}
	if c.UnpreferredPenalty == 0 {
		c.UnpreferredPenalty = def.UnpreferredPenalty
	}
	if c.TimeslotStride <= 0 {
		c.TimeslotStride = def.TimeslotStride
	}
	if c.TimeLimit <= 0 {
		c.TimeLimit = def.TimeLimit
	}
	if c.TopTimeslots <= 0 {
		c.TopTimeslots = def.TopTimeslots
	}
	return c
}

// Inputs is the immutable snapshot a strategy operates on. Sections are
// pass-local (owned by the engine); everything else is read-only.
type Inputs struct {
	Term        string
	Students    []models.Student
	Courses     []models.Course
	TimeSlots   []models.TimeSlot
	Sections    []models.Section
	Preferences []models.Preference
	Groups      []ConflictGroup

	// ProcessingOrder lists student IDs in the order the greedy strategy
	// visits them. When empty, a permutation seeded from Config.Seed is used
	// so runs stay reproducible.
	ProcessingOrder []string
}

// RunStats describes one scheduling run for callers and audits.
type RunStats struct {
	Strategy        string        `json:"strategy"`
	Status          Status        `json:"status"`
	ProvenOptimal   bool          `json:"proven_optimal"`
	Objective       int           `json:"objective"`
	AssignmentCount int           `json:"assignment_count"`
	Elapsed         time.Duration `json:"elapsed"`

	// Solver diagnostics (exact strategy only). Surfaced, never consumed.
	SolverConflicts       int64 `json:"solver_conflicts,omitempty"`
	SolverDecisions       int64 `json:"solver_decisions,omitempty"`
	IntermediateSolutions int   `json:"intermediate_solutions,omitempty"`

	// Heuristic denial counters (greedy strategy only). These are expected
	// outcomes, not errors; they make the fairness trade-off observable.
	ConflictsAvoided   int `json:"conflicts_avoided,omitempty"`
	CapacityDenials    int `json:"capacity_denials,omitempty"`
	FirstChoiceDenials int `json:"first_choice_denials,omitempty"`
	UnmetPreferences   int `json:"unmet_preferences,omitempty"`
}

// Scheduler is the strategy capability shared by the exact optimizer and the
// greedy heuristic. Callers select an implementation by configuration; the
// Verifier and Metrics Engine only ever see the AssignmentSet output.
type Scheduler interface {
	Name() string
	Optimize(ctx context.Context, in Inputs) (models.AssignmentSet, RunStats, error)
}
