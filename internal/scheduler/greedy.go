package scheduler

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/JonSnow1807/student-scheduler/internal/models"
)

// Greedy is the heuristic strategy: students are visited in a seeded random
// order and each takes the first open, non-conflicting section of every
// preferred course, best priority first. No backtracking, so a pass over n
// students and m sections costs O(n*m) and always terminates with a
// constructively valid assignment set.
type Greedy struct {
	config Config
	logger *zap.Logger
}

// NewGreedy constructs the heuristic strategy.
func NewGreedy(config Config, logger *zap.Logger) *Greedy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Greedy{config: config.Normalize(), logger: logger}
}

// Name identifies the strategy in configuration and run stats.
func (g *Greedy) Name() string { return "greedy" }

// Optimize runs the first-fit pass. Capacity and conflict denials are
// expected outcomes of the fairness trade-off, so they are counted in the
// stats rather than reported as errors. Identical inputs and seed yield a
// byte-identical assignment set.
func (g *Greedy) Optimize(ctx context.Context, in Inputs) (models.AssignmentSet, RunStats, error) {
	start := time.Now()
	stats := RunStats{Strategy: g.Name(), Status: StatusComplete}

	slotByID := make(map[string]models.TimeSlot, len(in.TimeSlots))
	for _, slot := range in.TimeSlots {
		slotByID[slot.ID] = slot
	}

	sectionsByCourse := make(map[string][]models.Section)
	for _, sec := range in.Sections {
		sectionsByCourse[sec.CourseID] = append(sectionsByCourse[sec.CourseID], sec)
	}
	for _, sections := range sectionsByCourse {
		sort.Slice(sections, func(i, j int) bool { return sections[i].Ordinal < sections[j].Ordinal })
	}

	prefsByStudent := make(map[string][]models.Preference)
	for _, pref := range in.Preferences {
		prefsByStudent[pref.StudentID] = append(prefsByStudent[pref.StudentID], pref)
	}
	for _, prefs := range prefsByStudent {
		sort.Slice(prefs, func(i, j int) bool {
			if prefs[i].Priority != prefs[j].Priority {
				return prefs[i].Priority < prefs[j].Priority
			}
			return prefs[i].CourseID < prefs[j].CourseID
		})
	}

	order := g.processingOrder(in)
	enrolled := make(map[string]int, len(in.Sections))
	var assignments models.AssignmentSet

	for _, student := range order {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		load := 0
		claimed := make(map[models.SlotKey]bool)
		var claimedSlots []models.TimeSlot

		for _, pref := range prefsByStudent[student.ID] {
			if load >= g.config.MaxLoad {
				break
			}

			assigned := false
			sawFull := false
			for _, sec := range sectionsByCourse[pref.CourseID] {
				if enrolled[sec.ID] >= sec.Capacity {
					sawFull = true
					continue
				}
				// The (day,start) key is a fast pre-check; the hard guarantee
				// needs the full interval rule against every claimed slot.
				slot := slotByID[sec.TimeSlotID]
				if claimed[slot.Key()] || overlapsAny(slot, claimedSlots) {
					stats.ConflictsAvoided++
					continue
				}

				enrolled[sec.ID]++
				claimed[slot.Key()] = true
				claimedSlots = append(claimedSlots, slot)
				load++
				assignments = append(assignments, models.Assignment{
					StudentID: student.ID,
					CourseID:  pref.CourseID,
					SectionID: sec.ID,
					Term:      in.Term,
				})
				stats.Objective += prefWeight(pref.Priority, g.config)
				assigned = true
				break
			}
			if !assigned {
				g.deny(&stats, pref, sawFull)
			}
		}
	}

	stats.AssignmentCount = len(assignments)
	stats.Elapsed = time.Since(start)

	g.logger.Info("greedy pass finished",
		zap.String("term", in.Term),
		zap.Int("students", len(order)),
		zap.Int("assignments", stats.AssignmentCount),
		zap.Int("unmet_preferences", stats.UnmetPreferences),
		zap.Int("capacity_denials", stats.CapacityDenials),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return assignments, stats, nil
}

// processingOrder resolves the student visit order: an explicit order wins,
// otherwise a permutation seeded from the configuration is applied to the
// students sorted by ID so the shuffle is independent of input ordering.
func (g *Greedy) processingOrder(in Inputs) []models.Student {
	byID := make(map[string]models.Student, len(in.Students))
	for _, student := range in.Students {
		byID[student.ID] = student
	}

	if len(in.ProcessingOrder) > 0 {
		order := make([]models.Student, 0, len(in.ProcessingOrder))
		for _, id := range in.ProcessingOrder {
			if student, ok := byID[id]; ok {
				order = append(order, student)
			}
		}
		return order
	}

	sorted := make([]models.Student, len(in.Students))
	copy(sorted, in.Students)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	rng := rand.New(rand.NewSource(g.config.Seed))
	order := make([]models.Student, len(sorted))
	for i, j := range rng.Perm(len(sorted)) {
		order[i] = sorted[j]
	}
	return order
}

func overlapsAny(slot models.TimeSlot, claimed []models.TimeSlot) bool {
	for _, other := range claimed {
		if slot.Overlaps(other) {
			return true
		}
	}
	return false
}

func (g *Greedy) deny(stats *RunStats, pref models.Preference, sawFull bool) {
	stats.UnmetPreferences++
	if pref.Priority == models.PriorityHighest {
		stats.FirstChoiceDenials++
	}
	if sawFull {
		stats.CapacityDenials++
	}
}

// prefWeight mirrors the exact strategy's reward so the two objectives are
// comparable.
func prefWeight(priority int, cfg Config) int {
	w := cfg.WeightBase - cfg.WeightStep*priority
	if w < 0 {
		return 0
	}
	return w
}
