package scheduler

import (
	"sort"
	"strings"

	"github.com/JonSnow1807/student-scheduler/internal/models"
)

// ConflictGroup is a maximal set of timeslots that pairwise overlap in day
// and time interval. The model builder emits an at-most-one constraint per
// student per group.
type ConflictGroup struct {
	SlotIDs []string
}

// BuildConflictGroups computes overlap groups with the half-open interval
// rule: slots on the same day conflict iff max(start) < min(end), so a slot
// ending exactly when another starts is not a conflict.
//
// For intervals, every maximal pairwise-overlapping set is the set of slots
// covering some slot's start time, so sweeping the distinct start times per
// day yields exactly the maximal groups without over-constraining transitive
// chains (09:00-10:00 and 10:00-11:00 never land in one group via
// 09:30-10:30).
func BuildConflictGroups(timeslots []models.TimeSlot) []ConflictGroup {
	byDay := make(map[int][]models.TimeSlot)
	for _, slot := range timeslots {
		byDay[slot.Day] = append(byDay[slot.Day], slot)
	}

	days := make([]int, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Ints(days)

	var groups []ConflictGroup
	seen := make(map[string]bool)
	for _, day := range days {
		slots := byDay[day]
		starts := make(map[int]bool)
		for _, slot := range slots {
			starts[slot.StartMinute] = true
		}
		points := make([]int, 0, len(starts))
		for start := range starts {
			points = append(points, start)
		}
		sort.Ints(points)

		for _, point := range points {
			var members []string
			for _, slot := range slots {
				if slot.StartMinute <= point && point < slot.EndMinute {
					members = append(members, slot.ID)
				}
			}
			if len(members) < 2 {
				continue
			}
			sort.Strings(members)
			key := strings.Join(members, "|")
			if seen[key] {
				continue
			}
			seen[key] = true
			groups = append(groups, ConflictGroup{SlotIDs: members})
		}
	}
	return groups
}
