package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/JonSnow1807/student-scheduler/internal/models"
)

// PriorityStat is preference satisfaction at one priority level.
type PriorityStat struct {
	Met   int     `json:"met"`
	Total int     `json:"total"`
	Rate  float64 `json:"rate"`
}

// CourseStat aggregates one course across its sections.
type CourseStat struct {
	CourseID    string  `json:"course_id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Sections    int     `json:"sections"`
	Capacity    int     `json:"capacity"`
	Enrolled    int     `json:"enrolled"`
	Utilization float64 `json:"utilization"`
	Demand      int     `json:"demand"`
	DemandRatio float64 `json:"demand_ratio"`
}

// SlotStat is the assignment count for one (day, start) meeting window.
type SlotStat struct {
	Day         int `json:"day"`
	StartMinute int `json:"start_minute"`
	Count       int `json:"count"`
}

// Outcomes buckets students by the share of their preferences that were met:
// perfect 100%, good >= 70%, satisfactory >= 50%, poor below that, and
// unscheduled for students with no assignments at all.
type Outcomes struct {
	Perfect      int `json:"perfect"`
	Good         int `json:"good"`
	Satisfactory int `json:"satisfactory"`
	Poor         int `json:"poor"`
	Unscheduled  int `json:"unscheduled"`
}

// Report is the quality summary for one pass. Given the same inputs and
// assignment set it is reproducible apart from GeneratedAt.
type Report struct {
	Term                 string               `json:"term"`
	TotalStudents        int                  `json:"total_students"`
	StudentsScheduled    int                  `json:"students_scheduled"`
	TotalAssignments     int                  `json:"total_assignments"`
	AverageLoad          float64              `json:"average_load"`
	FirstChoiceRate      float64              `json:"first_choice_rate"`
	PrioritySatisfaction map[int]PriorityStat `json:"priority_satisfaction"`
	Courses              []CourseStat         `json:"courses"`
	LoadHistogram        map[int]int          `json:"load_histogram"`
	TimeslotPopularity   []SlotStat           `json:"timeslot_popularity"`
	Outcomes             Outcomes             `json:"outcomes"`
	GeneratedAt          time.Time            `json:"generated_at"`
}

// BuildReport computes the pass quality report from the inputs and the final
// assignment set. It only reads; nothing in the inputs is mutated.
func BuildReport(in Inputs, assignments models.AssignmentSet, cfg Config) *Report {
	cfg = cfg.Normalize()

	report := &Report{
		Term:                 in.Term,
		TotalStudents:        len(in.Students),
		TotalAssignments:     len(assignments),
		PrioritySatisfaction: make(map[int]PriorityStat),
		LoadHistogram:        make(map[int]int),
		GeneratedAt:          time.Now().UTC(),
	}

	assignedCourses := make(map[string]map[string]bool, len(in.Students)) // student -> course
	loadByStudent := make(map[string]int, len(in.Students))
	enrolledBySection := make(map[string]int)
	for _, a := range assignments {
		if assignedCourses[a.StudentID] == nil {
			assignedCourses[a.StudentID] = make(map[string]bool)
		}
		assignedCourses[a.StudentID][a.CourseID] = true
		loadByStudent[a.StudentID]++
		enrolledBySection[a.SectionID]++
	}

	report.StudentsScheduled = len(loadByStudent)
	if report.StudentsScheduled > 0 {
		report.AverageLoad = round1(float64(report.TotalAssignments) / float64(report.StudentsScheduled))
	}
	for _, student := range in.Students {
		report.LoadHistogram[loadByStudent[student.ID]]++
	}

	// Preference satisfaction per priority level, plus per-student ratios for
	// the outcome buckets.
	prefTotals := make(map[string]int, len(in.Students))
	prefMet := make(map[string]int, len(in.Students))
	for _, pref := range in.Preferences {
		stat := report.PrioritySatisfaction[pref.Priority]
		stat.Total++
		prefTotals[pref.StudentID]++
		if assignedCourses[pref.StudentID][pref.CourseID] {
			stat.Met++
			prefMet[pref.StudentID]++
		}
		report.PrioritySatisfaction[pref.Priority] = stat
	}
	for priority, stat := range report.PrioritySatisfaction {
		if stat.Total > 0 {
			stat.Rate = round1(100 * float64(stat.Met) / float64(stat.Total))
		}
		report.PrioritySatisfaction[priority] = stat
	}
	if first, ok := report.PrioritySatisfaction[models.PriorityHighest]; ok {
		report.FirstChoiceRate = first.Rate
	}

	for _, student := range in.Students {
		if loadByStudent[student.ID] == 0 {
			report.Outcomes.Unscheduled++
			continue
		}
		total := prefTotals[student.ID]
		if total == 0 {
			report.Outcomes.Perfect++
			continue
		}
		switch rate := 100 * float64(prefMet[student.ID]) / float64(total); {
		case rate >= 100:
			report.Outcomes.Perfect++
		case rate >= 70:
			report.Outcomes.Good++
		case rate >= 50:
			report.Outcomes.Satisfactory++
		default:
			report.Outcomes.Poor++
		}
	}

	// Course utilisation and demand pressure.
	demandByCourse := make(map[string]int, len(in.Courses))
	for _, pref := range in.Preferences {
		demandByCourse[pref.CourseID]++
	}
	capacityByCourse := make(map[string]int, len(in.Courses))
	sectionsByCourse := make(map[string]int, len(in.Courses))
	enrolledByCourse := make(map[string]int, len(in.Courses))
	for _, sec := range in.Sections {
		capacityByCourse[sec.CourseID] += sec.Capacity
		sectionsByCourse[sec.CourseID]++
		enrolledByCourse[sec.CourseID] += enrolledBySection[sec.ID]
	}
	for _, course := range in.Courses {
		stat := CourseStat{
			CourseID: course.ID,
			Code:     course.Code,
			Name:     course.Name,
			Sections: sectionsByCourse[course.ID],
			Capacity: capacityByCourse[course.ID],
			Enrolled: enrolledByCourse[course.ID],
			Demand:   demandByCourse[course.ID],
		}
		if stat.Capacity > 0 {
			stat.Utilization = round1(100 * float64(stat.Enrolled) / float64(stat.Capacity))
			stat.DemandRatio = round1(float64(stat.Demand) / float64(stat.Capacity))
		}
		report.Courses = append(report.Courses, stat)
	}
	sort.Slice(report.Courses, func(i, j int) bool { return report.Courses[i].Code < report.Courses[j].Code })

	report.TimeslotPopularity = topSlots(in, enrolledBySection, cfg.TopTimeslots)
	return report
}

// topSlots ranks (day, start) windows by assignment count, ties broken by
// day then start so the ranking is stable.
func topSlots(in Inputs, enrolledBySection map[string]int, limit int) []SlotStat {
	slotByID := make(map[string]models.TimeSlot, len(in.TimeSlots))
	for _, slot := range in.TimeSlots {
		slotByID[slot.ID] = slot
	}

	counts := make(map[models.SlotKey]int)
	for _, sec := range in.Sections {
		n := enrolledBySection[sec.ID]
		if n == 0 {
			continue
		}
		if slot, ok := slotByID[sec.TimeSlotID]; ok {
			counts[slot.Key()] += n
		}
	}

	stats := make([]SlotStat, 0, len(counts))
	for key, n := range counts {
		stats = append(stats, SlotStat{Day: key.Day, StartMinute: key.Start, Count: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		if stats[i].Day != stats[j].Day {
			return stats[i].Day < stats[j].Day
		}
		return stats[i].StartMinute < stats[j].StartMinute
	})
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
