package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/JonSnow1807/student-scheduler/internal/dto"
	"github.com/JonSnow1807/student-scheduler/internal/models"
	"github.com/JonSnow1807/student-scheduler/internal/repository"
	"github.com/JonSnow1807/student-scheduler/internal/scheduler"
	"github.com/JonSnow1807/student-scheduler/pkg/config"
	appErrors "github.com/JonSnow1807/student-scheduler/pkg/errors"
	"github.com/JonSnow1807/student-scheduler/pkg/export"
)

type studentSource interface {
	ListAll(ctx context.Context) ([]models.Student, error)
}

type courseSource interface {
	ListAll(ctx context.Context) ([]models.Course, error)
}

type timeslotSource interface {
	ListAll(ctx context.Context) ([]models.TimeSlot, error)
}

type preferenceSource interface {
	ListAll(ctx context.Context) ([]models.Preference, error)
	DemandByCourse(ctx context.Context) (map[string]int, error)
}

type assignmentStore interface {
	ListByTerm(ctx context.Context, term string) (models.AssignmentSet, error)
	ListByStudent(ctx context.Context, term, studentID string) (models.AssignmentSet, error)
	ReplaceForTerm(ctx context.Context, term string, assignments models.AssignmentSet) error
}

// ScheduleService orchestrates scheduling passes: load, validate, plan,
// solve, verify, report, persist.
type ScheduleService struct {
	students    studentSource
	courses     courseSource
	timeslots   timeslotSource
	preferences preferenceSource
	assignments assignmentStore
	solver      scheduler.Solver
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         config.SchedulerConfig
}

// NewScheduleService constructs the schedule service.
func NewScheduleService(
	students studentSource,
	courses courseSource,
	timeslots timeslotSource,
	preferences preferenceSource,
	assignments assignmentStore,
	solver scheduler.Solver,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	cfg config.SchedulerConfig,
	logger *zap.Logger,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if solver == nil {
		solver = scheduler.NewSATSolver(logger)
	}
	return &ScheduleService{
		students:    students,
		courses:     courses,
		timeslots:   timeslots,
		preferences: preferences,
		assignments: assignments,
		solver:      solver,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
	}
}

// RunPass executes a full scheduling pass for the requested term. The
// previous schedule survives untouched unless the new pass verifies cleanly.
func (s *ScheduleService) RunPass(ctx context.Context, req dto.OptimizeScheduleRequest) (*dto.OptimizeScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid optimize payload")
	}

	engineCfg := s.engineConfig(req)
	in, err := s.loadInputs(ctx, req.Term, engineCfg)
	if err != nil {
		return nil, err
	}

	strategy, err := s.strategyFor(req.Strategy, engineCfg)
	if err != nil {
		return nil, err
	}

	assignments, stats, err := strategy.Optimize(ctx, in)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "scheduling pass failed")
	}

	resp := &dto.OptimizeScheduleResponse{Term: req.Term, Sections: len(in.Sections), Stats: stats}

	if stats.Status == scheduler.StatusInfeasible || stats.Status == scheduler.StatusTimeoutNoSolution {
		// Not a crash: the catalog cannot satisfy the hard constraints (or
		// the solver ran out of time). The previous schedule stays in place.
		s.metrics.ObservePass(stats.Strategy, string(stats.Status), 0, 0, stats.Elapsed)
		s.logger.Warn("scheduling pass produced no schedule",
			zap.String("term", req.Term),
			zap.String("status", string(stats.Status)),
		)
		return resp, nil
	}

	bounds := scheduler.LoadBounds{Min: engineCfg.MinLoad, Max: engineCfg.MaxLoad}
	if stats.Strategy == config.StrategyGreedy {
		// The heuristic never guarantees a load floor.
		bounds.Min = 0
	}
	violations := scheduler.Verify(assignments, in.Sections, in.TimeSlots, in.Students, bounds)

	// Time conflicts and capacity breaches mean a strategy defect and void
	// the pass. Load shortfalls can be legitimate (a student whose wanted
	// courses cannot physically reach minLoad); they are reported, not fatal.
	var loadViolations int
	for _, v := range violations {
		if v.Kind == scheduler.ViolationLoad {
			loadViolations++
			s.logger.Warn("load bound missed",
				zap.String("term", req.Term),
				zap.String("student_id", v.StudentID),
				zap.String("detail", v.Detail),
			)
			continue
		}
		s.logger.Error("hard guarantee violated",
			zap.String("term", req.Term),
			zap.String("kind", v.Kind),
			zap.String("detail", v.Detail),
		)
	}
	if hard := len(violations) - loadViolations; hard > 0 {
		s.metrics.ObservePass(stats.Strategy, "invalid", len(assignments), len(violations), stats.Elapsed)
		return nil, appErrors.Clone(appErrors.ErrConstraintViolation,
			fmt.Sprintf("verifier found %d violations", hard))
	}

	fillSections(in.Sections, assignments)
	report := scheduler.BuildReport(in, assignments, engineCfg)
	resp.Report = report

	if err := s.assignments.ReplaceForTerm(ctx, req.Term, assignments); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist assignments")
	}

	if err := s.cache.Set(ctx, repository.ReportKey(req.Term), report, s.cfg.ReportCacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.String("term", req.Term), zap.Error(err))
	}

	s.metrics.ObservePass(stats.Strategy, string(stats.Status), len(assignments), loadViolations, stats.Elapsed)
	s.logger.Info("scheduling pass complete",
		zap.String("term", req.Term),
		zap.String("strategy", stats.Strategy),
		zap.String("status", string(stats.Status)),
		zap.Int("assignments", len(assignments)),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return resp, nil
}

// Report returns the quality report for a term, rebuilding it from the
// persisted schedule on cache miss. The boolean indicates a cache hit.
func (s *ScheduleService) Report(ctx context.Context, term string) (*scheduler.Report, bool, error) {
	var cached scheduler.Report
	if hit, _ := s.cache.Get(ctx, repository.ReportKey(term), &cached); hit {
		return &cached, true, nil
	}

	assignments, err := s.assignments.ListByTerm(ctx, term)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	if len(assignments) == 0 {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no schedule exists for term %s", term))
	}

	// Section derivation is deterministic, so the pass-local sections can be
	// reproduced from the catalog and demand.
	engineCfg := s.engineConfig(dto.OptimizeScheduleRequest{Term: term})
	in, err := s.loadInputs(ctx, term, engineCfg)
	if err != nil {
		return nil, false, err
	}
	fillSections(in.Sections, assignments)

	report := scheduler.BuildReport(in, assignments, engineCfg)
	if err := s.cache.Set(ctx, repository.ReportKey(term), report, s.cfg.ReportCacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.String("term", term), zap.Error(err))
	}
	return report, false, nil
}

// Assignments lists the persisted schedule for a term, optionally narrowed
// to one student.
func (s *ScheduleService) Assignments(ctx context.Context, query dto.AssignmentQuery) (models.AssignmentSet, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment query")
	}
	if query.StudentID != "" {
		return s.assignments.ListByStudent(ctx, query.Term, query.StudentID)
	}
	return s.assignments.ListByTerm(ctx, query.Term)
}

// Export renders the term report as CSV or PDF and returns the payload with
// a suggested filename and content type.
func (s *ScheduleService) Export(ctx context.Context, query dto.ExportQuery) ([]byte, string, string, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export query")
	}

	report, _, err := s.Report(ctx, query.Term)
	if err != nil {
		return nil, "", "", err
	}
	doc := reportDocument(report)

	switch query.Format {
	case "pdf":
		payload, err := export.PDF(doc)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, fmt.Sprintf("schedule-report-%s.pdf", query.Term), "application/pdf", nil
	default:
		payload, err := export.CSV(doc)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, fmt.Sprintf("schedule-report-%s.csv", query.Term), "text/csv", nil
	}
}

// engineConfig merges the configured defaults with per-request overrides.
func (s *ScheduleService) engineConfig(req dto.OptimizeScheduleRequest) scheduler.Config {
	cfg := scheduler.Config{
		StudentsPerSection:   s.cfg.StudentsPerSection,
		MaxSectionsPerCourse: s.cfg.MaxSections,
		MinLoad:              s.cfg.MinLoad,
		MaxLoad:              s.cfg.MaxLoad,
		WeightBase:           s.cfg.WeightBase,
		WeightStep:           s.cfg.WeightStep,
		UnpreferredPenalty:   s.cfg.UnpreferredPenalty,
		TimeslotStride:       s.cfg.TimeslotStride,
		TimeLimit:            s.cfg.SolverTimeLimit,
		Seed:                 s.cfg.Seed,
		TopTimeslots:         s.cfg.TopTimeslots,
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	if req.TimeLimitSeconds > 0 {
		cfg.TimeLimit = time.Duration(req.TimeLimitSeconds) * time.Second
	}
	if req.MinLoad != nil {
		cfg.MinLoad = *req.MinLoad
	}
	if req.MaxLoad > 0 {
		cfg.MaxLoad = req.MaxLoad
	}
	return cfg.Normalize()
}

func (s *ScheduleService) strategyFor(name string, cfg scheduler.Config) (scheduler.Scheduler, error) {
	if name == "" {
		name = s.cfg.Strategy
	}
	switch name {
	case config.StrategyGreedy:
		return scheduler.NewGreedy(cfg, s.logger), nil
	case config.StrategyCPSAT, "":
		return scheduler.NewOptimizer(s.solver, cfg, s.logger), nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown strategy %q", name))
	}
}

// loadInputs assembles and validates the immutable snapshot for a pass.
func (s *ScheduleService) loadInputs(ctx context.Context, term string, cfg scheduler.Config) (scheduler.Inputs, error) {
	start := time.Now()

	students, err := s.students.ListAll(ctx)
	if err != nil {
		return scheduler.Inputs{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	courses, err := s.courses.ListAll(ctx)
	if err != nil {
		return scheduler.Inputs{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	timeslots, err := s.timeslots.ListAll(ctx)
	if err != nil {
		return scheduler.Inputs{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeslots")
	}
	preferences, err := s.preferences.ListAll(ctx)
	if err != nil {
		return scheduler.Inputs{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
	}
	demand, err := s.preferences.DemandByCourse(ctx)
	if err != nil {
		return scheduler.Inputs{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load demand")
	}
	s.metrics.ObserveDBQuery("scheduling_inputs", time.Since(start))

	if err := validateInputs(students, courses, preferences); err != nil {
		return scheduler.Inputs{}, err
	}

	planner := scheduler.NewPlanner(cfg)
	sections, err := planner.Plan(courses, timeslots, demand)
	if err != nil {
		return scheduler.Inputs{}, err
	}

	return scheduler.Inputs{
		Term:        term,
		Students:    students,
		Courses:     courses,
		TimeSlots:   timeslots,
		Sections:    sections,
		Preferences: preferences,
		Groups:      scheduler.BuildConflictGroups(timeslots),
	}, nil
}

// validateInputs rejects malformed catalog data before any planning starts.
func validateInputs(students []models.Student, courses []models.Course, preferences []models.Preference) error {
	if len(students) == 0 {
		return appErrors.Clone(appErrors.ErrConfiguration, "no students registered")
	}
	if len(courses) == 0 {
		return appErrors.Clone(appErrors.ErrConfiguration, "no courses in catalog")
	}

	studentIDs := make(map[string]bool, len(students))
	for _, student := range students {
		studentIDs[student.ID] = true
	}
	courseIDs := make(map[string]bool, len(courses))
	for _, course := range courses {
		courseIDs[course.ID] = true
	}
	for _, course := range courses {
		if course.PrerequisiteID != nil && !courseIDs[*course.PrerequisiteID] {
			return appErrors.Clone(appErrors.ErrConfiguration,
				fmt.Sprintf("course %s references unknown prerequisite %s", course.Code, *course.PrerequisiteID))
		}
	}

	seen := make(map[[2]string]bool, len(preferences))
	for _, pref := range preferences {
		if !studentIDs[pref.StudentID] {
			return appErrors.Clone(appErrors.ErrConfiguration,
				fmt.Sprintf("preference %s references unknown student %s", pref.ID, pref.StudentID))
		}
		if !courseIDs[pref.CourseID] {
			return appErrors.Clone(appErrors.ErrConfiguration,
				fmt.Sprintf("preference %s references unknown course %s", pref.ID, pref.CourseID))
		}
		if pref.Priority < models.PriorityHighest || pref.Priority > models.PriorityLowest {
			return appErrors.Clone(appErrors.ErrConfiguration,
				fmt.Sprintf("preference %s has priority %d outside [%d, %d]", pref.ID, pref.Priority, models.PriorityHighest, models.PriorityLowest))
		}
		key := [2]string{pref.StudentID, pref.CourseID}
		if seen[key] {
			return appErrors.Clone(appErrors.ErrConfiguration,
				fmt.Sprintf("student %s has duplicate preferences for course %s", pref.StudentID, pref.CourseID))
		}
		seen[key] = true
	}
	return nil
}

// fillSections sets the pass-local enrolment counters from the final set.
func fillSections(sections []models.Section, assignments models.AssignmentSet) {
	counts := make(map[string]int, len(sections))
	for _, a := range assignments {
		counts[a.SectionID]++
	}
	for i := range sections {
		sections[i].Enrolled = counts[sections[i].ID]
	}
}

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func formatSlot(day, startMinute int) string {
	name := "?"
	if day >= 0 && day < len(dayNames) {
		name = dayNames[day]
	}
	return fmt.Sprintf("%s %02d:%02d", name, startMinute/60, startMinute%60)
}

// reportDocument lays the quality report out for export rendering.
func reportDocument(report *scheduler.Report) export.Document {
	doc := export.Document{
		Title: fmt.Sprintf("Schedule report %s", report.Term),
		Summary: [][2]string{
			{"Term", report.Term},
			{"Students", fmt.Sprintf("%d", report.TotalStudents)},
			{"Scheduled", fmt.Sprintf("%d", report.StudentsScheduled)},
			{"Assignments", fmt.Sprintf("%d", report.TotalAssignments)},
			{"Average load", fmt.Sprintf("%.1f", report.AverageLoad)},
			{"First choice rate", fmt.Sprintf("%.1f%%", report.FirstChoiceRate)},
			{"Generated at", report.GeneratedAt.Format(time.RFC3339)},
		},
	}

	courses := export.Table{
		Title:   "Course utilisation",
		Headers: []string{"Code", "Name", "Sections", "Capacity", "Enrolled", "Utilisation %", "Demand", "Demand ratio"},
	}
	for _, stat := range report.Courses {
		courses.Rows = append(courses.Rows, []string{
			stat.Code,
			stat.Name,
			fmt.Sprintf("%d", stat.Sections),
			fmt.Sprintf("%d", stat.Capacity),
			fmt.Sprintf("%d", stat.Enrolled),
			fmt.Sprintf("%.1f", stat.Utilization),
			fmt.Sprintf("%d", stat.Demand),
			fmt.Sprintf("%.1f", stat.DemandRatio),
		})
	}
	doc.Tables = append(doc.Tables, courses)

	priorities := export.Table{
		Title:   "Preference satisfaction",
		Headers: []string{"Priority", "Met", "Total", "Rate %"},
	}
	for priority := models.PriorityHighest; priority <= models.PriorityLowest; priority++ {
		stat, ok := report.PrioritySatisfaction[priority]
		if !ok {
			continue
		}
		priorities.Rows = append(priorities.Rows, []string{
			fmt.Sprintf("%d", priority),
			fmt.Sprintf("%d", stat.Met),
			fmt.Sprintf("%d", stat.Total),
			fmt.Sprintf("%.1f", stat.Rate),
		})
	}
	doc.Tables = append(doc.Tables, priorities)

	slots := export.Table{
		Title:   "Busiest meeting windows",
		Headers: []string{"Window", "Assignments"},
	}
	for _, stat := range report.TimeslotPopularity {
		slots.Rows = append(slots.Rows, []string{
			formatSlot(stat.Day, stat.StartMinute),
			fmt.Sprintf("%d", stat.Count),
		})
	}
	doc.Tables = append(doc.Tables, slots)

	return doc
}
