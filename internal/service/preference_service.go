package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/JonSnow1807/student-scheduler/internal/models"
	appErrors "github.com/JonSnow1807/student-scheduler/pkg/errors"
)

type preferenceRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Preference, error)
	Upsert(ctx context.Context, pref *models.Preference) error
	Delete(ctx context.Context, id string) error
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type courseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// PreferenceRequest ranks a course for a student.
type PreferenceRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	CourseID  string `json:"course_id" validate:"required"`
	Priority  int    `json:"priority" validate:"required,min=1,max=5"`
}

// PreferenceService manages student wish lists.
type PreferenceService struct {
	repo      preferenceRepository
	students  studentFinder
	courses   courseFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPreferenceService constructs the preference service.
func NewPreferenceService(repo preferenceRepository, students studentFinder, courses courseFinder, validate *validator.Validate, logger *zap.Logger) *PreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{repo: repo, students: students, courses: courses, validator: validate, logger: logger}
}

// ListByStudent returns a student's ranked preferences.
func (s *PreferenceService) ListByStudent(ctx context.Context, studentID string) ([]models.Preference, error) {
	preferences, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list preferences")
	}
	return preferences, nil
}

// Upsert stores a ranked preference, replacing any previous priority for the
// same (student, course) pair.
func (s *PreferenceService) Upsert(ctx context.Context, req PreferenceRequest) (*models.Preference, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student does not exist")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course does not exist")
	}

	pref := &models.Preference{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Priority:  req.Priority,
	}
	if err := s.repo.Upsert(ctx, pref); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store preference")
	}
	return pref, nil
}

// Delete removes a preference.
func (s *PreferenceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete preference")
	}
	return nil
}
