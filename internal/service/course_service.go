package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/JonSnow1807/student-scheduler/internal/models"
	appErrors "github.com/JonSnow1807/student-scheduler/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// CourseRequest holds the payload for creating or updating a course.
type CourseRequest struct {
	Code           string  `json:"code" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	Capacity       int     `json:"capacity" validate:"required,min=1"`
	Instructor     string  `json:"instructor"`
	PrerequisiteID *string `json:"prerequisite_id"`
}

// CourseService handles course catalog use-cases.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns courses and the total match count.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, total, nil
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a course to the catalog.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if err := s.checkPrerequisite(ctx, req.PrerequisiteID, ""); err != nil {
		return nil, err
	}

	course := &models.Course{
		Code:           req.Code,
		Name:           req.Name,
		Capacity:       req.Capacity,
		Instructor:     req.Instructor,
		PrerequisiteID: req.PrerequisiteID,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.logger.Info("course created", zap.String("id", course.ID), zap.String("code", course.Code))
	return course, nil
}

// Update modifies an existing course.
func (s *CourseService) Update(ctx context.Context, id string, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPrerequisite(ctx, req.PrerequisiteID, id); err != nil {
		return nil, err
	}

	course.Code = req.Code
	course.Name = req.Name
	course.Capacity = req.Capacity
	course.Instructor = req.Instructor
	course.PrerequisiteID = req.PrerequisiteID
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// Delete removes a course and detaches anything referencing it.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.logger.Info("course deleted", zap.String("id", id))
	return nil
}

// checkPrerequisite ensures the referenced course exists and is not the
// course itself.
func (s *CourseService) checkPrerequisite(ctx context.Context, prerequisiteID *string, selfID string) error {
	if prerequisiteID == nil {
		return nil
	}
	if selfID != "" && *prerequisiteID == selfID {
		return appErrors.Clone(appErrors.ErrValidation, "a course cannot be its own prerequisite")
	}
	if _, err := s.Get(ctx, *prerequisiteID); err != nil {
		if appErrors.HasCode(err, appErrors.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrValidation, "prerequisite course does not exist")
		}
		return err
	}
	return nil
}
