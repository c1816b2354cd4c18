package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/JonSnow1807/student-scheduler/internal/models"
)

// PreferenceRepository manages student course preferences.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository constructs a PreferenceRepository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// ListAll returns every preference ordered by student, priority, course.
func (r *PreferenceRepository) ListAll(ctx context.Context) ([]models.Preference, error) {
	const query = `SELECT id, student_id, course_id, priority FROM preferences ORDER BY student_id ASC, priority ASC, course_id ASC`
	var preferences []models.Preference
	if err := r.db.SelectContext(ctx, &preferences, query); err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return preferences, nil
}

// ListByStudent returns one student's preferences, best priority first.
func (r *PreferenceRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Preference, error) {
	const query = `SELECT id, student_id, course_id, priority FROM preferences WHERE student_id = $1 ORDER BY priority ASC, course_id ASC`
	var preferences []models.Preference
	if err := r.db.SelectContext(ctx, &preferences, query, studentID); err != nil {
		return nil, fmt.Errorf("list preferences for student %s: %w", studentID, err)
	}
	return preferences, nil
}

// Upsert stores a preference, replacing the priority on the (student,
// course) pair if it already exists.
func (r *PreferenceRepository) Upsert(ctx context.Context, pref *models.Preference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	const query = `INSERT INTO preferences (id, student_id, course_id, priority)
        VALUES (:id, :student_id, :course_id, :priority)
        ON CONFLICT (student_id, course_id)
        DO UPDATE SET priority = EXCLUDED.priority`
	if _, err := r.db.NamedExecContext(ctx, query, pref); err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

// Delete removes a preference.
func (r *PreferenceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM preferences WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	return nil
}

// DemandByCourse counts preferences per course, the demand signal for
// section planning.
func (r *PreferenceRepository) DemandByCourse(ctx context.Context) (map[string]int, error) {
	const query = `SELECT course_id, COUNT(*) AS demand FROM preferences GROUP BY course_id`
	rows := []struct {
		CourseID string `db:"course_id"`
		Demand   int    `db:"demand"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count demand: %w", err)
	}
	demand := make(map[string]int, len(rows))
	for _, row := range rows {
		demand[row.CourseID] = row.Demand
	}
	return demand, nil
}
