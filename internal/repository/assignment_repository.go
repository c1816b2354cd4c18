package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/JonSnow1807/student-scheduler/internal/models"
)

// AssignmentRepository persists the output of scheduling passes.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListByTerm returns all assignments for a term ordered by student then
// section.
func (r *AssignmentRepository) ListByTerm(ctx context.Context, term string) (models.AssignmentSet, error) {
	const query = `SELECT id, student_id, course_id, section_id, term, created_at FROM assignments WHERE term = $1 ORDER BY student_id ASC, section_id ASC`
	var assignments models.AssignmentSet
	if err := r.db.SelectContext(ctx, &assignments, query, term); err != nil {
		return nil, fmt.Errorf("list assignments for term %s: %w", term, err)
	}
	return assignments, nil
}

// ListByStudent returns one student's assignments for a term.
func (r *AssignmentRepository) ListByStudent(ctx context.Context, term, studentID string) (models.AssignmentSet, error) {
	const query = `SELECT id, student_id, course_id, section_id, term, created_at FROM assignments WHERE term = $1 AND student_id = $2 ORDER BY section_id ASC`
	var assignments models.AssignmentSet
	if err := r.db.SelectContext(ctx, &assignments, query, term, studentID); err != nil {
		return nil, fmt.Errorf("list assignments for student %s: %w", studentID, err)
	}
	return assignments, nil
}

// ReplaceForTerm atomically swaps the term's assignments for a fresh set.
// Either the new pass output lands completely or the previous schedule
// survives untouched.
func (r *AssignmentRepository) ReplaceForTerm(ctx context.Context, term string, assignments models.AssignmentSet) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM assignments WHERE term = $1", term); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("clear assignments for term %s: %w", term, err)
	}
	const query = `INSERT INTO assignments (id, student_id, course_id, section_id, term, created_at)
        VALUES (:id, :student_id, :course_id, :section_id, :term, :created_at)`
	now := time.Now().UTC()
	for i := range assignments {
		if assignments[i].ID == "" {
			assignments[i].ID = uuid.NewString()
		}
		if assignments[i].CreatedAt.IsZero() {
			assignments[i].CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, assignments[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert assignment: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assignments for term %s: %w", term, err)
	}
	return nil
}
