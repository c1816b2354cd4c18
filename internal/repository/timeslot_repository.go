package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/JonSnow1807/student-scheduler/internal/models"
)

// TimeSlotRepository manages the timeslot catalog.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository constructs a TimeSlotRepository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// ListAll returns every timeslot ordered by day then start time. The order
// fixes the planner's rotation, so it must stay stable.
func (r *TimeSlotRepository) ListAll(ctx context.Context) ([]models.TimeSlot, error) {
	const query = `SELECT id, day, start_minute, end_minute, room FROM timeslots ORDER BY day ASC, start_minute ASC, id ASC`
	var timeslots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &timeslots, query); err != nil {
		return nil, fmt.Errorf("list timeslots: %w", err)
	}
	return timeslots, nil
}

// FindByID fetches a timeslot by ID.
func (r *TimeSlotRepository) FindByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	const query = `SELECT id, day, start_minute, end_minute, room FROM timeslots WHERE id = $1`
	var slot models.TimeSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a new timeslot.
func (r *TimeSlotRepository) Create(ctx context.Context, slot *models.TimeSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	const query = `INSERT INTO timeslots (id, day, start_minute, end_minute, room)
        VALUES (:id, :day, :start_minute, :end_minute, :room)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create timeslot: %w", err)
	}
	return nil
}

// Delete removes a timeslot.
func (r *TimeSlotRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM timeslots WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete timeslot: %w", err)
	}
	return nil
}
