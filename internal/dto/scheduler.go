package dto

import (
	"github.com/JonSnow1807/student-scheduler/internal/scheduler"
)

// OptimizeScheduleRequest triggers a scheduling pass for a term.
type OptimizeScheduleRequest struct {
	Term     string `json:"term" validate:"required"`
	Strategy string `json:"strategy" validate:"omitempty,oneof=cpsat greedy"`

	// Optional per-request overrides; zero values fall back to the
	// configured defaults.
	Seed             *int64 `json:"seed" validate:"omitempty"`
	TimeLimitSeconds int    `json:"timeLimitSeconds" validate:"omitempty,min=1,max=600"`
	MinLoad          *int   `json:"minLoad" validate:"omitempty,min=0,max=10"`
	MaxLoad          int    `json:"maxLoad" validate:"omitempty,min=1,max=10"`
}

// OptimizeScheduleResponse returns the pass outcome. On INFEASIBLE or
// TIMEOUT_NO_SOLUTION the stats carry the status and the report is nil.
type OptimizeScheduleResponse struct {
	Term     string             `json:"term"`
	Sections int                `json:"sections"`
	Stats    scheduler.RunStats `json:"stats"`
	Report   *scheduler.Report  `json:"report,omitempty"`
}

// AssignmentQuery filters assignment listings.
type AssignmentQuery struct {
	Term      string `form:"term" validate:"required"`
	StudentID string `form:"student_id"`
}

// ExportQuery selects the report export format.
type ExportQuery struct {
	Term   string `form:"term" validate:"required"`
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
