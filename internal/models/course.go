package models

import "time"

// Course is an offering in the catalog. Capacity is the total headcount
// across all sections derived for the course in a pass.
type Course struct {
	ID             string    `db:"id" json:"id"`
	Code           string    `db:"code" json:"code"`
	Name           string    `db:"name" json:"name"`
	Capacity       int       `db:"capacity" json:"capacity"`
	Instructor     string    `db:"instructor" json:"instructor"`
	PrerequisiteID *string   `db:"prerequisite_id" json:"prerequisite_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
