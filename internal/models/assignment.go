package models

import "time"

// Assignment binds a student to one section of a course for a term. The
// engine owns assignments for the duration of a pass; persistence replaces
// the previous pass's output wholesale.
type Assignment struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	SectionID string    `db:"section_id" json:"section_id"`
	Term      string    `db:"term" json:"term"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AssignmentSet is the common output of both scheduling strategies.
type AssignmentSet []Assignment
