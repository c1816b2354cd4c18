package models

// Preference priorities range from PriorityHighest (most wanted) to
// PriorityLowest. At most one preference may exist per (student, course).
const (
	PriorityHighest = 1
	PriorityLowest  = 5
)

// Preference is a student's ranked wish for a course.
type Preference struct {
	ID        string `db:"id" json:"id"`
	StudentID string `db:"student_id" json:"student_id"`
	CourseID  string `db:"course_id" json:"course_id"`
	Priority  int    `db:"priority" json:"priority"`
}
