package models

// Section is one schedulable offering of a course at a specific timeslot with
// its own capacity share. Sections are derived fresh each planning pass and
// are never persisted as inputs; a new pass discards and regenerates them.
type Section struct {
	ID         string `json:"id"`
	CourseID   string `json:"course_id"`
	TimeSlotID string `json:"timeslot_id"`
	Capacity   int    `json:"capacity"`
	Ordinal    int    `json:"ordinal"`

	// Enrolled is a pass-local fill counter populated from the final
	// assignment set. It is owned by the pass and must not be shared across
	// passes.
	Enrolled int `json:"enrolled"`
}
