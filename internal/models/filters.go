package models

// StudentFilter narrows and pages student listings.
type StudentFilter struct {
	Search   string
	Page     int
	PageSize int
}

// CourseFilter narrows and pages course listings.
type CourseFilter struct {
	Search   string
	Page     int
	PageSize int
}
