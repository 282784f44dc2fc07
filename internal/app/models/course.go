package models

import "time"

// Course represents a course a student can enroll in. Courses are seeded
// at startup; no endpoint creates or modifies them.
type Course struct {
	ID          int64
	Title       string
	Description string
	CreatedAt   time.Time
}
