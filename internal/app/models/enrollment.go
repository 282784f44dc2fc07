package models

import "time"

// Enrollment records that a student has joined a course. The pair
// (StudentID, CourseID) is unique at the storage layer.
type Enrollment struct {
	ID        int64
	StudentID int64
	CourseID  int64
	CreatedAt time.Time
}
