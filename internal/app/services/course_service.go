package services

import (
	"context"
	"fmt"

	"github.com/emre/coursehub/internal/app/models"
	"github.com/emre/coursehub/internal/app/repositories"
)

// CourseWithStatus annotates a course with the current student's
// enrollment state.
type CourseWithStatus struct {
	Course   *models.Course
	Enrolled bool
}

// CourseService handles course listing and enrollment.
type CourseService struct {
	courses     repositories.ICourseRepository
	enrollments repositories.IEnrollmentRepository
}

// NewCourseService creates a new CourseService
func NewCourseService(courses repositories.ICourseRepository, enrollments repositories.IEnrollmentRepository) *CourseService {
	return &CourseService{
		courses:     courses,
		enrollments: enrollments,
	}
}

// ListForStudent returns all courses, newest first, each annotated with
// the student's enrollment state.
func (s *CourseService) ListForStudent(ctx context.Context, studentID int64) ([]CourseWithStatus, error) {
	courses, err := s.courses.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}

	enrolledIDs, err := s.enrollments.GetCourseIDsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error loading enrollments: %w", err)
	}

	annotated := make([]CourseWithStatus, 0, len(courses))
	for _, course := range courses {
		_, enrolled := enrolledIDs[course.ID]
		annotated = append(annotated, CourseWithStatus{Course: course, Enrolled: enrolled})
	}
	return annotated, nil
}

// GetDetail returns a course and whether the student is enrolled in it.
// Returns apperrors.ErrCourseNotFound for an unknown id.
func (s *CourseService) GetDetail(ctx context.Context, studentID, courseID int64) (*models.Course, bool, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, false, err
	}

	enrolled, err := s.enrollments.IsEnrolled(ctx, studentID, courseID)
	if err != nil {
		return nil, false, fmt.Errorf("error checking enrollment: %w", err)
	}

	return course, enrolled, nil
}

// Enroll records the student's enrollment in the course. Enrolling twice
// is a no-op. The course must exist.
func (s *CourseService) Enroll(ctx context.Context, studentID, courseID int64) error {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return err
	}
	return s.enrollments.Enroll(ctx, studentID, courseID)
}
