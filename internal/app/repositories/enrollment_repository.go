package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Enroll inserts the (student, course) pair. ON CONFLICT DO NOTHING against
// the unique constraint makes concurrent duplicate submissions collapse to
// a single row without an error.
func (r *EnrollmentRepository) Enroll(ctx context.Context, studentID, courseID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO enrollments (student_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (student_id, course_id) DO NOTHING`,
		studentID, courseID)

	if err != nil {
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	return nil
}

// IsEnrolled checks whether the student is enrolled in the course.
func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, studentID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2)`,
		studentID, courseID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}

	return exists, nil
}

// GetCourseIDsByStudent returns the set of course ids the student is
// enrolled in.
func (r *EnrollmentRepository) GetCourseIDsByStudent(ctx context.Context, studentID int64) (map[int64]struct{}, error) {
	rows, err := r.db.Query(ctx, `
		SELECT course_id FROM enrollments WHERE student_id = $1`,
		studentID)
	if err != nil {
		return nil, fmt.Errorf("error querying enrollments: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return ids, nil
}

// CountByStudent reports the number of enrollment rows for a student.
func (r *EnrollmentRepository) CountByStudent(ctx context.Context, studentID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM enrollments WHERE student_id = $1`,
		studentID).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("error counting enrollments: %w", err)
	}

	return count, nil
}
