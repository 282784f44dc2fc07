// Package repositories contains the persistence layer. Cross-request
// consistency (duplicate email, duplicate enrollment) is enforced here by
// uniqueness constraints, never by application-level checks alone.
package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/coursehub/internal/app/models"
)

// IStudentRepository defines student persistence operations.
type IStudentRepository interface {
	// Create persists a student and assigns its ID. A racing duplicate
	// email surfaces as apperrors.ErrEmailAlreadyExists.
	Create(ctx context.Context, student *models.Student) error
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	// EmailExists is an advisory pre-check only; the INSERT's unique
	// constraint is what actually prevents duplicates.
	EmailExists(ctx context.Context, email string) (bool, error)
}

// ICourseRepository defines course persistence operations. Courses are
// read-only from the application's perspective.
type ICourseRepository interface {
	// GetAll returns all courses, most recently created first.
	GetAll(ctx context.Context) ([]*models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// IEnrollmentRepository defines enrollment persistence operations.
type IEnrollmentRepository interface {
	// Enroll inserts the (student, course) pair. A duplicate pair is a
	// silent no-op.
	Enroll(ctx context.Context, studentID, courseID int64) error
	IsEnrolled(ctx context.Context, studentID, courseID int64) (bool, error)
	// GetCourseIDsByStudent returns the set of course ids the student is
	// enrolled in.
	GetCourseIDsByStudent(ctx context.Context, studentID int64) (map[int64]struct{}, error)
	// CountByStudent reports the number of enrollment rows for a student.
	CountByStudent(ctx context.Context, studentID int64) (int, error)
}

// Repositories bundles the application's stores.
type Repositories struct {
	Students    IStudentRepository
	Courses     ICourseRepository
	Enrollments IEnrollmentRepository
}

// NewRepositories creates postgres-backed repositories.
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Students:    NewStudentRepository(db),
		Courses:     NewCourseRepository(db),
		Enrollments: NewEnrollmentRepository(db),
	}
}

// NewMemoryRepositories creates in-memory repositories enforcing the same
// uniqueness guarantees as the postgres ones. Used by tests.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Students:    NewMemoryStudentRepository(),
		Courses:     NewMemoryCourseRepository(),
		Enrollments: NewMemoryEnrollmentRepository(),
	}
}
