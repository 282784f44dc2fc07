package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/emre/coursehub/internal/app/models"
	"github.com/emre/coursehub/internal/pkg/apperrors"
)

// MemoryStudentRepository is an in-memory IStudentRepository. The mutex is
// held across the uniqueness check and the insert, matching the atomicity
// the postgres constraint provides.
type MemoryStudentRepository struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]models.Student
	byEmail map[string]int64
}

// NewMemoryStudentRepository creates an empty in-memory student store.
func NewMemoryStudentRepository() *MemoryStudentRepository {
	return &MemoryStudentRepository{
		nextID:  1,
		byID:    make(map[int64]models.Student),
		byEmail: make(map[string]int64),
	}
}

func (r *MemoryStudentRepository) Create(_ context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[student.Email]; exists {
		return apperrors.ErrEmailAlreadyExists
	}

	student.ID = r.nextID
	student.CreatedAt = time.Now()
	r.nextID++

	r.byID[student.ID] = *student
	r.byEmail[student.Email] = student.ID
	return nil
}

func (r *MemoryStudentRepository) GetByEmail(_ context.Context, email string) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	s := r.byID[id]
	return &s, nil
}

func (r *MemoryStudentRepository) GetByID(_ context.Context, id int64) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return &s, nil
}

func (r *MemoryStudentRepository) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.byEmail[email]
	return exists, nil
}

// Count reports the number of stored students.
func (r *MemoryStudentRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// MemoryCourseRepository is an in-memory ICourseRepository.
type MemoryCourseRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]models.Course
}

// NewMemoryCourseRepository creates an empty in-memory course store.
func NewMemoryCourseRepository() *MemoryCourseRepository {
	return &MemoryCourseRepository{
		nextID: 1,
		byID:   make(map[int64]models.Course),
	}
}

// Add seeds a course and returns its id. Courses have no HTTP write path,
// so this is the only way they enter the store.
func (r *MemoryCourseRepository) Add(title, description string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.byID[id] = models.Course{
		ID:          id,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now(),
	}
	return id
}

func (r *MemoryCourseRepository) GetAll(_ context.Context) ([]*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	courses := make([]*models.Course, 0, len(r.byID))
	for id := range r.byID {
		c := r.byID[id]
		courses = append(courses, &c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID > courses[j].ID })
	return courses, nil
}

func (r *MemoryCourseRepository) GetByID(_ context.Context, id int64) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return &c, nil
}

type enrollmentKey struct {
	studentID int64
	courseID  int64
}

// MemoryEnrollmentRepository is an in-memory IEnrollmentRepository. The
// mutex spans check-and-insert so duplicate pairs cannot race in.
type MemoryEnrollmentRepository struct {
	mu    sync.Mutex
	pairs map[enrollmentKey]struct{}
}

// NewMemoryEnrollmentRepository creates an empty in-memory enrollment store.
func NewMemoryEnrollmentRepository() *MemoryEnrollmentRepository {
	return &MemoryEnrollmentRepository{pairs: make(map[enrollmentKey]struct{})}
}

func (r *MemoryEnrollmentRepository) Enroll(_ context.Context, studentID, courseID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pairs[enrollmentKey{studentID, courseID}] = struct{}{}
	return nil
}

func (r *MemoryEnrollmentRepository) IsEnrolled(_ context.Context, studentID, courseID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.pairs[enrollmentKey{studentID, courseID}]
	return ok, nil
}

func (r *MemoryEnrollmentRepository) GetCourseIDsByStudent(_ context.Context, studentID int64) (map[int64]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[int64]struct{})
	for key := range r.pairs {
		if key.studentID == studentID {
			ids[key.courseID] = struct{}{}
		}
	}
	return ids, nil
}

func (r *MemoryEnrollmentRepository) CountByStudent(_ context.Context, studentID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for key := range r.pairs {
		if key.studentID == studentID {
			count++
		}
	}
	return count, nil
}
