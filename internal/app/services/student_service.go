// Package services orchestrates the stores on behalf of the HTTP handlers.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/emre/coursehub/internal/app/models"
	"github.com/emre/coursehub/internal/app/repositories"
	"github.com/emre/coursehub/internal/pkg/apperrors"
	"github.com/emre/coursehub/internal/pkg/auth"
)

// StudentService handles registration and authentication.
type StudentService struct {
	students   repositories.IStudentRepository
	bcryptCost int
	dummyHash  string
	logger     zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(students repositories.IStudentRepository, bcryptCost int, logger zerolog.Logger) *StudentService {
	// Hashed at the same cost as real credentials so the unknown-email
	// authentication path costs the same as a wrong-password compare.
	dummyHash, err := auth.HashPassword("coursehub-timing-equalizer", bcryptCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to prepare dummy hash")
	}

	return &StudentService{
		students:   students,
		bcryptCost: bcryptCost,
		dummyHash:  dummyHash,
		logger:     logger,
	}
}

// Register hashes the password and persists the student. The EmailExists
// pre-check is advisory; a duplicate racing past it is caught by the
// storage constraint and reported the same way.
func (s *StudentService) Register(ctx context.Context, name, email, password string) (*models.Student, error) {
	exists, err := s.students.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	student := &models.Student{
		Name:     name,
		Email:    email,
		Password: hash,
	}
	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	s.logger.Info().Int64("studentID", student.ID).Msg("Student registered")

	student.Password = ""
	return student, nil
}

// Authenticate verifies the email/password pair. Unknown email and wrong
// password are indistinguishable to the caller: both return
// apperrors.ErrInvalidCredentials, and the unknown-email path burns a
// bcrypt compare against a dummy hash so the latency matches.
func (s *StudentService) Authenticate(ctx context.Context, email, password string) (*models.Student, error) {
	student, err := s.students.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			auth.CheckPassword(s.dummyHash, password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up student: %w", err)
	}

	if !auth.CheckPassword(student.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	student.Password = ""
	return student, nil
}
