package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// defaultCourses are inserted when the courses table is empty. There is no
// HTTP endpoint that writes courses.
var defaultCourses = []struct {
	Title       string
	Description string
}{
	{"Introduction to Programming", "Variables, control flow, and the basics of writing software."},
	{"Databases", "Relational modelling, SQL, and transactional guarantees."},
	{"Web Application Security", "Sessions, CSRF, password storage, and common attack surfaces."},
}

// CreateDefaultData seeds the course catalogue if it is empty.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	var count int
	if err := dbPool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count courses: %w", err)
	}

	if count > 0 {
		lgr.Debug().Int("courses", count).Msg("Course catalogue already populated, skipping seed")
		return nil
	}

	lgr.Info().Msg("Seeding default courses...")
	for _, course := range defaultCourses {
		_, err := dbPool.Exec(ctx,
			`INSERT INTO courses (title, description) VALUES ($1, $2)`,
			course.Title, course.Description)
		if err != nil {
			return fmt.Errorf("failed to seed course %q: %w", course.Title, err)
		}
	}

	lgr.Info().Int("courses", len(defaultCourses)).Msg("Default courses seeded")
	return nil
}
