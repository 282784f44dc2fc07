package models

import "time"

// Student represents a registered student account.
type Student struct {
	ID        int64
	Name      string
	Email     string
	Password  string // bcrypt hash, stripped before leaving the service layer
	CreatedAt time.Time
}
