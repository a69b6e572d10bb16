package sqlite

import "time"

// Task is one row of the tasks table.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      string
	Priority    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// User is one row of the users table.
// PasswordHash never leaves the storage and auth layers.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Bio          string
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TaskQuery holds the owner scope and the optional filters of a task listing.
// A nil filter is not applied.
type TaskQuery struct {
	OwnerID  string
	Status   *string
	Priority *string
	Search   *string
}
