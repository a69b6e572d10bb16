package services

import (
	"context"

	"taskflow/internal/domain"
)

// TaskService reads and writes the caller's own tasks.
// Every operation is scoped to the explicitly passed caller.
type TaskService interface {
	ListTasks(ctx context.Context, caller domain.Caller, filter domain.TaskFilter) ([]domain.Task, error)
	CreateTask(ctx context.Context, caller domain.Caller, input domain.NewTask) (*domain.Task, error)
	GetTask(ctx context.Context, caller domain.Caller, id string) (*domain.Task, error)
	UpdateTask(ctx context.Context, caller domain.Caller, id string, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, caller domain.Caller, id string) error
}

// AuthService resolves credentials to callers and manages sessions
type AuthService interface {
	// Authenticate turns an Authorization header value into a caller
	Authenticate(ctx context.Context, header string) (domain.Caller, error)

	Register(ctx context.Context, input domain.Registration) (*domain.Session, error)
	Login(ctx context.Context, credentials domain.Credentials) (*domain.Session, error)
	Logout(ctx context.Context, caller domain.Caller) error
}

// ProfileService handles the caller's own profile
type ProfileService interface {
	GetProfile(ctx context.Context, caller domain.Caller) (*domain.User, error)
	UpdateProfile(ctx context.Context, caller domain.Caller, patch domain.ProfilePatch) (*domain.User, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService    TaskService
	AuthService    AuthService
	ProfileService ProfileService
}
