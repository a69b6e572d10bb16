package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/config"
	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/repository/sqlite"
	"taskflow/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          sqlite.Repository
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
	conceal       bool
	now           func() time.Time
}

// NewTaskService creates a new TaskService instance. cfg may be nil for defaults.
func NewTaskService(repo sqlite.Repository, cfg *config.Config) TaskService {
	svc := &taskServiceImpl{
		repo:          repo,
		mapper:        domain.NewMapper(),
		taskValidator: validation.NewTaskValidator(),
		now:           utcNow,
	}
	if cfg != nil {
		svc.taskValidator = validation.NewTaskValidatorWithConfig(cfg)
		svc.conceal = cfg.Auth.ConcealForeignTasks
	}
	return svc
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func taskNotFound(id string) *errors.AppError {
	err := errors.NewNotFoundError("Task", id)
	err.Message = "Task not found"
	return err
}

// ListTasks returns the caller's tasks matching filter, newest first
func (t *taskServiceImpl) ListTasks(ctx context.Context, caller domain.Caller, filter domain.TaskFilter) ([]domain.Task, error) {
	dbTasks, err := t.repo.ListTasks(ctx, t.mapper.Filter.ToQuery(caller.UserID, filter))
	if err != nil {
		return nil, err
	}
	return t.mapper.Task.FromDatabaseSlice(dbTasks), nil
}

// CreateTask stores a new task owned by the caller
func (t *taskServiceImpl) CreateTask(ctx context.Context, caller domain.Caller, input domain.NewTask) (*domain.Task, error) {
	if err := t.taskValidator.ValidateNewTask(input); err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	task := input.Build(uuid.NewString(), caller.UserID, t.now())

	dbTask := t.mapper.Task.ToDatabase(task)
	if err := t.repo.CreateTask(ctx, &dbTask); err != nil {
		return nil, err
	}

	return &task, nil
}

// GetTask retrieves one of the caller's tasks
func (t *taskServiceImpl) GetTask(ctx context.Context, caller domain.Caller, id string) (*domain.Task, error) {
	return t.getOwnedTask(ctx, caller, id, "read")
}

// UpdateTask merges patch into one of the caller's tasks
func (t *taskServiceImpl) UpdateTask(ctx context.Context, caller domain.Caller, id string, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := t.getOwnedTask(ctx, caller, id, "update")
	if err != nil {
		return nil, err
	}

	if err := t.taskValidator.ValidateTaskPatch(patch); err != nil {
		return nil, errors.NewValidationError("invalid task update", err)
	}

	task.Apply(patch, t.now())

	dbTask := t.mapper.Task.ToDatabase(*task)
	if err := t.repo.UpdateTask(ctx, &dbTask); err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, taskNotFound(id)
		}
		return nil, err
	}

	return task, nil
}

// DeleteTask removes one of the caller's tasks
func (t *taskServiceImpl) DeleteTask(ctx context.Context, caller domain.Caller, id string) error {
	if _, err := t.getOwnedTask(ctx, caller, id, "delete"); err != nil {
		return err
	}

	if err := t.repo.DeleteTask(ctx, id); err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return taskNotFound(id)
		}
		return err
	}
	return nil
}

// getOwnedTask loads a task and checks ownership. Existence is checked
// first, so a foreign task reports AuthorizationError unless concealment
// is enabled, in which case it reports NotFoundError.
func (t *taskServiceImpl) getOwnedTask(ctx context.Context, caller domain.Caller, id string, operation string) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, taskNotFound(id)
	}

	dbTask, err := t.repo.GetTask(ctx, id)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, taskNotFound(id)
		}
		return nil, err
	}

	task := t.mapper.Task.FromDatabase(*dbTask)
	if !task.IsOwnedBy(caller.UserID) {
		if t.conceal {
			return nil, taskNotFound(id)
		}
		return nil, errors.NewAuthorizationError(operation, "task")
	}

	return &task, nil
}
