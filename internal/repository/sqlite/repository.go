package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"taskflow/internal/errors"
	"taskflow/internal/repository/sqlite/schema"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Options tunes per-operation deadlines. Zero values mean no deadline.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// Repository defines the interface for database operations
type Repository interface {
	// Tasks
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context, query TaskQuery) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, id string) error

	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
}

// New creates a new SQLite repository instance without deadlines
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithOptions(dbPath, Options{})
}

// NewWithOptions opens the database at dbPath and bootstraps its schema
func NewWithOptions(dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// every connection to :memory: is a separate database
	if dbPath == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("configure database", err)
	}

	if err := schema.Apply(context.Background(), db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("apply schema", err)
	}

	return &SQLiteRepository{db: db, opts: opts}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) readCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opts.QueryTimeout)
}

func (r *SQLiteRepository) writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.WriteTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opts.WriteTimeout)
}

const taskColumns = `id, owner_id, title, description, status, priority, created_at, updated_at`

const userColumns = `id, name, email, password_hash, bio, avatar, created_at, updated_at`

// CreateTask inserts a new task row
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *Task) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	INSERT INTO tasks (` + taskColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	return ExecuteInsert(ctx, r.db, query, "task", "id",
		task.ID, task.OwnerID, task.Title, task.Description, task.Status, task.Priority,
		FormatTimeForDB(task.CreatedAt), FormatTimeForDB(task.UpdatedAt))
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (*Task, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanTask, "task", id, id)
}

// ListTasks returns the owner's tasks matching every non-nil filter, newest first
func (r *SQLiteRepository) ListTasks(ctx context.Context, q TaskQuery) ([]*Task, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	conditions := []string{"owner_id = ?"}
	args := []interface{}{q.OwnerID}

	if q.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *q.Status)
	}

	if q.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, *q.Priority)
	}

	if q.Search != nil {
		pattern := ContainsPattern(FoldText(*q.Search))
		conditions = append(conditions,
			`(`+foldFunction+`(title) LIKE ? ESCAPE '\' OR `+foldFunction+`(description) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY created_at DESC, rowid DESC`

	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks", args...)
}

// UpdateTask overwrites the mutable columns of a task
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *Task) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	UPDATE tasks
	SET title = ?, description = ?, status = ?, priority = ?, updated_at = ?
	WHERE id = ?`

	return ExecuteWithRowsAffected(ctx, r.db, query, "task", task.ID,
		task.Title, task.Description, task.Status, task.Priority,
		FormatTimeForDB(task.UpdatedAt), task.ID)
}

// DeleteTask deletes a task by ID
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	return ExecuteWithRowsAffected(ctx, r.db, "DELETE FROM tasks WHERE id = ?", "task", id, id)
}

// CreateUser inserts a new user; a taken email is a conflict
func (r *SQLiteRepository) CreateUser(ctx context.Context, user *User) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	INSERT INTO users (` + userColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	return ExecuteInsert(ctx, r.db, query, "user", "email",
		user.ID, user.Name, user.Email, user.PasswordHash, user.Bio, user.Avatar,
		FormatTimeForDB(user.CreatedAt), FormatTimeForDB(user.UpdatedAt))
}

// GetUser retrieves a user by ID
func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (*User, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanUser, "user", id, id)
}

// GetUserByEmail retrieves a user by email, ignoring case
func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = ? COLLATE NOCASE`
	return QuerySingle(ctx, r.db, query, ScanUser, "user", email, email)
}

// UpdateUser overwrites the profile columns of a user
func (r *SQLiteRepository) UpdateUser(ctx context.Context, user *User) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	UPDATE users
	SET name = ?, email = ?, password_hash = ?, bio = ?, avatar = ?, updated_at = ?
	WHERE id = ?`

	return ExecuteUpdate(ctx, r.db, query, "user", user.ID, "email",
		user.Name, user.Email, user.PasswordHash, user.Bio, user.Avatar,
		FormatTimeForDB(user.UpdatedAt), user.ID)
}
