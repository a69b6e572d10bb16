package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "taskflow/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "taskflow.db")
	repo, err := New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

var baseTime = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func newTask(id, owner, title string, offset time.Duration) *Task {
	created := baseTime.Add(offset)
	return &Task{
		ID:          id,
		OwnerID:     owner,
		Title:       title,
		Description: "description of " + title,
		Status:      "pending",
		Priority:    "medium",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func stringPtr(s string) *string {
	return &s
}

func TestNew_InMemory(t *testing.T) {
	repo, err := New(MemoryPath)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.CreateTask(ctx, newTask("t1", "u1", "one", 0)))

	got, err := repo.GetTask(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "one", got.Title)
}

func TestNew_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "taskflow.db")
	ctx := context.Background()

	repo, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, repo.CreateTask(ctx, newTask("t1", "u1", "one", 0)))
	require.NoError(t, repo.Close())

	repo, err = New(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.GetTask(ctx, "t1")
	assert.NoError(t, err)
}

func TestCreateAndGetTask(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	task := newTask("t1", "u1", "Buy milk", 0)
	require.NoError(t, repo.CreateTask(ctx, task))

	retrieved, err := repo.GetTask(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, task.ID, retrieved.ID)
	assert.Equal(t, task.OwnerID, retrieved.OwnerID)
	assert.Equal(t, task.Title, retrieved.Title)
	assert.Equal(t, task.Description, retrieved.Description)
	assert.Equal(t, task.Status, retrieved.Status)
	assert.Equal(t, task.Priority, retrieved.Priority)
	assert.True(t, task.CreatedAt.Equal(retrieved.CreatedAt))
	assert.True(t, task.UpdatedAt.Equal(retrieved.UpdatedAt))

	err = repo.CreateTask(ctx, newTask("t1", "u1", "dup", 0))
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))
}

func TestGetTask_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetTask(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestListTasks(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	seed := []*Task{
		newTask("a", "u1", "Write report", 0),
		newTask("b", "u1", "Buy MILK", time.Minute),
		newTask("c", "u1", "Call mom", 2*time.Minute),
		newTask("d", "u2", "Buy milk too", 3*time.Minute),
		newTask("e", "u1", "100% done", 4*time.Minute),
		newTask("f", "u3", "Ärger mit Über", 5*time.Minute),
	}
	seed[5].Description = "ÉCOLE"
	seed[0].Status = "completed"
	seed[0].Priority = "high"
	seed[2].Description = "about the milk delivery"
	seed[2].Priority = "high"

	for _, task := range seed {
		require.NoError(t, repo.CreateTask(ctx, task))
	}

	tests := []struct {
		name     string
		query    TaskQuery
		expected []string
	}{
		{
			name:     "Owner scope newest first",
			query:    TaskQuery{OwnerID: "u1"},
			expected: []string{"e", "c", "b", "a"},
		},
		{
			name:     "Other owner",
			query:    TaskQuery{OwnerID: "u2"},
			expected: []string{"d"},
		},
		{
			name:     "Unknown owner",
			query:    TaskQuery{OwnerID: "nobody"},
			expected: []string{},
		},
		{
			name:     "Status filter",
			query:    TaskQuery{OwnerID: "u1", Status: stringPtr("completed")},
			expected: []string{"a"},
		},
		{
			name:     "Priority filter",
			query:    TaskQuery{OwnerID: "u1", Priority: stringPtr("high")},
			expected: []string{"c", "a"},
		},
		{
			name:     "Search matches title or description ignoring case",
			query:    TaskQuery{OwnerID: "u1", Search: stringPtr("milk")},
			expected: []string{"c", "b"},
		},
		{
			name:     "Search treats percent literally",
			query:    TaskQuery{OwnerID: "u1", Search: stringPtr("100%")},
			expected: []string{"e"},
		},
		{
			name:     "Search treats underscore literally",
			query:    TaskQuery{OwnerID: "u1", Search: stringPtr("_")},
			expected: []string{},
		},
		{
			name:     "Search folds non-ASCII title",
			query:    TaskQuery{OwnerID: "u3", Search: stringPtr("ärger")},
			expected: []string{"f"},
		},
		{
			name:     "Search folds non-ASCII mid-title",
			query:    TaskQuery{OwnerID: "u3", Search: stringPtr("ÜBER")},
			expected: []string{"f"},
		},
		{
			name:     "Search folds non-ASCII description",
			query:    TaskQuery{OwnerID: "u3", Search: stringPtr("école")},
			expected: []string{"f"},
		},
		{
			name:     "Filters combine",
			query:    TaskQuery{OwnerID: "u1", Priority: stringPtr("high"), Search: stringPtr("report")},
			expected: []string{"a"},
		},
		{
			name:     "Unknown status matches nothing",
			query:    TaskQuery{OwnerID: "u1", Status: stringPtr("archived")},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := repo.ListTasks(ctx, tt.query)
			require.NoError(t, err)
			require.NotNil(t, tasks)

			ids := make([]string, 0, len(tasks))
			for _, task := range tasks {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestListTasks_SameCreatedAtNewestInsertFirst(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTask(ctx, newTask("first", "u1", "one", 0)))
	require.NoError(t, repo.CreateTask(ctx, newTask("second", "u1", "two", 0)))

	tasks, err := repo.ListTasks(ctx, TaskQuery{OwnerID: "u1"})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "second", tasks[0].ID)
}

func TestUpdateTask(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	task := newTask("t1", "u1", "Old", 0)
	require.NoError(t, repo.CreateTask(ctx, task))

	task.Title = "New"
	task.Status = "in-progress"
	task.UpdatedAt = baseTime.Add(time.Hour)
	require.NoError(t, repo.UpdateTask(ctx, task))

	retrieved, err := repo.GetTask(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "New", retrieved.Title)
	assert.Equal(t, "in-progress", retrieved.Status)
	assert.True(t, baseTime.Equal(retrieved.CreatedAt))
	assert.True(t, baseTime.Add(time.Hour).Equal(retrieved.UpdatedAt))

	err = repo.UpdateTask(ctx, newTask("missing", "u1", "x", 0))
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestDeleteTask(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTask(ctx, newTask("t1", "u1", "Doomed", 0)))
	require.NoError(t, repo.DeleteTask(ctx, "t1"))

	_, err := repo.GetTask(ctx, "t1")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	err = repo.DeleteTask(ctx, "t1")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func newUser(id, email string) *User {
	return &User{
		ID:           id,
		Name:         "User " + id,
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}
}

func TestUsers(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, newUser("u1", "ada@example.com")))
	require.NoError(t, repo.CreateUser(ctx, newUser("u2", "bob@example.com")))

	t.Run("Get by id", func(t *testing.T) {
		user, err := repo.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, "hash", user.PasswordHash)
	})

	t.Run("Get by email ignores case", func(t *testing.T) {
		user, err := repo.GetUserByEmail(ctx, "ADA@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
	})

	t.Run("Missing user", func(t *testing.T) {
		_, err := repo.GetUser(ctx, "nobody")
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

		_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("Duplicate email on create", func(t *testing.T) {
		err := repo.CreateUser(ctx, newUser("u3", "Ada@Example.com"))
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))
	})

	t.Run("Update profile", func(t *testing.T) {
		user, err := repo.GetUser(ctx, "u1")
		require.NoError(t, err)
		user.Name = "Ada L"
		user.Bio = "math"
		user.Avatar = "https://example.com/a.png"
		user.UpdatedAt = baseTime.Add(time.Hour)
		require.NoError(t, repo.UpdateUser(ctx, user))

		updated, err := repo.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Ada L", updated.Name)
		assert.Equal(t, "math", updated.Bio)
		assert.Equal(t, "https://example.com/a.png", updated.Avatar)
	})

	t.Run("Update to taken email", func(t *testing.T) {
		user, err := repo.GetUser(ctx, "u1")
		require.NoError(t, err)
		user.Email = "bob@example.com"
		err = repo.UpdateUser(ctx, user)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))
	})

	t.Run("Update missing user", func(t *testing.T) {
		err := repo.UpdateUser(ctx, newUser("ghost", "ghost@example.com"))
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
	})
}

func TestQueryTimeout(t *testing.T) {
	repo, err := NewWithOptions(MemoryPath, Options{QueryTimeout: time.Nanosecond})
	require.NoError(t, err)
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.ListTasks(ctx, TaskQuery{OwnerID: "u1"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))
}
