package domain

import (
	"strings"
	"time"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// TaskStatuses lists every known status in workflow order.
var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

// IsValid reports whether s is a known status.
func (s TaskStatus) IsValid() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// TaskPriority ranks a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// TaskPriorities lists every known priority from lowest to highest.
var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

// IsValid reports whether p is a known priority.
func (p TaskPriority) IsValid() bool {
	for _, known := range TaskPriorities {
		if p == known {
			return true
		}
	}
	return false
}

// Task represents a task in the domain model.
// This is a pure domain model without database-specific concerns.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Owner       string       `json:"owner"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewTask is the input of a task creation. Status and Priority may be empty.
type NewTask struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
}

// Build turns the input into a task owned by owner, filling defaults.
func (n NewTask) Build(id, owner string, now time.Time) Task {
	task := Task{
		ID:          id,
		Title:       strings.TrimSpace(n.Title),
		Description: strings.TrimSpace(n.Description),
		Status:      StatusPending,
		Priority:    PriorityMedium,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if truthy(string(n.Status)) {
		task.Status = n.Status
	}
	if truthy(string(n.Priority)) {
		task.Priority = n.Priority
	}
	return task
}

// TaskPatch is a partial update. Empty fields leave the task unchanged,
// so a field can never be cleared through a patch.
type TaskPatch struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
}

// IsEmpty reports whether the patch would change nothing.
func (p TaskPatch) IsEmpty() bool {
	return !truthy(p.Title) && !truthy(p.Description) &&
		!truthy(string(p.Status)) && !truthy(string(p.Priority))
}

// Apply merges the non-empty fields of p into t and stamps UpdatedAt.
// ID, Owner and CreatedAt are never touched.
func (t *Task) Apply(p TaskPatch, now time.Time) {
	if truthy(p.Title) {
		t.Title = strings.TrimSpace(p.Title)
	}
	if truthy(p.Description) {
		t.Description = strings.TrimSpace(p.Description)
	}
	if truthy(string(p.Status)) {
		t.Status = p.Status
	}
	if truthy(string(p.Priority)) {
		t.Priority = p.Priority
	}
	t.UpdatedAt = now
}

// IsOwnedBy reports whether the task belongs to the given user.
func (t Task) IsOwnedBy(userID string) bool {
	return t.Owner == userID
}

func truthy(s string) bool {
	return strings.TrimSpace(s) != ""
}
