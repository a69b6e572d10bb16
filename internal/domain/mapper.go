package domain

import (
	"taskflow/internal/repository/sqlite"
)

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToDatabase converts a domain Task to a database Task.
func (m *TaskMapper) ToDatabase(domainTask Task) sqlite.Task {
	return sqlite.Task{
		ID:          domainTask.ID,
		OwnerID:     domainTask.Owner,
		Title:       domainTask.Title,
		Description: domainTask.Description,
		Status:      string(domainTask.Status),
		Priority:    string(domainTask.Priority),
		CreatedAt:   domainTask.CreatedAt,
		UpdatedAt:   domainTask.UpdatedAt,
	}
}

// FromDatabase converts a database Task to a domain Task.
func (m *TaskMapper) FromDatabase(dbTask sqlite.Task) Task {
	return Task{
		ID:          dbTask.ID,
		Title:       dbTask.Title,
		Description: dbTask.Description,
		Status:      TaskStatus(dbTask.Status),
		Priority:    TaskPriority(dbTask.Priority),
		Owner:       dbTask.OwnerID,
		CreatedAt:   dbTask.CreatedAt,
		UpdatedAt:   dbTask.UpdatedAt,
	}
}

// FromDatabaseSlice converts database Tasks to domain Tasks.
// The result is never nil so that an empty listing encodes as [].
func (m *TaskMapper) FromDatabaseSlice(dbTasks []*sqlite.Task) []Task {
	domainTasks := make([]Task, 0, len(dbTasks))
	for _, task := range dbTasks {
		domainTasks = append(domainTasks, m.FromDatabase(*task))
	}
	return domainTasks
}

// UserMapper handles conversion between domain and database User models.
type UserMapper struct{}

// NewUserMapper creates a new UserMapper instance.
func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

// ToDatabase converts a domain User and its password hash to a database User.
func (m *UserMapper) ToDatabase(domainUser User, passwordHash string) sqlite.User {
	return sqlite.User{
		ID:           domainUser.ID,
		Name:         domainUser.Name,
		Email:        domainUser.Email,
		PasswordHash: passwordHash,
		Bio:          domainUser.Bio,
		Avatar:       domainUser.Avatar,
		CreatedAt:    domainUser.CreatedAt,
		UpdatedAt:    domainUser.UpdatedAt,
	}
}

// FromDatabase converts a database User to a domain User, dropping the hash.
func (m *UserMapper) FromDatabase(dbUser sqlite.User) User {
	return User{
		ID:        dbUser.ID,
		Name:      dbUser.Name,
		Email:     dbUser.Email,
		Bio:       dbUser.Bio,
		Avatar:    dbUser.Avatar,
		CreatedAt: dbUser.CreatedAt,
		UpdatedAt: dbUser.UpdatedAt,
	}
}

// FilterMapper converts a domain TaskFilter to an owner-scoped database query.
type FilterMapper struct{}

// NewFilterMapper creates a new FilterMapper instance.
func NewFilterMapper() *FilterMapper {
	return &FilterMapper{}
}

// ToQuery scopes filter to the given owner.
func (m *FilterMapper) ToQuery(ownerID string, filter TaskFilter) sqlite.TaskQuery {
	return sqlite.TaskQuery{
		OwnerID:  ownerID,
		Status:   filter.Status,
		Priority: filter.Priority,
		Search:   filter.Search,
	}
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task   *TaskMapper
	User   *UserMapper
	Filter *FilterMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task:   NewTaskMapper(),
		User:   NewUserMapper(),
		Filter: NewFilterMapper(),
	}
}
