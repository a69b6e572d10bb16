package domain

// TaskFilter narrows a task listing. A nil field is not applied.
// Status and Priority match exactly, Search matches a case-insensitive
// substring of the title or the description.
type TaskFilter struct {
	Status   *string
	Priority *string
	Search   *string
}

// NewTaskFilter builds a filter from raw query values, skipping empty ones.
func NewTaskFilter(status, priority, search string) TaskFilter {
	return TaskFilter{
		Status:   optional(status),
		Priority: optional(priority),
		Search:   optional(search),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
