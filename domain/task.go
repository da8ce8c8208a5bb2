package domain

import "time"

// Category buckets a task for the board view.
type Category string

const (
	CategoryStudy    Category = "Study"
	CategoryHealth   Category = "Health"
	CategoryPersonal Category = "Personal"
	CategoryGeneral  Category = "General"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryStudy, CategoryHealth, CategoryPersonal, CategoryGeneral:
		return true
	default:
		return false
	}
}

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Task is a user-owned unit of work. ID is assigned once and never changes;
// every other field stays independently mutable after creation.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    Category  `json:"category"`
	Priority    Priority  `json:"priority"`
	Completed   bool      `json:"completed"`
	DueDate     time.Time `json:"dueDate"`
}

// TaskDraft is a task before the store has stamped it: no id and no
// completion state. The suggestion path leaves DueDate zero as well.
type TaskDraft struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    Category  `json:"category"`
	Priority    Priority  `json:"priority"`
	DueDate     time.Time `json:"dueDate"`
}

func (d TaskDraft) Validate() error {
	if d.Title == "" {
		return NewError(ErrCodeInvalid, "task title is required")
	}
	if !d.Category.IsValid() {
		return NewError(ErrCodeInvalid, "unknown task category")
	}
	if !d.Priority.IsValid() {
		return NewError(ErrCodeInvalid, "unknown task priority")
	}
	return nil
}
