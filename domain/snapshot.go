package domain

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot operations are the task store. Every operation is total and
// copy-on-write: it returns a new ordered slice and leaves its input intact,
// so a snapshot handed to the scheduler or the persistence layer can never
// change underneath them. Unknown ids are silent no-ops, not errors, because
// the editing surface always supplies an id from a prior read.

// AddTask stamps the draft with a fresh id and appends it.
func AddTask(snapshot []Task, draft TaskDraft) []Task {
	task := Task{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Priority:    draft.Priority,
		Completed:   false,
		DueDate:     draft.DueDate,
	}
	out := make([]Task, 0, len(snapshot)+1)
	out = append(out, snapshot...)
	return append(out, task)
}

// UpdateTask replaces the entry whose id matches, keeping its position.
func UpdateTask(snapshot []Task, updated Task) []Task {
	out := make([]Task, len(snapshot))
	for i, t := range snapshot {
		if t.ID == updated.ID {
			out[i] = updated
		} else {
			out[i] = t
		}
	}
	return out
}

// RemoveTask deletes the entry with the given id.
func RemoveTask(snapshot []Task, id string) []Task {
	out := make([]Task, 0, len(snapshot))
	for _, t := range snapshot {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// ToggleTask flips the completed flag on the matching entry.
func ToggleTask(snapshot []Task, id string) []Task {
	out := make([]Task, len(snapshot))
	for i, t := range snapshot {
		if t.ID == id {
			t.Completed = !t.Completed
		}
		out[i] = t
	}
	return out
}

// SetTaskCategory moves the matching entry to another board column.
func SetTaskCategory(snapshot []Task, id string, category Category) []Task {
	out := make([]Task, len(snapshot))
	for i, t := range snapshot {
		if t.ID == id {
			t.Category = category
		}
		out[i] = t
	}
	return out
}

// MergeTasks appends the given tasks after the existing ones, preserving
// order on both sides. Used when bulk-inserting suggested tasks.
func MergeTasks(snapshot []Task, tasks []Task) []Task {
	out := make([]Task, 0, len(snapshot)+len(tasks))
	out = append(out, snapshot...)
	return append(out, tasks...)
}

// StampDrafts turns suggestion drafts into full tasks: fresh unique ids,
// completed=false, and the caller-chosen due date on every draft that does
// not carry one of its own.
func StampDrafts(drafts []TaskDraft, dueDate time.Time) []Task {
	tasks := make([]Task, 0, len(drafts))
	for _, d := range drafts {
		due := d.DueDate
		if due.IsZero() {
			due = dueDate
		}
		tasks = append(tasks, Task{
			ID:          uuid.NewString(),
			Title:       d.Title,
			Description: d.Description,
			Category:    d.Category,
			Priority:    d.Priority,
			Completed:   false,
			DueDate:     due,
		})
	}
	return tasks
}
