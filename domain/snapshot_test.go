package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draft(title string) TaskDraft {
	return TaskDraft{
		Title:    title,
		Category: CategoryGeneral,
		Priority: PriorityMedium,
		DueDate:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestAddTask(t *testing.T) {
	snapshot := AddTask(nil, draft("buy milk"))
	require.Len(t, snapshot, 1)
	assert.NotEmpty(t, snapshot[0].ID)
	assert.Equal(t, "buy milk", snapshot[0].Title)
	assert.False(t, snapshot[0].Completed)

	snapshot = AddTask(snapshot, draft("water plants"))
	require.Len(t, snapshot, 2)
	assert.Equal(t, "buy milk", snapshot[0].Title, "existing order must be preserved")
	assert.Equal(t, "water plants", snapshot[1].Title)
	assert.NotEqual(t, snapshot[0].ID, snapshot[1].ID)
}

func TestAddTaskLeavesInputIntact(t *testing.T) {
	base := AddTask(nil, draft("one"))
	snapshot := make([]Task, len(base))
	copy(snapshot, base)

	_ = AddTask(base, draft("two"))
	assert.Equal(t, snapshot, base)
}

func TestUpdateTaskKeepsPositionAndID(t *testing.T) {
	snapshot := AddTask(nil, draft("a"))
	snapshot = AddTask(snapshot, draft("b"))
	snapshot = AddTask(snapshot, draft("c"))

	updated := snapshot[1]
	updated.Title = "b2"
	updated.Priority = PriorityHigh
	updated.Completed = true

	out := UpdateTask(snapshot, updated)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].Title)
	assert.Equal(t, "b2", out[1].Title)
	assert.Equal(t, snapshot[1].ID, out[1].ID)
	assert.True(t, out[1].Completed)
	assert.Equal(t, "c", out[2].Title)
}

func TestUpdateTaskUnknownIDIsNoop(t *testing.T) {
	snapshot := AddTask(nil, draft("a"))
	out := UpdateTask(snapshot, Task{ID: "missing", Title: "ghost"})
	assert.Equal(t, snapshot, out)
}

func TestRemoveTask(t *testing.T) {
	snapshot := AddTask(nil, draft("a"))
	snapshot = AddTask(snapshot, draft("b"))

	out := RemoveTask(snapshot, snapshot[0].ID)
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].Title)

	out = RemoveTask(out, "missing")
	assert.Len(t, out, 1)
}

func TestToggleTaskFlipsBothWays(t *testing.T) {
	snapshot := AddTask(nil, draft("a"))
	id := snapshot[0].ID

	out := ToggleTask(snapshot, id)
	assert.True(t, out[0].Completed)
	assert.False(t, snapshot[0].Completed, "input snapshot must not change")

	out = ToggleTask(out, id)
	assert.False(t, out[0].Completed)
}

func TestSetTaskCategory(t *testing.T) {
	snapshot := AddTask(nil, draft("a"))
	out := SetTaskCategory(snapshot, snapshot[0].ID, CategoryStudy)
	assert.Equal(t, CategoryStudy, out[0].Category)
	assert.Equal(t, CategoryGeneral, snapshot[0].Category)
}

func TestMergeTasksPreservesOrder(t *testing.T) {
	snapshot := AddTask(nil, draft("a"))
	incoming := StampDrafts([]TaskDraft{draft("x"), draft("y")}, time.Time{})

	out := MergeTasks(snapshot, incoming)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].Title)
	assert.Equal(t, "x", out[1].Title)
	assert.Equal(t, "y", out[2].Title)
}

func TestStampDrafts(t *testing.T) {
	due := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	drafts := []TaskDraft{
		{Title: "outline notes", Category: CategoryStudy, Priority: PriorityHigh},
		{Title: "go for a run", Category: CategoryHealth, Priority: PriorityLow},
	}

	tasks := StampDrafts(drafts, due)
	require.Len(t, tasks, 2)
	assert.NotEqual(t, tasks[0].ID, tasks[1].ID)
	for _, task := range tasks {
		assert.NotEmpty(t, task.ID)
		assert.False(t, task.Completed)
		assert.Equal(t, due, task.DueDate)
	}
}

func TestStampDraftsKeepsOwnDueDate(t *testing.T) {
	own := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	fallback := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)

	tasks := StampDrafts([]TaskDraft{
		{Title: "a", Category: CategoryGeneral, Priority: PriorityLow, DueDate: own},
		{Title: "b", Category: CategoryGeneral, Priority: PriorityLow},
	}, fallback)

	require.Len(t, tasks, 2)
	assert.Equal(t, own, tasks[0].DueDate)
	assert.Equal(t, fallback, tasks[1].DueDate)
}

// A full editing session: add, complete, recategorize, remove. Checks that
// ids stay stable and order is never disturbed by edits.
func TestSnapshotEditingSession(t *testing.T) {
	snapshot := AddTask(nil, draft("read chapter 4"))
	snapshot = AddTask(snapshot, draft("dentist appointment"))
	snapshot = AddTask(snapshot, draft("weekly review"))
	ids := []string{snapshot[0].ID, snapshot[1].ID, snapshot[2].ID}

	snapshot = ToggleTask(snapshot, ids[0])
	snapshot = SetTaskCategory(snapshot, ids[1], CategoryHealth)

	edited := snapshot[2]
	edited.Title = "monthly review"
	snapshot = UpdateTask(snapshot, edited)

	require.Len(t, snapshot, 3)
	for i, id := range ids {
		assert.Equal(t, id, snapshot[i].ID)
	}
	assert.True(t, snapshot[0].Completed)
	assert.Equal(t, CategoryHealth, snapshot[1].Category)
	assert.Equal(t, "monthly review", snapshot[2].Title)

	snapshot = RemoveTask(snapshot, ids[1])
	require.Len(t, snapshot, 2)
	assert.Equal(t, ids[0], snapshot[0].ID)
	assert.Equal(t, ids[2], snapshot[1].ID)
}

func TestDraftValidate(t *testing.T) {
	valid := draft("ok")
	assert.NoError(t, valid.Validate())

	missing := valid
	missing.Title = ""
	assert.Error(t, missing.Validate())

	badCategory := valid
	badCategory.Category = "Chores"
	assert.Error(t, badCategory.Validate())

	badPriority := valid
	badPriority.Priority = "Urgent"
	assert.Error(t, badPriority.Validate())
}
