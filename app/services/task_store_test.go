package services

import (
	"errors"
	"testing"
	"time"

	"taskmaster/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-05-01", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{" 2025-05-01 ", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-05-01T09:30:00Z", time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)},
		{"2025-05-01T09:30:00.250Z", time.Date(2025, 5, 1, 9, 30, 0, 250000000, time.UTC)},
		{"2025-05-01T11:30:00+02:00", time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)},
		{"2025-05-01T09:30:00", time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDueDate(tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	for _, raw := range []string{"", "   ", "05/01/2025", "tomorrow", "2025-13-01"} {
		t.Run("invalid "+raw, func(t *testing.T) {
			_, err := ParseDueDate(raw)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "dueDate", verr.Field)
		})
	}
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID(newID()))
	assert.True(t, ValidID("6f1c1f8e-4a1b-4d0e-9a56-6a3f8a4d2b11"))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("507f1f77bcf86cd799439011"))
	assert.False(t, ValidID("today"))
}

func TestApplyPatch(t *testing.T) {
	created := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	task := models.Task{
		ID:        "6f1c1f8e-4a1b-4d0e-9a56-6a3f8a4d2b11",
		Title:     "Original",
		Priority:  models.PriorityMedium,
		DueDate:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: created,
		UpdatedAt: created,
	}
	clock := fixedClock(created.Add(time.Hour), time.Second)

	t.Run("empty patch only touches updatedAt", func(t *testing.T) {
		next, err := applyPatch(task, models.TaskPatch{}, clock)
		require.NoError(t, err)
		assert.Equal(t, task.Title, next.Title)
		assert.Equal(t, task.ID, next.ID)
		assert.True(t, next.CreatedAt.Equal(task.CreatedAt))
		assert.True(t, next.UpdatedAt.After(task.UpdatedAt))
	})

	t.Run("description can be cleared", func(t *testing.T) {
		withDesc := task
		withDesc.Description = "notes"
		empty := ""
		next, err := applyPatch(withDesc, models.TaskPatch{Description: &empty}, clock)
		require.NoError(t, err)
		assert.Empty(t, next.Description)
	})

	t.Run("invalid priority rejected", func(t *testing.T) {
		bad := models.Priority("urgent")
		next, err := applyPatch(task, models.TaskPatch{Priority: &bad}, clock)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "priority", verr.Field)
		assert.Equal(t, task, next)
	})

	t.Run("invalid due date rejected", func(t *testing.T) {
		bad := "someday"
		_, err := applyPatch(task, models.TaskPatch{DueDate: &bad}, clock)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "dueDate", verr.Field)
	})

	t.Run("clock behind previous stamp", func(t *testing.T) {
		early := func() time.Time { return created.Add(-time.Hour) }
		next, err := applyPatch(task, models.TaskPatch{}, early)
		require.NoError(t, err)
		assert.True(t, next.UpdatedAt.After(task.UpdatedAt))
	})
}

func TestBuildTask_AssignsIdentity(t *testing.T) {
	clock := fixedClock(time.Date(2025, 4, 1, 10, 0, 0, 987654321, time.UTC), 0)

	a, err := buildTask(models.TaskInput{Title: "a", DueDate: "2025-05-01"}, clock)
	require.NoError(t, err)
	b, err := buildTask(models.TaskInput{Title: "b", DueDate: "2025-05-01"}, clock)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, time.Date(2025, 4, 1, 10, 0, 0, 987000000, time.UTC).Equal(a.CreatedAt))
	assert.True(t, a.CreatedAt.Equal(a.UpdatedAt))
}

func TestErrorsWrapping(t *testing.T) {
	err := unavailable("list tasks", errors.New("connection refused"))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "connection refused")

	assert.Equal(t, ErrNotFound, passThrough("get", ErrNotFound))
	verr := &ValidationError{Field: "title", Message: "title is required"}
	assert.Equal(t, error(verr), passThrough("update", verr))
	assert.ErrorIs(t, passThrough("update", errors.New("boom")), ErrUnavailable)
}
