package services

import (
	"context"
	"strings"
	"time"

	"taskmaster/app/models"

	"github.com/google/uuid"
)

// TaskStore is the persistence contract shared by every backend.
type TaskStore interface {
	// List returns all tasks, most recently created first.
	List(ctx context.Context) ([]models.Task, error)
	Get(ctx context.Context, id string) (models.Task, error)
	Create(ctx context.Context, input models.TaskInput) (models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id string) error
}

// Clock returns the current time. Stores take one so tests can pin it.
type Clock func() time.Time

// ValidID reports whether id is a well-formed task identifier.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func newID() string {
	return uuid.New().String()
}

// stamp returns the clock's time in the precision tasks are stored with.
func stamp(clock Clock) time.Time {
	return clock().UTC().Truncate(time.Millisecond)
}

// touch returns a new updatedAt that is strictly after prev.
func touch(clock Clock, prev time.Time) time.Time {
	now := stamp(clock)
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}

// ParseDueDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date.
// Bare dates are read as midnight UTC.
func ParseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &ValidationError{Field: "dueDate", Message: "due date is required"}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &ValidationError{Field: "dueDate", Message: "due date must be an ISO-8601 date"}
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title", Message: "title is required"}
	}
	return title, nil
}

func normalizePriority(p models.Priority) (models.Priority, error) {
	if p == "" {
		return models.PriorityMedium, nil
	}
	if !p.Valid() {
		return "", &ValidationError{Field: "priority", Message: "priority must be one of high, medium, low"}
	}
	return p, nil
}

// buildTask validates input and returns the record to persist, with a
// fresh id and timestamps.
func buildTask(input models.TaskInput, clock Clock) (models.Task, error) {
	title, err := normalizeTitle(input.Title)
	if err != nil {
		return models.Task{}, err
	}
	due, err := ParseDueDate(input.DueDate)
	if err != nil {
		return models.Task{}, err
	}
	priority, err := normalizePriority(input.Priority)
	if err != nil {
		return models.Task{}, err
	}

	now := stamp(clock)
	return models.Task{
		ID:          newID(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Completed:   input.Completed,
		Priority:    priority,
		DueDate:     due,
		HasReminder: input.HasReminder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// applyPatch merges patch over task. On error task is left as it was.
func applyPatch(task models.Task, patch models.TaskPatch, clock Clock) (models.Task, error) {
	next := task
	if patch.Title != nil {
		title, err := normalizeTitle(*patch.Title)
		if err != nil {
			return task, err
		}
		next.Title = title
	}
	if patch.Description != nil {
		next.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Completed != nil {
		next.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return task, &ValidationError{Field: "priority", Message: "priority must be one of high, medium, low"}
		}
		next.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		due, err := ParseDueDate(*patch.DueDate)
		if err != nil {
			return task, err
		}
		next.DueDate = due
	}
	if patch.HasReminder != nil {
		next.HasReminder = *patch.HasReminder
	}

	next.UpdatedAt = touch(clock, task.UpdatedAt)
	return next, nil
}
