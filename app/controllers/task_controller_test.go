package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskmaster/app/models"
	"taskmaster/app/services"
	"taskmaster/app/views"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubStore returns canned tasks and errors.
type stubStore struct {
	tasks []models.Task
	err   error
}

func (s *stubStore) List(ctx context.Context) ([]models.Task, error) {
	return s.tasks, s.err
}

func (s *stubStore) Get(ctx context.Context, id string) (models.Task, error) {
	if s.err != nil {
		return models.Task{}, s.err
	}
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, services.ErrNotFound
}

func (s *stubStore) Create(ctx context.Context, input models.TaskInput) (models.Task, error) {
	return models.Task{}, s.err
}

func (s *stubStore) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	return models.Task{}, s.err
}

func (s *stubStore) Delete(ctx context.Context, id string) error {
	return s.err
}

func newTestController(store services.TaskStore) *TaskController {
	c := NewTaskController(store, zap.NewNop().Sugar(), time.UTC, views.UpcomingWindowDays)
	c.Now = func() time.Time { return time.Date(2025, 5, 1, 15, 0, 0, 0, time.UTC) }
	return c
}

func day(d int) time.Time {
	return time.Date(2025, 5, d, 0, 0, 0, 0, time.UTC)
}

func decodeTitles(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	out := []string{}
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func TestRespondStoreError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"malformed id", services.ErrInvalidID, http.StatusBadRequest, "Invalid task ID"},
		{"not found", services.ErrNotFound, http.StatusNotFound, "Task not found"},
		{"validation", &services.ValidationError{Field: "title", Message: "title is required"}, http.StatusBadRequest, "title is required"},
		{"unavailable", fmt.Errorf("update task: %w", services.ErrUnavailable), http.StatusInternalServerError, "Failed to update task"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(&stubStore{err: tt.err})
			req := mux.SetURLVars(
				httptest.NewRequest(http.MethodPut, "/tasks/x", strings.NewReader(`{"completed":true}`)),
				map[string]string{"taskID": "x"},
			)
			rec := httptest.NewRecorder()
			c.UpdateTask(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"message":%q}`, tt.message), rec.Body.String())
		})
	}
}

func TestGetTasks_StoreUnavailable(t *testing.T) {
	c := newTestController(&stubStore{err: services.ErrUnavailable})
	rec := httptest.NewRecorder()
	c.GetTasks(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetTasks_QueryParameters(t *testing.T) {
	store := &stubStore{tasks: []models.Task{
		{Title: "banana bread", Completed: true},
		{Title: "Apple pie"},
		{Title: "cherry jam", Description: "bread topping"},
	}}
	c := newTestController(store)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"banana bread", "Apple pie", "cherry jam"}},
		{"?sort=alphabetical", []string{"Apple pie", "banana bread", "cherry jam"}},
		{"?q=BREAD", []string{"banana bread", "cherry jam"}},
		{"?q=bread&completed=false", []string{"cherry jam"}},
		{"?completed=true", []string{"banana bread"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c.GetTasks(rec, httptest.NewRequest(http.MethodGet, "/tasks"+tt.query, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, decodeTitles(t, rec))
		})
	}

	t.Run("bad sort key", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c.GetTasks(rec, httptest.NewRequest(http.MethodGet, "/tasks?sort=size", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad completed flag", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c.GetTasks(rec, httptest.NewRequest(http.MethodGet, "/tasks?completed=maybe", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDateViews(t *testing.T) {
	store := &stubStore{tasks: []models.Task{
		{Title: "may 10", DueDate: day(10)},
		{Title: "may 3", DueDate: day(3)},
		{Title: "may 1", DueDate: day(1)},
		{Title: "apr 28", DueDate: day(1).AddDate(0, 0, -3)},
	}}
	c := newTestController(store)

	rec := httptest.NewRecorder()
	c.GetTodayTasks(rec, httptest.NewRequest(http.MethodGet, "/tasks/today", nil))
	assert.Equal(t, []string{"may 1"}, decodeTitles(t, rec))

	rec = httptest.NewRecorder()
	c.GetUpcomingTasks(rec, httptest.NewRequest(http.MethodGet, "/tasks/upcoming", nil))
	assert.Equal(t, []string{"may 3"}, decodeTitles(t, rec))

	rec = httptest.NewRecorder()
	c.GetUpcomingTasks(rec, httptest.NewRequest(http.MethodGet, "/tasks/upcoming?date=2025-05-04", nil))
	assert.Equal(t, []string{"may 10"}, decodeTitles(t, rec))

	rec = httptest.NewRecorder()
	c.GetOverdueTasks(rec, httptest.NewRequest(http.MethodGet, "/tasks/overdue", nil))
	assert.Equal(t, []string{"apr 28"}, decodeTitles(t, rec))

	rec = httptest.NewRecorder()
	c.GetTaskStats(rec, httptest.NewRequest(http.MethodGet, "/tasks/stats", nil))
	var summary views.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, views.Summary{Total: 4, Completed: 0, Active: 4, Overdue: 1}, summary)

	rec = httptest.NewRecorder()
	c.GetTodayTasks(rec, httptest.NewRequest(http.MethodGet, "/tasks/today?date=05/01/2025", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTask_InvalidPayload(t *testing.T) {
	c := newTestController(&stubStore{})
	rec := httptest.NewRecorder()
	c.CreateTask(rec, httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid request payload"}`, rec.Body.String())
}
