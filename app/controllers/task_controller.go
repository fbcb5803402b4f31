package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"taskmaster/app/models"
	"taskmaster/app/services"
	"taskmaster/app/views"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// TaskController handles HTTP requests for tasks.
type TaskController struct {
	Store        services.TaskStore
	Log          *zap.SugaredLogger
	Location     *time.Location
	UpcomingDays int

	// Now is the clock used for date views when no date is given.
	Now func() time.Time
}

// NewTaskController creates a new TaskController.
func NewTaskController(store services.TaskStore, log *zap.SugaredLogger, loc *time.Location, upcomingDays int) *TaskController {
	return &TaskController{
		Store:        store,
		Log:          log,
		Location:     loc,
		UpcomingDays: upcomingDays,
		Now:          time.Now,
	}
}

// GetTasks handles GET /tasks with optional q, sort and completed filters.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var completed *bool
	if raw := query.Get("completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "completed must be true or false")
			return
		}
		completed = &v
	}

	tasks, ok := c.listTasks(w, r)
	if !ok {
		return
	}

	tasks = views.Search(tasks, query.Get("q"))
	if completed != nil {
		tasks = views.FilterByCompleted(tasks, *completed)
	}
	if key := query.Get("sort"); key != "" {
		sorted, err := views.SortBy(tasks, views.SortKey(key))
		if err != nil {
			respondMessage(w, http.StatusBadRequest, fmt.Sprintf("unknown sort key %q", key))
			return
		}
		tasks = sorted
	}

	respondJSON(w, http.StatusOK, tasks)
}

// GetTodayTasks handles GET /tasks/today.
func (c *TaskController) GetTodayTasks(w http.ResponseWriter, r *http.Request) {
	c.serveDateView(w, r, func(tasks []models.Task, ref time.Time) any {
		return views.FilterByToday(tasks, ref)
	})
}

// GetUpcomingTasks handles GET /tasks/upcoming.
func (c *TaskController) GetUpcomingTasks(w http.ResponseWriter, r *http.Request) {
	c.serveDateView(w, r, func(tasks []models.Task, ref time.Time) any {
		return views.FilterByUpcomingWithin(tasks, ref, c.UpcomingDays)
	})
}

// GetOverdueTasks handles GET /tasks/overdue.
func (c *TaskController) GetOverdueTasks(w http.ResponseWriter, r *http.Request) {
	c.serveDateView(w, r, func(tasks []models.Task, ref time.Time) any {
		return views.FilterOverdue(tasks, ref)
	})
}

// GetTaskStats handles GET /tasks/stats.
func (c *TaskController) GetTaskStats(w http.ResponseWriter, r *http.Request) {
	c.serveDateView(w, r, func(tasks []models.Task, ref time.Time) any {
		return views.Summarize(tasks, ref)
	})
}

// CreateTask handles POST /tasks.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var input models.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := c.Store.Create(r.Context(), input)
	if err != nil {
		c.respondStoreError(w, err, "create")
		return
	}

	c.Log.Infow("task created", "id", task.ID)
	respondJSON(w, http.StatusCreated, task)
}

// GetTaskByID handles GET /tasks/{taskID}.
func (c *TaskController) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]
	task, err := c.Store.Get(r.Context(), taskID)
	if err != nil {
		c.respondStoreError(w, err, "fetch")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{taskID}.
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]
	var patch models.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := c.Store.Update(r.Context(), taskID, patch)
	if err != nil {
		c.respondStoreError(w, err, "update")
		return
	}

	c.Log.Infow("task updated", "id", task.ID)
	respondJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{taskID}.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]
	if err := c.Store.Delete(r.Context(), taskID); err != nil {
		c.respondStoreError(w, err, "delete")
		return
	}

	c.Log.Infow("task deleted", "id", taskID)
	respondMessage(w, http.StatusOK, "Task deleted successfully")
}

// Ping handles GET /ping.
func (c *TaskController) Ping(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "pong")
}

func (c *TaskController) listTasks(w http.ResponseWriter, r *http.Request) ([]models.Task, bool) {
	tasks, err := c.Store.List(r.Context())
	if err != nil {
		c.respondStoreError(w, err, "fetch")
		return nil, false
	}
	return tasks, true
}

func (c *TaskController) serveDateView(w http.ResponseWriter, r *http.Request, view func([]models.Task, time.Time) any) {
	ref, err := c.referenceTime(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}
	tasks, ok := c.listTasks(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, view(tasks, ref))
}

// referenceTime is the date query parameter in the configured location, or
// the current time.
func (c *TaskController) referenceTime(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return c.Now().In(c.Location), nil
	}
	return time.ParseInLocation(time.DateOnly, raw, c.Location)
}

// respondStoreError maps store errors to status codes. Validation failures
// are client errors and answer 400.
func (c *TaskController) respondStoreError(w http.ResponseWriter, err error, action string) {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrInvalidID):
		respondMessage(w, http.StatusBadRequest, "Invalid task ID")
	case errors.Is(err, services.ErrNotFound):
		respondMessage(w, http.StatusNotFound, "Task not found")
	case errors.As(err, &verr):
		respondMessage(w, http.StatusBadRequest, verr.Message)
	default:
		c.Log.Errorw("task store failure", "action", action, "error", err)
		respondMessage(w, http.StatusInternalServerError, fmt.Sprintf("Failed to %s task", action))
	}
}
