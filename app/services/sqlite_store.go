package services

import (
	"context"
	"errors"
	"time"

	"taskmaster/app/models"

	"gorm.io/gorm"
)

// TaskRow is the SQLite representation of a task. Timestamps are written by
// the store itself, so gorm's automatic time tracking is switched off.
type TaskRow struct {
	ID          string    `gorm:"primarykey;size:36"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text"`
	Completed   bool      `gorm:"not null"`
	Priority    string    `gorm:"size:10;not null"`
	DueDate     time.Time `gorm:"not null;index"`
	HasReminder bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
}

// TableName returns the table name for TaskRow.
func (TaskRow) TableName() string {
	return "tasks"
}

func rowFromTask(task models.Task) TaskRow {
	return TaskRow{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		HasReminder: task.HasReminder,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func (r TaskRow) toTask() models.Task {
	return models.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Priority:    models.Priority(r.Priority),
		DueDate:     r.DueDate.UTC(),
		HasReminder: r.HasReminder,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

// SQLiteStore keeps tasks in a local SQLite database through gorm.
type SQLiteStore struct {
	db    *gorm.DB
	clock Clock
}

// NewSQLiteStore creates a store on top of an open gorm handle.
func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: db, clock: time.Now}
}

// Migrate creates or updates the tasks table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&TaskRow{}); err != nil {
		return unavailable("migrate tasks", err)
	}
	return nil
}

// List retrieves all tasks, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]models.Task, error) {
	var rows []TaskRow
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, unavailable("list tasks", err)
	}

	tasks := make([]models.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toTask())
	}
	return tasks, nil
}

// Get retrieves a task by its id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (models.Task, error) {
	if !ValidID(id) {
		return models.Task{}, ErrInvalidID
	}

	row, err := findRow(s.db.WithContext(ctx), id)
	if err != nil {
		return models.Task{}, passThrough("get task", err)
	}
	return row.toTask(), nil
}

// Create validates input and inserts a new row.
func (s *SQLiteStore) Create(ctx context.Context, input models.TaskInput) (models.Task, error) {
	task, err := buildTask(input, s.clock)
	if err != nil {
		return models.Task{}, err
	}

	row := rowFromTask(task)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Task{}, unavailable("create task", err)
	}
	return task, nil
}

// Update merges patch into the stored row inside one transaction.
func (s *SQLiteStore) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if !ValidID(id) {
		return models.Task{}, ErrInvalidID
	}

	var updated models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findRow(tx, id)
		if err != nil {
			return err
		}
		next, err := applyPatch(row.toTask(), patch, s.clock)
		if err != nil {
			return err
		}

		nextRow := rowFromTask(next)
		if err := tx.Save(&nextRow).Error; err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return models.Task{}, passThrough("update task", err)
	}
	return updated, nil
}

// Delete removes a task row. There is no soft delete.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}

	result := s.db.WithContext(ctx).Delete(&TaskRow{}, "id = ?", id)
	if err := result.Error; err != nil {
		return unavailable("delete task", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func findRow(db *gorm.DB, id string) (TaskRow, error) {
	var row TaskRow
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaskRow{}, ErrNotFound
		}
		return TaskRow{}, err
	}
	return row, nil
}
