package services

import (
	"context"
	"fmt"
	"time"

	"taskmaster/app/models"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const taskColumns = "t.id AS id, t.title AS title, t.description AS description, " +
	"t.completed AS completed, t.priority AS priority, t.dueDate AS dueDate, " +
	"t.hasReminder AS hasReminder, t.createdAt AS createdAt, t.updatedAt AS updatedAt"

// Neo4jStore keeps tasks as (:Task) nodes in a Neo4j database.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
	clock  Clock
}

// NewNeo4jStore creates a store on top of an open driver.
func NewNeo4jStore(driver neo4j.DriverWithContext) *Neo4jStore {
	return &Neo4jStore{driver: driver, clock: time.Now}
}

// EnsureSchema creates the uniqueness constraint on task ids.
func (s *Neo4jStore) EnsureSchema(ctx context.Context) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"CREATE CONSTRAINT task_id_unique IF NOT EXISTS FOR (t:Task) REQUIRE t.id IS UNIQUE",
			nil,
		)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return unavailable("ensure schema", err)
	}
	return nil
}

// List retrieves all tasks, newest first.
func (s *Neo4jStore) List(ctx context.Context) ([]models.Task, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task) RETURN "+taskColumns+" ORDER BY t.createdAt DESC",
			nil,
		)
		if err != nil {
			return nil, err
		}

		tasks := []models.Task{}
		for res.Next(ctx) {
			task, err := recordToTask(res.Record())
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return tasks, nil
	})
	if err != nil {
		return nil, unavailable("list tasks", err)
	}
	return result.([]models.Task), nil
}

// Get retrieves a single task by its id.
func (s *Neo4jStore) Get(ctx context.Context, id string) (models.Task, error) {
	if !ValidID(id) {
		return models.Task{}, ErrInvalidID
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return findTask(ctx, tx, id)
	})
	if err != nil {
		return models.Task{}, passThrough("get task", err)
	}
	return result.(models.Task), nil
}

// Create validates input and stores it as a new node.
func (s *Neo4jStore) Create(ctx context.Context, input models.TaskInput) (models.Task, error) {
	task, err := buildTask(input, s.clock)
	if err != nil {
		return models.Task{}, err
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, "CREATE (t:Task $props)", map[string]any{"props": taskProps(task)})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return models.Task{}, unavailable("create task", err)
	}
	return task, nil
}

// Update merges patch into the stored task inside one write transaction.
func (s *Neo4jStore) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if !ValidID(id) {
		return models.Task{}, ErrInvalidID
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		current, err := findTask(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		next, err := applyPatch(current, patch, s.clock)
		if err != nil {
			return nil, err
		}

		props := taskProps(next)
		delete(props, "id")
		delete(props, "createdAt")
		res, err := tx.Run(ctx,
			"MATCH (t:Task {id: $id}) SET t += $props",
			map[string]any{"id": id, "props": props},
		)
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return next, nil
	})
	if err != nil {
		return models.Task{}, passThrough("update task", err)
	}
	return result.(models.Task), nil
}

// Delete removes the task node and its relationships.
func (s *Neo4jStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task {id: $id}) DETACH DELETE t",
			map[string]any{"id": id},
		)
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		if summary.Counters().NodesDeleted() == 0 {
			return nil, ErrNotFound
		}
		return nil, nil
	})
	if err != nil {
		return passThrough("delete task", err)
	}
	return nil
}

func findTask(ctx context.Context, tx neo4j.ManagedTransaction, id string) (models.Task, error) {
	res, err := tx.Run(ctx,
		"MATCH (t:Task {id: $id}) RETURN "+taskColumns,
		map[string]any{"id": id},
	)
	if err != nil {
		return models.Task{}, err
	}
	if res.Next(ctx) {
		return recordToTask(res.Record())
	}
	if err := res.Err(); err != nil {
		return models.Task{}, err
	}
	return models.Task{}, ErrNotFound
}

func taskProps(task models.Task) map[string]any {
	return map[string]any{
		"id":          task.ID,
		"title":       task.Title,
		"description": task.Description,
		"completed":   task.Completed,
		"priority":    string(task.Priority),
		"dueDate":     task.DueDate,
		"hasReminder": task.HasReminder,
		"createdAt":   task.CreatedAt,
		"updatedAt":   task.UpdatedAt,
	}
}

// recordToTask maps a row produced with taskColumns. Type mismatches are
// reported as errors instead of panicking on a bad assertion.
func recordToTask(record *neo4j.Record) (models.Task, error) {
	var (
		task models.Task
		err  error
	)
	str := func(key string, optional bool) string {
		if err != nil {
			return ""
		}
		v, _ := record.Get(key)
		if v == nil && optional {
			return ""
		}
		s, ok := v.(string)
		if !ok {
			err = fmt.Errorf("task column %q: unexpected %T", key, v)
		}
		return s
	}
	boolean := func(key string) bool {
		if err != nil {
			return false
		}
		v, _ := record.Get(key)
		if v == nil {
			return false
		}
		b, ok := v.(bool)
		if !ok {
			err = fmt.Errorf("task column %q: unexpected %T", key, v)
		}
		return b
	}
	timestamp := func(key string) time.Time {
		if err != nil {
			return time.Time{}
		}
		v, _ := record.Get(key)
		t, ok := v.(time.Time)
		if !ok {
			err = fmt.Errorf("task column %q: unexpected %T", key, v)
		}
		return t.UTC()
	}

	task.ID = str("id", false)
	task.Title = str("title", false)
	task.Description = str("description", true)
	task.Completed = boolean("completed")
	task.Priority = models.Priority(str("priority", true))
	task.DueDate = timestamp("dueDate")
	task.HasReminder = boolean("hasReminder")
	task.CreatedAt = timestamp("createdAt")
	task.UpdatedAt = timestamp("updatedAt")
	if err != nil {
		return models.Task{}, err
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	return task, nil
}
