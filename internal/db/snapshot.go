package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/dori/taskhive/internal/model"
	"github.com/dori/taskhive/internal/store"
)

// Settings keys holding the non-task part of a snapshot
const (
	keyVersion       = "snapshot_version"
	keyAuthenticated = "is_authenticated"
	keyCurrentUser   = "current_user_id"
	keyDarkMode      = "dark_mode"
)

var _ store.Persister = (*DB)(nil)

// Load reads the saved snapshot. It returns store.ErrNoSnapshot until the
// first Save.
func (db *DB) Load(ctx context.Context) (store.Snapshot, error) {
	settings, err := db.Settings(ctx)
	if err != nil {
		return store.Snapshot{}, err
	}
	raw, ok := settings[keyVersion]
	if !ok {
		return store.Snapshot{}, store.ErrNoSnapshot
	}
	version, err := strconv.Atoi(raw)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("invalid snapshot version %q: %w", raw, err)
	}

	tasks, err := db.loadTasks(ctx)
	if err != nil {
		return store.Snapshot{}, err
	}

	return store.Snapshot{
		Version:       version,
		Authenticated: settings[keyAuthenticated] == "1",
		CurrentUserID: settings[keyCurrentUser],
		DarkMode:      settings[keyDarkMode] == "1",
		Tasks:         tasks,
	}, nil
}

// Save replaces the stored snapshot in one transaction
func (db *DB) Save(ctx context.Context, snap store.Snapshot) error {
	version := snap.Version
	if version == 0 {
		version = store.SnapshotVersion
	}

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"comments", "subtasks", "task_assignees", "tasks"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		for i, t := range snap.Tasks {
			if err := insertTask(ctx, tx, i, t); err != nil {
				return err
			}
		}

		settings := map[string]string{
			keyVersion:       strconv.Itoa(version),
			keyAuthenticated: boolString(snap.Authenticated),
			keyCurrentUser:   snap.CurrentUserID,
			keyDarkMode:      boolString(snap.DarkMode),
		}
		for key, value := range settings {
			if err := setSetting(ctx, tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertTask(ctx context.Context, tx *sql.Tx, position int, t model.Task) error {
	var due *string
	if t.DueDate != "" {
		due = &t.DueDate
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (id, position, title, description, completed, priority, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, position, t.Title, t.Description, t.Completed, t.Priority, due,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert task %s: %w", t.ID, err)
	}

	for i, userID := range t.AssignedTo {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO task_assignees (task_id, user_id, position) VALUES (?, ?, ?)
		`, t.ID, userID, i)
		if err != nil {
			return fmt.Errorf("failed to insert assignee of %s: %w", t.ID, err)
		}
	}

	for i, s := range t.Subtasks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO subtasks (task_id, id, position, title, completed) VALUES (?, ?, ?, ?, ?)
		`, t.ID, s.ID, i, s.Title, s.Completed)
		if err != nil {
			return fmt.Errorf("failed to insert subtask of %s: %w", t.ID, err)
		}
	}

	return insertComments(ctx, tx, t.ID, nil, t.Comments)
}

func insertComments(ctx context.Context, tx *sql.Tx, taskID string, parentID *string, comments []model.Comment) error {
	for i, c := range comments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO comments (task_id, id, parent_id, position, user_id, content, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, taskID, c.ID, parentID, i, c.UserID, c.Content, formatTime(c.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert comment of %s: %w", taskID, err)
		}
		if len(c.Replies) > 0 {
			id := c.ID
			if err := insertComments(ctx, tx, taskID, &id, c.Replies); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadTasks reads each table in full before assembling the tasks. Rows are
// closed before the next query starts since the pool holds one connection.
func (db *DB) loadTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, description, completed, priority, due_date, created_at, updated_at
		FROM tasks
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	tasks, err := scanTasks(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	assignees, err := db.loadAssignees(ctx)
	if err != nil {
		return nil, err
	}
	subtasks, err := db.loadSubtasks(ctx)
	if err != nil {
		return nil, err
	}
	comments, err := db.loadComments(ctx)
	if err != nil {
		return nil, err
	}

	for i := range tasks {
		t := &tasks[i]
		t.AssignedTo = assignees[t.ID]
		if t.AssignedTo == nil {
			t.AssignedTo = []string{}
		}
		t.Subtasks = subtasks[t.ID]
		t.Comments = comments[t.ID]
	}
	return tasks, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	var tasks []model.Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func scanTaskRow(s scanner) (*model.Task, error) {
	var t model.Task
	var dueDate *string
	var createdAt, updatedAt string

	err := s.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.Priority, &dueDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if dueDate != nil {
		t.DueDate = *dueDate
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("task %s: %w", t.ID, err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("task %s: %w", t.ID, err)
	}
	return &t, nil
}

func (db *DB) loadAssignees(ctx context.Context) (map[string][]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT task_id, user_id FROM task_assignees ORDER BY task_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignees: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var taskID, userID string
		if err := rows.Scan(&taskID, &userID); err != nil {
			return nil, err
		}
		out[taskID] = append(out[taskID], userID)
	}
	return out, rows.Err()
}

func (db *DB) loadSubtasks(ctx context.Context) (map[string][]model.Subtask, error) {
	rows, err := db.QueryContext(ctx, `SELECT task_id, id, title, completed FROM subtasks ORDER BY task_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subtasks: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.Subtask)
	for rows.Next() {
		var taskID string
		var s model.Subtask
		if err := rows.Scan(&taskID, &s.ID, &s.Title, &s.Completed); err != nil {
			return nil, err
		}
		out[taskID] = append(out[taskID], s)
	}
	return out, rows.Err()
}

// loadComments rebuilds each task's comment tree from the parent links
func (db *DB) loadComments(ctx context.Context) (map[string][]model.Comment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT task_id, id, parent_id, user_id, content, created_at
		FROM comments
		ORDER BY task_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	type key struct{ task, parent string }
	children := make(map[key][]model.Comment)
	for rows.Next() {
		var taskID, createdAt string
		var parentID *string
		var c model.Comment
		if err := rows.Scan(&taskID, &c.ID, &parentID, &c.UserID, &c.Content, &createdAt); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("comment %s: %w", c.ID, err)
		}
		k := key{task: taskID}
		if parentID != nil {
			k.parent = *parentID
		}
		children[k] = append(children[k], c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var build func(task string, list []model.Comment) []model.Comment
	build = func(task string, list []model.Comment) []model.Comment {
		for i := range list {
			list[i].Replies = build(task, children[key{task: task, parent: list[i].ID}])
		}
		return list
	}

	out := make(map[string][]model.Comment)
	for k, list := range children {
		if k.parent == "" {
			out[k.task] = build(k.task, list)
		}
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func boolString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
