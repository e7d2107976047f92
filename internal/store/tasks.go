package store

import (
	"database/sql"
	"errors"
	"fmt"
)

const taskColumns = `id, name, topic, status, duration, date`

// CreateTask inserts a new pending task and returns its id.
func (s *Store) CreateTask(name, topic string, duration int, date string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO tasks (name, topic, status, duration, date) VALUES (?, ?, ?, ?, ?)`,
		name, topic, StatusPending, duration, date,
	)
	if err != nil {
		return 0, &StorageError{Op: "insert task", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &StorageError{Op: "insert task", Err: err}
	}
	return id, nil
}

// GetTask returns ErrNotFound when no task has the given id.
func (s *Store) GetTask(id int64) (*Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: fmt.Sprintf("get task %d", id), Err: err}
	}
	return t, nil
}

func (s *Store) ListTasks() ([]Task, error) {
	return s.queryTasks("list tasks", `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
}

func (s *Store) ListTasksByStatus(status Status) ([]Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.queryTasks("list tasks by status",
		`SELECT `+taskColumns+` FROM tasks WHERE status = ? ORDER BY id`, status)
}

// ListTasksDueOnOrAfter returns every task, regardless of status, whose due
// date is on or after date. ISO dates compare correctly as strings.
func (s *Store) ListTasksDueOnOrAfter(date string) ([]Task, error) {
	return s.queryTasks("list tasks due",
		`SELECT `+taskColumns+` FROM tasks WHERE date >= ? ORDER BY date, id`, date)
}

// UpdateTaskStatus reports false when no task matched id.
func (s *Store) UpdateTaskStatus(id int64, status Status) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	res, err := s.db.Exec(`UPDATE tasks SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return false, &StorageError{Op: fmt.Sprintf("update task %d status", id), Err: err}
	}
	return affected(res, "update task status")
}

// UpdateTask replaces every mutable field. It reports false when no task matched id.
func (s *Store) UpdateTask(id int64, name, topic string, status Status, duration int, date string) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	res, err := s.db.Exec(
		`UPDATE tasks SET name = ?, topic = ?, status = ?, duration = ?, date = ? WHERE id = ?`,
		name, topic, status, duration, date, id,
	)
	if err != nil {
		return false, &StorageError{Op: fmt.Sprintf("update task %d", id), Err: err}
	}
	return affected(res, "update task")
}

// DeleteTask reports false when no task matched id.
func (s *Store) DeleteTask(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, &StorageError{Op: fmt.Sprintf("delete task %d", id), Err: err}
	}
	return affected(res, "delete task")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	t := &Task{}
	var status string
	if err := row.Scan(&t.ID, &t.Name, &t.Topic, &status, &t.Duration, &t.Date); err != nil {
		return nil, err
	}
	t.Status = Status(status)
	return t, nil
}

func (s *Store) queryTasks(op, query string, args ...any) ([]Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, &StorageError{Op: op, Err: err}
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	return tasks, nil
}

func affected(res sql.Result, op string) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, &StorageError{Op: op, Err: err}
	}
	return n > 0, nil
}
