package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const taskColumns = "id, user_id, title, description, status, created_at, updated_at"

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) CreateTask(ctx context.Context, userID uuid.UUID, title string, description *string, status string) (*Task, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (user_id, title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING `+taskColumns+`
	`, userID, title, description, status)
	return scanTask(row)
}

func (s *Store) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*Task, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`, taskID, userID)
	return scanTask(row)
}

func (s *Store) ListTasks(ctx context.Context, userID uuid.UUID) ([]Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, update TaskUpdate) (*Task, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = COALESCE($3, title),
		    description = COALESCE($4, description),
		    status = COALESCE($5, status),
		    updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+taskColumns+`
	`, taskID, userID, update.Title, update.Description, update.Status)
	return scanTask(row)
}

func (s *Store) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
	`, taskID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
