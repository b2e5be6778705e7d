package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/taskvault/apiserver/types"
)

// TodoRepository handles persistence for todos.
type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) List(ctx context.Context) ([]types.Todo, error) {
	const query = `
		SELECT id, title, details, due_date, completed, created_at, updated_at
		FROM todos
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := make([]types.Todo, 0)
	for rows.Next() {
		var todo types.Todo
		if err := rows.Scan(
			&todo.ID,
			&todo.Title,
			&todo.Details,
			&todo.DueDate,
			&todo.Completed,
			&todo.CreatedAt,
			&todo.UpdatedAt,
		); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return todos, nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id int) (types.Todo, error) {
	const query = `
		SELECT id, title, details, due_date, completed, created_at, updated_at
		FROM todos
		WHERE id = $1`
	var todo types.Todo
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&todo.ID,
		&todo.Title,
		&todo.Details,
		&todo.DueDate,
		&todo.Completed,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Todo{}, ErrNotFound
		}
		return types.Todo{}, err
	}
	return todo, nil
}

func (r *TodoRepository) Create(ctx context.Context, todo types.Todo) (types.Todo, error) {
	now := time.Now()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	const query = `
		INSERT INTO todos (title, details, due_date, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		todo.Title,
		todo.Details,
		todo.DueDate,
		todo.Completed,
		todo.CreatedAt,
		todo.UpdatedAt,
	).Scan(&todo.ID); err != nil {
		return types.Todo{}, err
	}
	return todo, nil
}

// UpdateByID merges the non-nil patch fields into the stored row and
// returns the post-update document.
func (r *TodoRepository) UpdateByID(ctx context.Context, id int, patch types.TodoPatch) (types.Todo, error) {
	const query = `
		UPDATE todos
		SET title = COALESCE($1, title),
			details = COALESCE($2, details),
			due_date = COALESCE($3, due_date),
			completed = COALESCE($4, completed),
			updated_at = $5
		WHERE id = $6
		RETURNING id, title, details, due_date, completed, created_at, updated_at`
	var todo types.Todo
	err := r.db.QueryRowContext(
		ctx,
		query,
		patch.Title,
		patch.Details,
		patch.DueDate,
		patch.Completed,
		time.Now(),
		id,
	).Scan(
		&todo.ID,
		&todo.Title,
		&todo.Details,
		&todo.DueDate,
		&todo.Completed,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Todo{}, ErrNotFound
		}
		return types.Todo{}, err
	}
	return todo, nil
}

func (r *TodoRepository) DeleteByID(ctx context.Context, id int) error {
	const query = `DELETE FROM todos WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
