package types

import "time"

// Todo represents a single task record.
type Todo struct {
	// ID is the unique identifier of the todo, assigned by the store.
	ID int `json:"id" db:"id"`

	// Title is the short human-readable name of the task.
	Title string `json:"title" db:"title"`

	// Details holds the free-form description of the task.
	Details string `json:"details" db:"details"`

	// DueDate is the optional deadline for the task. Nil when the task
	// has no deadline.
	DueDate *time.Time `json:"due_date" db:"due_date"`

	// Completed indicates whether the task has been finished.
	Completed bool `json:"completed" db:"completed"`

	// CreatedAt is the timestamp at which the todo was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the todo.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TodoPatch carries the fields of a partial update. Nil fields are left
// unchanged on the stored document.
type TodoPatch struct {
	Title     *string    `json:"title"`
	Details   *string    `json:"details"`
	DueDate   *time.Time `json:"due_date"`
	Completed *bool      `json:"completed"`
}
