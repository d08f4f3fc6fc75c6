package store

import (
	"time"

	"github.com/crumbworks/todosvc/internal/database"
)

// Todo represents a todo row. UserID references users.id; deleting a
// user cascades to its todos.
type Todo struct {
	ID          int64      `db:"id" json:"id"`
	UserID      *int64     `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	Completed   bool       `db:"completed" json:"completed"`
	DueDate     *time.Time `db:"due_date" json:"due_date"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// NewTodoRepository creates the todos repository.
func NewTodoRepository(db *database.DB, timeout time.Duration) *Repository[Todo] {
	return NewRepository(db, "todos",
		[]string{"user_id", "title", "description", "completed", "due_date"},
		func(t *Todo) []any {
			return []any{t.UserID, t.Title, t.Description, t.Completed, t.DueDate}
		},
		timeout)
}
