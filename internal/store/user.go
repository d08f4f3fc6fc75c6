package store

import (
	"time"

	"github.com/crumbworks/todosvc/internal/database"
)

// User represents a user row.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Age       *int64    `db:"age" json:"age"`
	Phone     *string   `db:"phone" json:"phone"`
	Address   *string   `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewUserRepository creates the users repository.
func NewUserRepository(db *database.DB, timeout time.Duration) *Repository[User] {
	return NewRepository(db, "users",
		[]string{"name", "email", "age", "phone", "address"},
		func(u *User) []any {
			return []any{u.Name, u.Email, u.Age, u.Phone, u.Address}
		},
		timeout)
}
