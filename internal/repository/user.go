package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/habinote/habinote-go/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// erDupEntry is the MySQL server error ER_DUP_ENTRY.
const erDupEntry = 1062

// UserRepository handles user persistence operations.
type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// Create inserts a new user and sets the generated ID and creation time on
// the user struct. A second user with the same email yields ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (nama, email, password, created_at) VALUES (?, ?, ?, ?)`

	createdAt := r.now().UTC().Truncate(time.Second)

	result, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.PasswordHash, createdAt)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted user id: %w", err)
	}

	user.ID = id
	user.CreatedAt = createdAt
	return nil
}

// GetByEmail retrieves a user by exact email match.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, nama, email, password, created_at FROM users WHERE email = ?`
	return r.getOne(ctx, query, email)
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, nama, email, password, created_at FROM users WHERE id = ?`
	return r.getOne(ctx, query, id)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return user, nil
}

// isDuplicateEntryError checks if err is a MySQL duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == erDupEntry
}
