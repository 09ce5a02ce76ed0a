package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/habinote/habinote-go/internal/model"
)

var createdAt = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func newRepoWithMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewUserRepository(db)
	repo.now = func() time.Time { return createdAt.Add(500 * time.Millisecond) }
	return repo, mock
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "nama", "email", "password", "created_at"})
}

const (
	insertUserQuery  = `INSERT INTO users (nama, email, password, created_at) VALUES (?, ?, ?, ?)`
	selectByEmailSQL = `SELECT id, nama, email, password, created_at FROM users WHERE email = ?`
	selectByIDSQL    = `SELECT id, nama, email, password, created_at FROM users WHERE id = ?`
)

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(insertUserQuery)).
		WithArgs("Ana", "ana@x.com", "hash", createdAt).
		WillReturnResult(sqlmock.NewResult(7, 1))

	user := &model.User{Name: "Ana", Email: "ana@x.com", PasswordHash: "hash"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if user.ID != 7 {
		t.Errorf("Create ID = %d, want 7", user.ID)
	}
	if !user.CreatedAt.Equal(createdAt) {
		t.Errorf("Create CreatedAt = %v, want %v", user.CreatedAt, createdAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(insertUserQuery)).
		WithArgs("Ana", "ana@x.com", "hash", createdAt).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ana@x.com' for key 'uq_users_email'"})

	err := repo.Create(context.Background(), &model.User{Name: "Ana", Email: "ana@x.com", PasswordHash: "hash"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("Create error = %v, want %v", err, ErrDuplicateEmail)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(insertUserQuery)).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &model.User{Name: "Ana", Email: "ana@x.com", PasswordHash: "hash"})
	if err == nil || errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("Create error = %v, want wrapped db error", err)
	}
	if !regexp.MustCompile(`inserting user: .*db down`).MatchString(err.Error()) {
		t.Fatalf("Create error = %q, want wrapped db error", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectByEmailSQL)).
		WithArgs("ana@x.com").
		WillReturnRows(userRows().AddRow(int64(7), "Ana", "ana@x.com", "hash", createdAt))

	got, err := repo.GetByEmail(context.Background(), "ana@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	want := &model.User{ID: 7, Name: "Ana", Email: "ana@x.com", PasswordHash: "hash", CreatedAt: createdAt}
	if *got != *want {
		t.Errorf("GetByEmail = %+v, want %+v", got, want)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectByEmailSQL)).
		WithArgs("Ana@x.com").
		WillReturnRows(userRows())

	_, err := repo.GetByEmail(context.Background(), "Ana@x.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("GetByEmail error = %v, want %v", err, ErrUserNotFound)
	}
}

func TestGetByID(t *testing.T) {
	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		dbErr   error
		wantErr error
	}{
		{
			name: "found",
			rows: userRows().AddRow(int64(7), "Ana", "ana@x.com", "hash", createdAt),
		},
		{
			name:    "not found",
			dbErr:   sql.ErrNoRows,
			wantErr: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)

			exp := mock.ExpectQuery(regexp.QuoteMeta(selectByIDSQL)).WithArgs(int64(7))
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnRows(tt.rows)
			}

			got, err := repo.GetByID(context.Background(), 7)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetByID error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.ID != 7 {
				t.Errorf("GetByID ID = %d, want 7", got.ID)
			}
		})
	}
}

func TestIsDuplicateEntryError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "not found", err: ErrUserNotFound, want: false},
		{name: "other mysql error", err: &mysql.MySQLError{Number: 1045}, want: false},
		{name: "duplicate entry", err: &mysql.MySQLError{Number: 1062}, want: true},
		{name: "wrapped duplicate entry", err: fmt.Errorf("exec: %w", &mysql.MySQLError{Number: 1062}), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateEntryError(tt.err); got != tt.want {
				t.Errorf("isDuplicateEntryError() = %v, want %v", got, tt.want)
			}
		})
	}
}
