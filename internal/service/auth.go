package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/habinote/habinote-go/internal/crypto"
	"github.com/habinote/habinote-go/internal/model"
	"github.com/habinote/habinote-go/internal/repository"
)

var (
	ErrValidation         = errors.New("required field missing")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("user not found")
)

// UserStore is the user persistence the auth service needs. Lookups return
// repository.ErrUserNotFound when no user matches; Create returns
// repository.ErrDuplicateEmail when the email is already taken.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

// AuthService handles authentication business logic.
type AuthService struct {
	users    UserStore
	hasher   crypto.Hasher
	tokens   TokenIssuer
	validate *validator.Validate

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher crypto.Hasher, tokens TokenIssuer) *AuthService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		validate: v,
	}
}

// Register creates a new user account and returns an auth token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResult, error) {
	if err := s.validateRequest(req); err != nil {
		return model.AuthResult{}, err
	}

	_, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return model.AuthResult{}, ErrDuplicateEmail
	case !errors.Is(err, repository.ErrUserNotFound):
		return model.AuthResult{}, fmt.Errorf("looking up email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResult{}, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}

	// The lookup above does not close the race with a concurrent register of
	// the same email; the unique index does.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResult{}, ErrDuplicateEmail
		}
		return model.AuthResult{}, fmt.Errorf("creating user: %w", err)
	}

	return s.authResult(user)
}

// Login authenticates a user and returns an auth token. An unknown email and
// a wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResult, error) {
	if err := s.validateRequest(req); err != nil {
		return model.AuthResult{}, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.burnVerify(req.Password)
			return model.AuthResult{}, ErrInvalidCredentials
		}
		return model.AuthResult{}, fmt.Errorf("looking up email: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return model.AuthResult{}, ErrInvalidCredentials
	}

	return s.authResult(user)
}

// GetProfile returns the profile of the user with the given ID. The ID is
// trusted: it comes from an already verified token.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (model.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("looking up user: %w", err)
	}

	return model.Profile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: model.Timestamp{Time: user.CreatedAt},
	}, nil
}

func (s *AuthService) authResult(user *model.User) (model.AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{
		Token: token,
		User: model.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}, nil
}

// validateRequest wraps ErrValidation with the names of the missing fields.
func (s *AuthService) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, ", "))
}

// burnVerify runs one password verification against a fixed hash so a login
// for an unknown email costs about as much as one with a wrong password.
func (s *AuthService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("habinote-unknown-account")
	})
	if s.dummyHash != "" {
		s.hasher.Verify(password, s.dummyHash)
	}
}
