package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/machinery-hub/catalog-api/internal/models"
)

var (
	errUserNotFound = models.NewError(models.ErrNotFound, "User was not found!")
	errUserTaken    = models.NewError(models.ErrConflict, "Username or email is already taken.")
)

// UserService manages user accounts. Passwords are only ever stored hashed.
type UserService struct {
	users  UserStore
	auth   *AuthService
	hasher PasswordHasher
	now    func() time.Time
}

func NewUserService(users UserStore, auth *AuthService, hasher PasswordHasher) *UserService {
	return &UserService{users: users, auth: auth, hasher: hasher, now: func() time.Time { return time.Now().UTC() }}
}

// Register creates a user and returns a token for it.
func (s *UserService) Register(ctx context.Context, fields models.UserFields) (string, *models.User, error) {
	if err := fields.ValidateRegister(); err != nil {
		return "", nil, err
	}
	user, err := s.create(ctx, fields)
	if err != nil {
		return "", nil, err
	}
	token, err := s.auth.IssueFor(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// SeedAdmin creates the configured development admin account.
func (s *UserService) SeedAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	admin := true
	fields := models.UserFields{
		Username:  &username,
		Email:     &email,
		Password:  &password,
		FirstName: &username,
		Admin:     &admin,
	}
	if err := fields.ValidateRegister(); err != nil {
		return nil, err
	}
	return s.create(ctx, fields)
}

func (s *UserService) create(ctx context.Context, fields models.UserFields) (*models.User, error) {
	if err := s.checkUnique(ctx, nil, fields); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(*fields.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := fields.NewUser(hash, s.now())
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, errUserTaken
		}
		return nil, err
	}
	return user, nil
}

// checkUnique looks up the username and email of fields. self is the user
// being updated, if any; matching itself is not a conflict.
func (s *UserService) checkUnique(ctx context.Context, self *models.User, fields models.UserFields) error {
	if fields.Username != nil && strings.TrimSpace(*fields.Username) != "" {
		existing, err := s.users.FindByUsername(ctx, strings.TrimSpace(*fields.Username))
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return err
		}
		if existing != nil && (self == nil || existing.ID != self.ID) {
			return models.NewError(models.ErrConflict, "Username is already taken.")
		}
	}
	if fields.Email != nil && strings.TrimSpace(*fields.Email) != "" {
		existing, err := s.users.FindByEmail(ctx, models.NormalizeEmail(*fields.Email))
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return err
		}
		if existing != nil && (self == nil || existing.ID != self.ID) {
			return models.NewError(models.ErrConflict, "Email is already taken.")
		}
	}
	return nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.FindAll(ctx)
}

func (s *UserService) Get(ctx context.Context, idHex string) (*models.User, error) {
	id, err := ParseID("id", idHex)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errUserNotFound
	}
	return user, err
}

// Update applies a sparse patch. A new password is hashed before storing.
func (s *UserService) Update(ctx context.Context, idHex string, fields models.UserFields) (*models.User, error) {
	user, err := s.Get(ctx, idHex)
	if err != nil {
		return nil, err
	}
	if err := fields.ValidatePatch(); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, user, fields); err != nil {
		return nil, err
	}

	if fields.Password != nil && strings.TrimSpace(*fields.Password) != "" {
		hash, err := s.hasher.HashPassword(*fields.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields.Password = &hash
	}

	fields.Apply(user)
	user.UpdatedAt = s.now()
	if err := s.users.Replace(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, errUserTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, idHex string) error {
	user, err := s.Get(ctx, idHex)
	if err != nil {
		return err
	}
	return s.users.Delete(ctx, user.ID)
}
