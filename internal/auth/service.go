package auth

import (
	"errors"
	"fmt"
	"strings"

	"student-registration/internal/storage"
)

// Flow-level sentinel errors. Handlers map these to HTTP statuses;
// storage.ErrUserNotFound and storage.ErrUserExists pass through
// unchanged.
var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	ErrEmptyCredentials = errors.New("username and password are required")
)

// Service runs the login / register / reset rules against the
// credential store. It holds no per-client state — sessions do.
type Service struct {
	users      storage.UserStore
	bcryptCost int
}

// NewService builds an auth service over the given credential store.
func NewService(users storage.UserStore, bcryptCost int) *Service {
	return &Service{users: users, bcryptCost: bcryptCost}
}

// Login verifies a username/password pair. Both inputs are trimmed of
// surrounding whitespace before use. An unknown username is
// storage.ErrUserNotFound; a failed hash check is ErrInvalidPassword —
// the two cases are deliberately distinct.
func (s *Service) Login(username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}

	user, err := s.users.FindUser(username)
	if err != nil {
		return err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return ErrInvalidPassword
	}

	return nil
}

// Register creates a new user. All validation happens before the store
// is touched: non-empty fields, matching confirmation, minimum length.
// The username pre-check gives the common case a friendly duplicate
// error; if two registrations race past it, the UNIQUE constraint makes
// the insert itself come back as storage.ErrUserExists.
func (s *Service) Register(username, password, confirm string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLen {
		return ErrPasswordTooShort
	}

	_, err := s.users.FindUser(username)
	if err == nil {
		return storage.ErrUserExists
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return err
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("register: hash password: %w", err)
	}

	if _, err := s.users.CreateUser(username, hash); err != nil {
		return err
	}

	return nil
}

// Reset overwrites the stored hash with a fresh hash of the new
// password. No old-password confirmation is required — a known weak
// policy of this system, kept as-is. The new password still has to meet
// the registration minimum, otherwise reset would bypass the only
// password rule there is.
func (s *Service) Reset(username, newPassword string) error {
	username = strings.TrimSpace(username)
	if username == "" || newPassword == "" {
		return ErrEmptyCredentials
	}
	if len(newPassword) < MinPasswordLen {
		return ErrPasswordTooShort
	}

	if _, err := s.users.FindUser(username); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("reset: hash password: %w", err)
	}

	return s.users.UpdatePassword(username, hash)
}
