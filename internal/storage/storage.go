// Package storage defines the store contracts — interfaces that any
// database backend must satisfy to work with this application.
//
// WHY INTERFACES?
// ───────────────
// Handlers and the auth flow should not know or care which database they
// are talking to. By depending only on these interfaces:
//
//   - Switching databases = implement the interfaces for the new DB,
//     change one line in main.go. Zero handler changes.
//
//   - Writing tests = pass an in-memory implementation. No real
//     database file needed.
package storage

import (
	"errors"

	"student-registration/internal/types"
)

// Sentinel errors shared by every backend. Callers test them with
// errors.Is and map them to user-facing messages; anything else is a
// store failure and gets a generic message instead of crashing the
// interaction.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("username already exists")
	ErrStudentNotFound = errors.New("student not found")
)

// UserStore is the credential store adapter: one lookup and two writes.
type UserStore interface {
	// FindUser fetches a user by username. Absence is a normal outcome
	// and is reported as ErrUserNotFound, not wrapped.
	FindUser(username string) (types.User, error)

	// CreateUser inserts a new credentials row and returns the
	// generated id. A username collision — whether detected by the
	// caller's pre-check or by the UNIQUE constraint when two
	// registrations race — comes back as ErrUserExists.
	CreateUser(username, passwordHash string) (int64, error)

	// UpdatePassword overwrites the stored hash. ErrUserNotFound when
	// the username matches no row.
	UpdatePassword(username, newHash string) error
}

// StudentStore wraps the CRUD statements against the registration table.
type StudentStore interface {
	// CreateStudent inserts a new record and returns the auto-generated
	// primary-key id.
	CreateStudent(name, course string, fee int64) (int64, error)

	// GetStudentByID fetches a single record by primary key.
	// ErrStudentNotFound when nothing matches.
	GetStudentByID(id int64) (types.Student, error)

	// GetStudents returns every record ordered by id ascending.
	// Returns an empty slice (not nil) when the table is empty.
	GetStudents() ([]types.Student, error)

	// UpdateStudent replaces name, course, and fee of an existing
	// record. The id is immutable. ErrStudentNotFound when the id
	// matches no row (stale selection).
	UpdateStudent(id int64, name, course string, fee int64) error

	// DeleteStudent removes a record by id. Deleting an id that no
	// longer exists succeeds silently — the operation is idempotent.
	DeleteStudent(id int64) error
}
