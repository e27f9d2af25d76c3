// Package sqlite provides the SQLite-backed implementation of both
// store interfaces using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk (or in memory for
// tests). There is no network, no separate server process, and no
// installation beyond the driver.
//
// The student queries use prepared statements with ? placeholders; the
// credential queries are built with squirrel. Either way the values
// travel separately from the SQL text, so user input is never treated
// as SQL syntax.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"student-registration/internal/storage"
	"student-registration/internal/types"
)

// SQLite implements storage.UserStore and storage.StudentStore.
// It holds a *sql.DB, which is a connection pool managed by
// database/sql and safe for concurrent use.
type SQLite struct {
	db *sql.DB
}

// New opens the SQLite database at the given path (":memory:" for an
// ephemeral one), creates the tables if they do not already exist, and
// returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe on every startup.
	// The UNIQUE constraint on username is load-bearing: it is the
	// backstop that turns a racing duplicate registration into a
	// constraint violation instead of a second identical row.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT    NOT NULL UNIQUE,
			password_hash TEXT    NOT NULL
		);
		CREATE TABLE IF NOT EXISTS registration (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			name   TEXT    NOT NULL,
			course TEXT    NOT NULL,
			fee    INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Credential store
// ─────────────────────────────────────────────────────────────────────────────

// FindUser looks up a user by username. An absent username is a normal
// outcome (a login attempt for an unknown user), reported as
// storage.ErrUserNotFound.
func (s *SQLite) FindUser(username string) (types.User, error) {
	var user types.User

	row := sq.Select("id", "username", "password_hash").
		From("users").
		Where(sq.Eq{"username": username}).
		RunWith(s.db).
		QueryRow()

	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, storage.ErrUserNotFound
		}
		return types.User{}, fmt.Errorf("FindUser: scan: %w", err)
	}

	return user, nil
}

// CreateUser inserts a credentials row. A UNIQUE violation on username
// is mapped to storage.ErrUserExists so a lost registration race
// surfaces as a duplicate, not as a raw driver error.
func (s *SQLite) CreateUser(username, passwordHash string) (int64, error) {
	result, err := sq.Insert("users").
		Columns("username", "password_hash").
		Values(username, passwordHash).
		RunWith(s.db).
		Exec()
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) &&
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, storage.ErrUserExists
		}
		return 0, fmt.Errorf("CreateUser: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateUser: last insert id: %w", err)
	}

	return lastID, nil
}

// UpdatePassword overwrites the stored hash for a username.
// Zero affected rows means the username does not exist.
func (s *SQLite) UpdatePassword(username, newHash string) error {
	result, err := sq.Update("users").
		Set("password_hash", newHash).
		Where(sq.Eq{"username": username}).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("UpdatePassword: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdatePassword: rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Student record store
// ─────────────────────────────────────────────────────────────────────────────

// CreateStudent inserts a new row into the registration table and
// returns the auto-generated primary key.
func (s *SQLite) CreateStudent(name, course string, fee int64) (int64, error) {
	stmt, err := s.db.Prepare(
		"INSERT INTO registration (name, course, fee) VALUES (?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(name, course, fee)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return lastID, nil
}

// GetStudentByID fetches exactly one record matched by primary key.
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	stmt, err := s.db.Prepare(
		"SELECT id, name, course, fee FROM registration WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student
	err = stmt.QueryRow(id).Scan(
		&student.ID,
		&student.Name,
		&student.Course,
		&student.Fee,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, storage.ErrStudentNotFound
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns every record ordered by id ascending. The whole
// table is loaded on every call — the flow re-reads instead of caching.
func (s *SQLite) GetStudents() ([]types.Student, error) {
	stmt, err := s.db.Prepare(
		// Explicit column list — SELECT * would break Scan ordering if
		// a column is added later.
		"SELECT id, name, course, fee FROM registration ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Pre-allocate an empty (non-nil) slice so the JSON encoding is []
	// rather than null when there are no students.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Course,
			&student.Fee,
		); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// UpdateStudent replaces name, course, and fee of an existing record.
// A stale id (row deleted since the caller's last read) is reported as
// storage.ErrStudentNotFound rather than silently updating nothing.
func (s *SQLite) UpdateStudent(id int64, name, course string, fee int64) error {
	stmt, err := s.db.Prepare(
		"UPDATE registration SET name = ?, course = ?, fee = ? WHERE id = ?",
	)
	if err != nil {
		return fmt.Errorf("UpdateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(name, course, fee, id)
	if err != nil {
		return fmt.Errorf("UpdateStudent: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateStudent: rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrStudentNotFound
	}

	return nil
}

// DeleteStudent removes a record by primary key. No existence check:
// deleting an id that is already gone affects zero rows and succeeds,
// which makes repeated deletes of the same id harmless.
func (s *SQLite) DeleteStudent(id int64) error {
	stmt, err := s.db.Prepare("DELETE FROM registration WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudent: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(id); err != nil {
		return fmt.Errorf("DeleteStudent: exec: %w", err)
	}

	return nil
}
