package sqlite

import (
	"errors"
	"testing"

	"student-registration/internal/storage"
)

func setupStore(t *testing.T) *SQLite {
	t.Helper()

	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create in-memory db: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestCreateAndListStudents(t *testing.T) {
	store := setupStore(t)

	id, err := store.CreateStudent("Bob", "Math", 1000)
	if err != nil {
		t.Fatalf("unexpected error creating student: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero generated id")
	}

	students, err := store.GetStudents()
	if err != nil {
		t.Fatalf("unexpected error listing students: %v", err)
	}
	if len(students) != 1 {
		t.Fatalf("expected 1 student, got %d", len(students))
	}
	got := students[0]
	if got.ID != id || got.Name != "Bob" || got.Course != "Math" || got.Fee != 1000 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestGetStudentsEmptyAndOrdered(t *testing.T) {
	store := setupStore(t)

	students, err := store.GetStudents()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if students == nil {
		t.Fatal("expected an empty non-nil slice for an empty table")
	}
	if len(students) != 0 {
		t.Fatalf("expected no students, got %d", len(students))
	}

	for _, name := range []string{"A", "B", "C"} {
		if _, err := store.CreateStudent(name, "Math", 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	students, err = store.GetStudents()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(students); i++ {
		if students[i-1].ID >= students[i].ID {
			t.Fatalf("expected ids in ascending order, got %+v", students)
		}
	}
}

func TestUpdateStudentTouchesOnlyTarget(t *testing.T) {
	store := setupStore(t)

	id1, _ := store.CreateStudent("Bob", "Math", 1000)
	id2, _ := store.CreateStudent("Carol", "Physics", 2000)

	if err := store.UpdateStudent(id1, "Bobby", "Chemistry", 1500); err != nil {
		t.Fatalf("unexpected error updating student: %v", err)
	}

	updated, err := store.GetStudentByID(id1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Bobby" || updated.Course != "Chemistry" || updated.Fee != 1500 {
		t.Fatalf("update not applied: %+v", updated)
	}

	untouched, err := store.GetStudentByID(id2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if untouched.Name != "Carol" || untouched.Course != "Physics" || untouched.Fee != 2000 {
		t.Fatalf("unrelated record changed: %+v", untouched)
	}
}

func TestUpdateStudentStaleID(t *testing.T) {
	store := setupStore(t)

	err := store.UpdateStudent(42, "Ghost", "Nothing", 0)
	if !errors.Is(err, storage.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound for a stale id, got %v", err)
	}
}

func TestDeleteStudentIdempotent(t *testing.T) {
	store := setupStore(t)

	id, _ := store.CreateStudent("Bob", "Math", 1000)

	if err := store.DeleteStudent(id); err != nil {
		t.Fatalf("unexpected error on delete: %v", err)
	}
	// Deleting the same id again must still succeed.
	if err := store.DeleteStudent(id); err != nil {
		t.Fatalf("expected repeated delete to succeed, got %v", err)
	}

	students, err := store.GetStudents()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range students {
		if s.ID == id {
			t.Fatalf("record %d still present after delete", id)
		}
	}

	if _, err := store.GetStudentByID(id); !errors.Is(err, storage.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound after delete, got %v", err)
	}
}

func TestZeroFeeAccepted(t *testing.T) {
	store := setupStore(t)

	id, err := store.CreateStudent("Bob", "Math", 0)
	if err != nil {
		t.Fatalf("unexpected error creating zero-fee student: %v", err)
	}

	got, err := store.GetStudentByID(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Fee != 0 {
		t.Fatalf("expected fee 0, got %d", got.Fee)
	}
}

func TestCreateAndFindUser(t *testing.T) {
	store := setupStore(t)

	if _, err := store.CreateUser("alice", "hash-1"); err != nil {
		t.Fatalf("unexpected error creating user: %v", err)
	}

	user, err := store.FindUser("alice")
	if err != nil {
		t.Fatalf("unexpected error finding user: %v", err)
	}
	if user.Username != "alice" || user.PasswordHash != "hash-1" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := store.FindUser("nobody"); !errors.Is(err, storage.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	store := setupStore(t)

	if _, err := store.CreateUser("alice", "hash-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The UNIQUE constraint is the backstop for racing registrations:
	// the violation must map to ErrUserExists, not a raw driver error.
	_, err := store.CreateUser("alice", "hash-2")
	if !errors.Is(err, storage.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	store := setupStore(t)

	if _, err := store.CreateUser("alice", "hash-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.UpdatePassword("alice", "hash-2"); err != nil {
		t.Fatalf("unexpected error updating password: %v", err)
	}

	user, err := store.FindUser("alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.PasswordHash != "hash-2" {
		t.Fatalf("expected updated hash, got %q", user.PasswordHash)
	}

	if err := store.UpdatePassword("nobody", "hash-3"); !errors.Is(err, storage.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
