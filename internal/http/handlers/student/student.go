// Package student contains all HTTP handlers related to the student
// registration table: the CRUD operations, the two-phase delete
// confirmation, and the reload-on-mutation responses.
//
// The handlers use the same closure/factory pattern as the auth
// handlers: each factory receives its dependencies once at route
// registration and returns the handler the router calls per request.
//
// RELOAD-ON-MUTATION: every mutation response carries a fresh snapshot
// of the whole table. The UI redraws from that snapshot instead of
// patching its local copy. Re-reading the store is the one and only
// consistency mechanism here — deliberately, at this scale.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"student-registration/internal/session"
	"student-registration/internal/storage"
	"student-registration/internal/types"
	"student-registration/internal/utils/response"
)

// mutationResult is the envelope of every successful mutation: the id
// that was touched plus the refreshed table snapshot.
type mutationResult struct {
	Status   string          `json:"status"`
	ID       int64           `json:"id,omitempty"`
	Students []types.Student `json:"students"`
}

// writeMutation fetches the post-mutation snapshot and writes the
// envelope. The mutation has already committed at this point, so a
// failing re-read is logged and reported as a store failure.
func writeMutation(w http.ResponseWriter, store storage.StudentStore, status int, id int64) {
	students, err := store.GetStudents()
	if err != nil {
		slog.Error("error reloading students after mutation",
			slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.StoreError())
		return
	}
	response.WriteJSON(w, status, mutationResult{
		Status:   response.StatusOK,
		ID:       id,
		Students: students,
	})
}

// pathID parses the {id} path segment. Writes the error response
// itself; the second return value reports whether to continue.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

// New handles POST /api/students.
// Creates a record from the JSON body. Name and course must be
// non-empty and fee must be >= 0 — all checked before the store sees
// anything.
func New(store storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var student types.Student
		err := json.NewDecoder(r.Body).Decode(&student)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(student); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		lastID, err := store.CreateStudent(student.Name, student.Course, student.Fee)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.StoreError())
			return
		}

		slog.Info("student created", slog.Int64("id", lastID))
		writeMutation(w, store, http.StatusCreated, lastID)
	}
}

// GetList handles GET /api/students — the full snapshot the UI renders
// its table and selector from. No pagination; the whole table every
// time.
func GetList(store storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := store.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.StoreError())
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// GetByID handles GET /api/students/{id} — the selector picked an
// existing record and the UI populates the editable fields from it.
func GetByID(store storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		student, err := store.GetStudentByID(id)
		if err != nil {
			if errors.Is(err, storage.ErrStudentNotFound) {
				response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
				return
			}
			slog.Error("error getting student",
				slog.Int64("id", id), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.StoreError())
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// Update handles PUT /api/students/{id}.
// Same field validation as creation; the id itself is immutable. A
// stale id (row deleted under a stale snapshot) comes back 404.
func Update(store storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		var student types.Student
		err := json.NewDecoder(r.Body).Decode(&student)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(student); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		if err := store.UpdateStudent(id, student.Name, student.Course, student.Fee); err != nil {
			if errors.Is(err, storage.ErrStudentNotFound) {
				response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
				return
			}
			slog.Error("error updating student",
				slog.Int64("id", id), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.StoreError())
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		writeMutation(w, store, http.StatusOK, id)
	}
}

// Delete handles DELETE /api/students/{id} — the FIRST phase of the
// two-phase delete. Nothing is removed here: the record id is armed on
// the session and the client shows the Yes/Cancel sub-prompt. Arming is
// not a lock — any other action is still processed normally while a
// confirmation is pending.
func Delete(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		sess := sessions.Get(w, r)
		sess.ArmDelete(id)

		slog.Info("delete confirmation armed", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusAccepted, map[string]any{
			"status":            "confirm_required",
			"pending_delete_id": id,
		})
	}
}

// ConfirmDelete handles POST /api/students/{id}/confirm-delete — the
// SECOND phase. The destructive call happens only when the path id
// matches the armed id; a mismatch (selection changed since arming)
// deletes nothing and leaves the armed state alone.
func ConfirmDelete(store storage.StudentStore, sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		sess := sessions.Get(w, r)
		pending := sess.PendingDelete()
		if pending == 0 {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("no delete pending")))
			return
		}
		if pending != id {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("pending delete is for a different record")))
			return
		}

		if err := store.DeleteStudent(id); err != nil {
			slog.Error("error deleting student",
				slog.Int64("id", id), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.StoreError())
			return
		}
		sess.ClearPendingDelete()

		slog.Info("student deleted", slog.Int64("id", id))
		writeMutation(w, store, http.StatusOK, id)
	}
}

// CancelDelete handles POST /api/students/cancel-delete: clears the
// armed id without touching the store.
func CancelDelete(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessions.Get(w, r)
		sess.ClearPendingDelete()

		response.WriteJSON(w, http.StatusOK,
			map[string]string{"status": response.StatusOK})
	}
}
