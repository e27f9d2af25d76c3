// Package auth contains the HTTP handlers for the authentication flow
// and for session navigation.
//
// HANDLER PATTERN — THE CLOSURE / FACTORY PATTERN:
// Each exported function accepts its dependencies (auth service,
// session store) and returns a func with the exact signature the router
// needs. The factory runs once at route registration; the returned
// closure runs on every request.
package auth

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	authsvc "student-registration/internal/auth"
	"student-registration/internal/session"
	"student-registration/internal/storage"
	"student-registration/internal/types"
	"student-registration/internal/utils/response"
)

// decodeAndValidate reads the JSON body into dst and runs the
// validator tags. It writes the error response itself and reports
// whether the handler should continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}

	if err := validator.New().Struct(dst); err != nil {
		validateErrs := err.(validator.ValidationErrors)
		response.WriteJSON(w, http.StatusBadRequest,
			response.ValidationError(validateErrs))
		return false
	}

	return true
}

// writeFlowError maps auth flow errors onto HTTP statuses. Validation
// failures and not-found outcomes keep the client on the current page;
// anything unrecognised is a store failure and becomes a generic
// message — the session is left exactly as it was.
func writeFlowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
	case errors.Is(err, storage.ErrUserExists):
		response.WriteJSON(w, http.StatusConflict, response.GeneralError(err))
	case errors.Is(err, authsvc.ErrInvalidPassword):
		response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(err))
	case errors.Is(err, authsvc.ErrPasswordMismatch),
		errors.Is(err, authsvc.ErrPasswordTooShort),
		errors.Is(err, authsvc.ErrEmptyCredentials):
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	default:
		slog.Error("auth flow store failure", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.StoreError())
	}
}

// Login handles POST /api/auth/login.
// Success flips the session to logged in and returns the session view;
// the client then redisplays the main flow.
func Login(svc *authsvc.Service, sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessions.Get(w, r)

		var req types.LoginRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if err := svc.Login(req.Username, req.Password); err != nil {
			slog.Info("login rejected", slog.String("username", req.Username))
			writeFlowError(w, err)
			return
		}

		sess.LogIn(req.Username)

		slog.Info("user logged in", slog.String("username", req.Username))
		response.WriteJSON(w, http.StatusOK, sess.View())
	}
}

// Register handles POST /api/auth/register.
// A new account does not log the client in — the source flow sends the
// user back to the login tab.
func Register(svc *authsvc.Service, sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.Get(w, r)

		var req types.RegisterRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if err := svc.Register(req.Username, req.Password, req.ConfirmPassword); err != nil {
			writeFlowError(w, err)
			return
		}

		slog.Info("user registered", slog.String("username", req.Username))
		response.WriteJSON(w, http.StatusCreated,
			map[string]string{"status": response.StatusOK})
	}
}

// Reset handles POST /api/auth/reset.
func Reset(svc *authsvc.Service, sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.Get(w, r)

		var req types.ResetRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if err := svc.Reset(req.Username, req.NewPassword); err != nil {
			writeFlowError(w, err)
			return
		}

		slog.Info("password reset", slog.String("username", req.Username))
		response.WriteJSON(w, http.StatusOK,
			map[string]string{"status": response.StatusOK})
	}
}

// Logout handles POST /api/auth/logout: the session goes back to its
// defaults and the client lands on the login page.
func Logout(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessions.Get(w, r)
		username := sess.View().Username
		sessions.Reset(sess)

		slog.Info("user logged out", slog.String("username", username))
		response.WriteJSON(w, http.StatusOK, sess.View())
	}
}

// GetSession handles GET /api/session. The UI reads this at the top of
// every render cycle to decide which screen to draw.
func GetSession(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessions.Get(w, r)
		response.WriteJSON(w, http.StatusOK, sess.View())
	}
}

// SetPage handles POST /api/session/page — the login/register/reset
// tabs. Transitions are unconditional, but only exist while logged out.
func SetPage(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessions.Get(w, r)

		var req types.PageRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if sess.IsLoggedIn() {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("already logged in")))
			return
		}

		sess.SetPage(req.Page)
		response.WriteJSON(w, http.StatusOK, sess.View())
	}
}

// RequireLogin guards the student routes: without a logged-in session
// the request never reaches the handler.
func RequireLogin(sessions *session.Store, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessions.Get(w, r)
		if !sess.IsLoggedIn() {
			response.WriteJSON(w, http.StatusUnauthorized,
				response.GeneralError(errors.New("login required")))
			return
		}
		next(w, r)
	}
}
