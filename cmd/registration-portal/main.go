// main is the entry point of the registration portal.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Connect to (and set up) the SQLite database
//  4. Build the session store and the auth flow
//  5. Register all HTTP routes
//  6. Start the HTTP server in a separate goroutine
//  7. Block until an OS signal arrives, then shut down gracefully
//
// RUNNING THE SERVER:
//
//	go run ./cmd/registration-portal --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/registration-portal
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"student-registration/internal/auth"
	"student-registration/internal/config"
	authapi "student-registration/internal/http/handlers/auth"
	"student-registration/internal/http/handlers/student"
	"student-registration/internal/session"
	"student-registration/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad reads the YAML config and exits if anything is wrong —
	// if it returns, the config is guaranteed valid.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting registration-portal",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// One *sqlite.SQLite serves both store interfaces; the rest of the
	// code only ever sees storage.UserStore / storage.StudentStore.
	store, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("storage initialised", slog.String("path", cfg.StoragePath))

	// ── 4. Sessions and Auth Flow ─────────────────────────────────────────
	sessions := session.NewStore(cfg.Session.CookieName, cfg.Session.TTL)
	authFlow := auth.NewService(store, cfg.Auth.BcryptCost)

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	// Route table:
	//   POST   /api/auth/login                      → log in
	//   POST   /api/auth/register                   → create an account
	//   POST   /api/auth/reset                      → reset a password
	//   POST   /api/auth/logout                     → back to defaults
	//   GET    /api/session                         → session view
	//   POST   /api/session/page                    → switch login tab
	//   GET    /api/students                        → list snapshot
	//   POST   /api/students                        → add a record
	//   GET    /api/students/{id}                   → selector lookup
	//   PUT    /api/students/{id}                   → update a record
	//   DELETE /api/students/{id}                   → arm delete confirmation
	//   POST   /api/students/{id}/confirm-delete    → perform the delete
	//   POST   /api/students/cancel-delete          → drop the confirmation
	//
	// Everything under /api/students requires a logged-in session.
	router := http.NewServeMux()

	router.HandleFunc("POST /api/auth/login", authapi.Login(authFlow, sessions))
	router.HandleFunc("POST /api/auth/register", authapi.Register(authFlow, sessions))
	router.HandleFunc("POST /api/auth/reset", authapi.Reset(authFlow, sessions))
	router.HandleFunc("POST /api/auth/logout", authapi.Logout(sessions))
	router.HandleFunc("GET /api/session", authapi.GetSession(sessions))
	router.HandleFunc("POST /api/session/page", authapi.SetPage(sessions))

	router.HandleFunc("GET /api/students",
		authapi.RequireLogin(sessions, student.GetList(store)))
	router.HandleFunc("POST /api/students",
		authapi.RequireLogin(sessions, student.New(store)))
	router.HandleFunc("GET /api/students/{id}",
		authapi.RequireLogin(sessions, student.GetByID(store)))
	router.HandleFunc("PUT /api/students/{id}",
		authapi.RequireLogin(sessions, student.Update(store)))
	router.HandleFunc("DELETE /api/students/{id}",
		authapi.RequireLogin(sessions, student.Delete(sessions)))
	router.HandleFunc("POST /api/students/{id}/confirm-delete",
		authapi.RequireLogin(sessions, student.ConfirmDelete(store, sessions)))
	router.HandleFunc("POST /api/students/cancel-delete",
		authapi.RequireLogin(sessions, student.CancelDelete(sessions)))

	// ── 6. Create and Start the HTTP Server ───────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router,

		// Timeouts guard against slow clients holding connections open.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ListenAndServe blocks, so it runs in its own goroutine and main
	// stays free to wait for the shutdown signal below.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	// Stop accepting new connections, let in-flight requests finish,
	// give up after five seconds.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := store.Close(); err != nil {
		log.Error("failed to close storage", slog.String("error", err.Error()))
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given
// environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
