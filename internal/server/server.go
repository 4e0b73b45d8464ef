package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/julianstephens/goaltrack/internal/constants"
	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/logger"
	"github.com/julianstephens/goaltrack/internal/reminder"
)

// Runner runs one reminder batch.
type Runner interface {
	Run(ctx context.Context, kind reminder.Kind) (reminder.Result, error)
}

type Config struct {
	Addr string
	// Secret enables bearer JWT verification on the trigger endpoints when set.
	Secret string
	// LockDir is where the lockfile is written; empty disables it.
	LockDir string
}

// Server exposes the morning and evening reminder runs over HTTP so an
// external scheduler can trigger them.
type Server struct {
	cfg    Config
	runner Runner
	ready  chan struct{}
	addr   net.Addr
}

func New(cfg Config, runner Runner) *Server {
	if cfg.Addr == "" {
		cfg.Addr = constants.DefaultListenAddr
	}
	return &Server{
		cfg:    cfg,
		runner: runner,
		ready:  make(chan struct{}),
	}
}

// Handler returns the trigger routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /reminders/morning", s.trigger(reminder.Announcement))
	mux.HandleFunc("POST /reminders/evening", s.trigger(reminder.Reflection))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": constants.Version})
	})

	if s.cfg.Secret == "" {
		return mux
	}
	return requireToken([]byte(s.cfg.Secret), mux)
}

type triggerResponse struct {
	Success bool `json:"success"`
	reminder.Result
}

func (s *Server) trigger(kind reminder.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Info("Reminder run triggered", "kind", kind, "remote", r.RemoteAddr)

		// the run outlives a scheduler that stops waiting for the response
		result, err := s.runner.Run(context.WithoutCancel(r.Context()), kind)
		if err != nil {
			var fatal *apperrors.FatalRunError
			if !errors.As(err, &fatal) {
				logger.Error("Reminder run failed", "kind", kind, "error", err)
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, triggerResponse{Success: true, Result: result})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr is the bound address, valid after Ready is closed.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Serve listens until ctx is cancelled, then shuts down gracefully and
// removes the lockfile.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.addr = listener.Addr()

	if s.cfg.LockDir != "" {
		port := listener.Addr().(*net.TCPAddr).Port
		if err := WriteLockfile(s.cfg.LockDir, port); err != nil {
			listener.Close()
			return err
		}
		defer RemoveLockfile(s.cfg.LockDir)
	}
	close(s.ready)

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	logger.Info("Trigger server listening", "addr", s.addr.String(), "auth", s.cfg.Secret != "")

	serveDone := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Trigger server shutting down")
	case err := <-serveDone:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-serveDone

	logger.Info("Trigger server stopped")
	return nil
}
