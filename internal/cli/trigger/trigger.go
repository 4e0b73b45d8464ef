package trigger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/goaltrack/internal/cli"
	"github.com/julianstephens/goaltrack/internal/logger"
	"github.com/julianstephens/goaltrack/internal/server"
)

// ServeCmd exposes the reminder runs over HTTP for an external scheduler.
type ServeCmd struct {
	Addr        string `help:"Listen address." default:"${default_listen_addr}" env:"GOALTRACK_LISTEN_ADDR"`
	Secret      string `help:"HS256 secret required on trigger requests. Empty disables auth." env:"GOALTRACK_TRIGGER_SECRET"`
	Concurrency int    `help:"Number of users processed at once per run." default:"4"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	if err := logger.Init(logger.Config{Debug: ctx.Debug, ConfigDir: ctx.ConfigDir, Stderr: true}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if status, err := server.ReadStatus(ctx.ConfigDir); err == nil {
		return fmt.Errorf("trigger server already running on port %d (PID %d)", status.Port, status.PID)
	}

	sender, err := ctx.Sender()
	if err != nil {
		return err
	}
	if c.Secret == "" {
		logger.Warn("Trigger secret not set, endpoints accept unauthenticated requests")
	}

	srv := server.New(server.Config{
		Addr:    c.Addr,
		Secret:  c.Secret,
		LockDir: ctx.ConfigDir,
	}, ctx.Dispatcher(sender, c.Concurrency))

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Serve(sigCtx)
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	status, err := server.ReadStatus(ctx.ConfigDir)
	if errors.Is(err, server.ErrNotRunning) {
		fmt.Println("Trigger server is not running.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("✓ Trigger server running on port %d (PID %d)\n", status.Port, status.PID)
	return nil
}

// TokenCmd prints a bearer token for the scheduler to send.
type TokenCmd struct {
	Secret string        `help:"HS256 secret shared with the server." env:"GOALTRACK_TRIGGER_SECRET" required:""`
	TTL    time.Duration `help:"Token lifetime. Zero never expires." default:"0s"`
}

func (c *TokenCmd) Run(ctx *cli.Context) error {
	token, err := server.IssueToken(c.Secret, c.TTL)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	fmt.Println(token)
	return nil
}
