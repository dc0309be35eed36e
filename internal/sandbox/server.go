// Package sandbox is a local stand-in for the banking backend. It speaks the
// same envelope protocol as production so the client can run end to end.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/zamanipay/zamanipay/internal/config"
	"github.com/zamanipay/zamanipay/internal/infra"
	"github.com/zamanipay/zamanipay/internal/sandbox/accounts"
)

// Server wraps the Fiber application and shared dependencies.
type Server struct {
	app *fiber.App
	cfg config.Config
}

// New builds the sandbox over the given backends. Without a database the
// accounts live in memory.
func New(ctx context.Context, cfg config.Config, b infra.Backends, logger *slog.Logger) (*Server, error) {
	var repo accounts.Repository
	if b.DB != nil {
		pg := accounts.NewPostgresRepository(b.DB)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		repo = pg
	} else {
		repo = accounts.NewMemoryRepository()
	}

	svc := accounts.NewService(repo)
	if cfg.SeedSandbox {
		acct, err := svc.Seed(ctx)
		if err != nil {
			return nil, fmt.Errorf("seed demo account: %w", err)
		}
		logger.Info("demo account ready", slog.String("email", acct.Email), slog.String("account_number", acct.AccountNumber))
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName + " sandbox",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          errorHandler(logger),
		DisableStartupMessage: !cfg.IsDev(),
	})
	Setup(app, Deps{Cfg: cfg, Backends: b, Accounts: svc, Logger: logger})

	return &Server{app: app, cfg: cfg}, nil
}

// App exposes the fiber application, mainly for app.Test.
func (s *Server) App() *fiber.App { return s.app }

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// envelope is the response shape of every backend endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// errorHandler turns every unhandled error into an envelope so the client
// can always parse the body.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else {
			logger.Error("unhandled error", slog.String("path", c.Path()), slog.Any("error", err))
		}
		return c.Status(code).JSON(envelope{Success: false, Message: msg})
	}
}
