package sandbox

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/zamanipay/zamanipay/internal/config"
	"github.com/zamanipay/zamanipay/internal/infra"
	"github.com/zamanipay/zamanipay/internal/middleware"
	"github.com/zamanipay/zamanipay/internal/sandbox/accounts"
)

// BasePath is where the backend scripts are mounted.
const BasePath = "/zamanipay/backend"

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg      config.Config
	Backends infra.Backends
	Accounts *accounts.Service
	Logger   *slog.Logger
}

// Setup configures middlewares and all routes.
func Setup(app *fiber.App, d Deps) {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDev() && d.Cfg.LogLevel == "debug" {
		// Plain text access log: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	h := &handler{accounts: d.Accounts, logger: d.Logger}
	idem := middleware.Idempotency(d.Backends.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	rateLimit := middleware.LoginRateLimit(d.Backends.Cache, d.Cfg.LoginAttemptsPerMinute)

	backend := app.Group(BasePath)
	backend.Post("/get_dashboard_data.php", h.dashboard)
	backend.Post("/enable_fingerprint.php", idem, h.fingerprint)
	backend.Post("/signup.php", idem, h.signup)
	backend.Post("/login.php", rateLimit, h.login)
	backend.Post("/forgot_password.php", idem, h.forgotPassword)
}
