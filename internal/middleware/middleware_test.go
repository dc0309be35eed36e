package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/zamanipay/zamanipay/internal/logging"
)

func loginApp(t *testing.T, maxPerMin int) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Post("/login.php", LoginRateLimit(newCache(t), maxPerMin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func login(t *testing.T, app *fiber.App, email string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/login.php", strings.NewReader(`{"email":"`+email+`","pin":"00000"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestLoginRateLimitPerEmail(t *testing.T) {
	app := loginApp(t, 2)

	for i := 0; i < 2; i++ {
		if status := login(t, app, "ada@zamanipay.test"); status != fiber.StatusOK {
			t.Fatalf("attempt %d: expected 200 got %d", i+1, status)
		}
	}
	if status := login(t, app, "ADA@zamanipay.test"); status != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", status)
	}
	if status := login(t, app, "oji@zamanipay.test"); status != fiber.StatusOK {
		t.Fatalf("other emails are not limited, got %d", status)
	}
}

func TestLoginRateLimitWithoutCache(t *testing.T) {
	app := fiber.New()
	app.Post("/login.php", LoginRateLimit(nil, 1), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 3; i++ {
		if status := login(t, app, "ada@zamanipay.test"); status != fiber.StatusOK {
			t.Fatalf("expected pass-through, got %d", status)
		}
	}
}

func TestRequestIDEchoesClientID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID(), Audit(logging.Discard()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(RequestIDFrom(c)) })

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "client-id-1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(requestIDHeader); got != "client-id-1" {
		t.Fatalf("expected echoed id, got %q", got)
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get(requestIDHeader) == "" {
		t.Fatalf("expected a generated request id")
	}
}
