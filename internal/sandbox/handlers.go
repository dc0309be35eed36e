package sandbox

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/zamanipay/zamanipay/internal/sandbox/accounts"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	msgInvalidJSON   = "Invalid JSON payload"
	msgNoEmail       = "No email provided"
	msgSignedUp      = "Account created successfully. Please log in."
	msgLoggedIn      = "Login successful"
	msgRecoverySent  = "If an account exists for this email, a reset link has been sent"
	msgInvalidEmail  = "Please enter a valid email address"
	msgPrintEnabled  = "Fingerprint enabled"
	msgPrintDisabled = "Fingerprint disabled"
)

type handler struct {
	accounts *accounts.Service
	logger   *slog.Logger
}

type emailRequest struct {
	Email string `json:"email"`
}

type fingerprintRequest struct {
	Email  string `json:"email"`
	Enable bool   `json:"enable"`
}

type loginRequest struct {
	Email string `json:"email"`
	PIN   string `json:"pin"`
}

type userData struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	UserID   string `json:"user_id"`
}

func parse(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(http.StatusBadRequest, msgInvalidJSON)
	}
	return nil
}

func ok(c *fiber.Ctx, message string, data any) error {
	return c.JSON(envelope{Success: true, Message: message, Data: data})
}

// reject answers with success=false. Business failures keep HTTP 200, as
// the production scripts do.
func reject(c *fiber.Ctx, message string) error {
	return c.JSON(envelope{Success: false, Message: message})
}

func (h *handler) dashboard(c *fiber.Ctx) error {
	var req emailRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Email) == "" {
		return reject(c, msgNoEmail)
	}
	acct, err := h.accounts.Get(c.UserContext(), req.Email)
	if errors.Is(err, accounts.ErrNotFound) {
		return reject(c, err.Error())
	}
	if err != nil {
		return err
	}
	return ok(c, "", acct.Snapshot())
}

func (h *handler) fingerprint(c *fiber.Ctx) error {
	var req fingerprintRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	on, err := h.accounts.SetFingerprint(c.UserContext(), req.Email, req.Enable)
	if errors.Is(err, accounts.ErrNotFound) {
		return reject(c, err.Error())
	}
	if err != nil {
		return err
	}
	h.logger.Info("fingerprint updated", slog.String("email", req.Email), slog.Bool("enabled", on))
	msg := msgPrintDisabled
	if on {
		msg = msgPrintEnabled
	}
	return ok(c, msg, fiber.Map{"has_fingerprint": on})
}

func (h *handler) signup(c *fiber.Ctx) error {
	var req accounts.SignupInput
	if err := parse(c, &req); err != nil {
		return err
	}
	acct, err := h.accounts.Register(c.UserContext(), req)
	var verr *accounts.ValidationError
	switch {
	case errors.As(err, &verr):
		return reject(c, verr.Message)
	case errors.Is(err, accounts.ErrEmailTaken):
		return reject(c, err.Error())
	case err != nil:
		return err
	}
	h.logger.Info("account registered",
		slog.String("user_id", acct.ID),
		slog.String("email", acct.Email),
		slog.String("account_number", acct.AccountNumber),
	)
	return ok(c, msgSignedUp, userData{Email: acct.Email, FullName: acct.FullName, UserID: acct.ID})
}

func (h *handler) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	acct, err := h.accounts.Authenticate(c.UserContext(), req.Email, req.PIN)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		return reject(c, err.Error())
	}
	if err != nil {
		return err
	}
	return ok(c, msgLoggedIn, userData{Email: acct.Email, FullName: acct.FullName, UserID: acct.ID})
}

// forgotPassword answers the same for known and unknown addresses.
func (h *handler) forgotPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	email := strings.TrimSpace(req.Email)
	if !emailPattern.MatchString(email) {
		return reject(c, msgInvalidEmail)
	}
	if _, err := h.accounts.Get(c.UserContext(), email); err == nil {
		h.logger.Info("password recovery requested", slog.String("email", email))
	}
	return ok(c, msgRecoverySent, nil)
}
