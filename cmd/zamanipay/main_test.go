package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zamanipay/zamanipay/internal/config"
	"github.com/zamanipay/zamanipay/internal/infra"
	"github.com/zamanipay/zamanipay/internal/logging"
	"github.com/zamanipay/zamanipay/internal/sandbox"
	"github.com/zamanipay/zamanipay/internal/view"
)

type cli struct {
	t      *testing.T
	global []string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	cfg := config.Config{AppName: "ZamaniPay", AppEnv: "test", LogLevel: "error", IdempotencyTTL: time.Minute, SeedSandbox: true}
	srv, err := sandbox.New(context.Background(), cfg, infra.Backends{}, logging.Discard())
	require.NoError(t, err)
	ts := httptest.NewServer(adaptor.FiberApp(srv.App()))
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	return &cli{t: t, global: []string{
		"--env-file", filepath.Join(dir, "missing.env"),
		"--api-url", ts.URL + sandbox.BasePath,
		"--store", "file",
		"--state-dir", dir,
		"--log-level", "error",
	}}
}

func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, c.global...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSessionFlow(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "dashboard")
	require.EqualError(t, err, view.MsgNotLoggedIn)
	assert.Empty(t, out)

	out, err = c.run("", "login", "--email", "demo@zamanipay.test", "--pin", "12345")
	require.NoError(t, err)
	assert.Contains(t, out, "Success: Login successful!")
	assert.Contains(t, out, "Next: dashboard")

	out, err = c.run("", "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Balance:  ₦950000.00")
	assert.Contains(t, out, "Account:  9061512740")
	assert.Contains(t, out, "--enable-fingerprint")

	out, err = c.run("yes\n", "dashboard", "--enable-fingerprint")
	require.NoError(t, err)
	assert.Contains(t, out, "Success: Fingerprint enabled")

	out, err = c.run("", "profile")
	require.NoError(t, err)
	assert.Regexp(t, `Fingerprint\s+on`, out)

	out, err = c.run("", "profile", "fingerprint", "on")
	require.NoError(t, err)
	assert.Contains(t, out, "already on")

	out, err = c.run("", "profile", "fingerprint", "off")
	require.NoError(t, err)
	assert.Regexp(t, `Fingerprint\s+off`, out)

	out, err = c.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Success: Logged out successfully")

	_, err = c.run("", "profile")
	require.EqualError(t, err, view.MsgNotLoggedIn)
}

func TestPay(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "pay", "--email", "demo@zamanipay.test", "--to", "Ada", "--amount", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "Available balance: ₦950000.00")
	assert.Contains(t, out, "Success: Payment of ₦1000 to Ada sent!")

	out, err = c.run("", "pay", "--email", "demo@zamanipay.test", "--to", "Ada", "--amount", "2000000")
	require.Error(t, err)
	assert.Contains(t, out, "Error: Insufficient balance")
}

func TestSignupAndRecovery(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "signup", "--name", "Ada Obi", "--email", "ada@zamanipay.test", "--phone", "0803",
		"--pin", "24680", "--confirm-pin", "24680")
	require.Error(t, err, "terms must be accepted")

	out, err := c.run("", "signup", "--name", "Ada Obi", "--email", "ada@zamanipay.test", "--phone", "0803",
		"--pin", "24680", "--confirm-pin", "24680", "--agree-terms")
	require.NoError(t, err)
	assert.Contains(t, out, "Next: login")

	out, err = c.run("", "forgot-password", "--email", "ada@zamanipay.test")
	require.NoError(t, err)
	assert.Contains(t, out, "Check your inbox at ada@zamanipay.test")
}

func TestOnboardingEndsAtLogin(t *testing.T) {
	out, err := (&cli{t: t}).run("", "onboarding")
	require.NoError(t, err)
	assert.Contains(t, out, "[1/3] Bank with confidence")
	assert.True(t, strings.HasSuffix(out, "Next: login\n"))
}

func TestFingerprintArgs(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "profile", "fingerprint", "maybe")
	require.Error(t, err)
}
