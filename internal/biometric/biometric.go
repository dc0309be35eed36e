// Package biometric abstracts the device's fingerprint sensor.
package biometric

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Result of an authentication challenge.
type Result struct {
	Success bool
	Reason  string
}

// Authenticator checks capability and runs challenges.
type Authenticator interface {
	HasHardware(ctx context.Context) (bool, error)
	IsEnrolled(ctx context.Context) (bool, error)
	Authenticate(ctx context.Context, prompt string) (Result, error)
}

// Static answers from fixed values. Challenges counts Authenticate calls.
type Static struct {
	Hardware   bool
	Enrolled   bool
	Approve    bool
	Challenges int
}

func (s *Static) HasHardware(context.Context) (bool, error) { return s.Hardware, nil }

func (s *Static) IsEnrolled(context.Context) (bool, error) { return s.Enrolled, nil }

func (s *Static) Authenticate(context.Context, string) (Result, error) {
	s.Challenges++
	if !s.Approve {
		return Result{Reason: "rejected"}, nil
	}
	return Result{Success: true}, nil
}

// Console runs the challenge on a terminal: the user confirms by typing
// "yes". Capability comes from configuration since a terminal has no sensor.
type Console struct {
	Hardware bool
	Enrolled bool
	In       io.Reader
	Out      io.Writer
}

func (c *Console) HasHardware(context.Context) (bool, error) { return c.Hardware, nil }

func (c *Console) IsEnrolled(context.Context) (bool, error) { return c.Enrolled, nil }

func (c *Console) Authenticate(ctx context.Context, prompt string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if _, err := fmt.Fprintf(c.Out, "%s (type \"yes\" to confirm): ", prompt); err != nil {
		return Result{}, err
	}
	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return Result{}, fmt.Errorf("read confirmation: %w", err)
	}
	if strings.EqualFold(strings.TrimSpace(line), "yes") {
		return Result{Success: true}, nil
	}
	return Result{Reason: "not confirmed"}, nil
}
