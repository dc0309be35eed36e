package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zamanipay/zamanipay/internal/account"
	"github.com/zamanipay/zamanipay/internal/identity"
	"github.com/zamanipay/zamanipay/internal/screen/auth"
	"github.com/zamanipay/zamanipay/internal/screen/dashboard"
	"github.com/zamanipay/zamanipay/internal/screen/onboarding"
	"github.com/zamanipay/zamanipay/internal/screen/pay"
	"github.com/zamanipay/zamanipay/internal/screen/profile"
	"github.com/zamanipay/zamanipay/internal/view"
)

func onboardingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboarding",
		Short: "Show the welcome slides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var c onboarding.Carousel
			out := cmd.OutOrStdout()
			for {
				i, slide := c.Current()
				fmt.Fprintf(out, "[%d/%d] %s\n      %s\n", i+1, len(onboarding.Slides), slide.Title, slide.Subtitle)
				if route := c.Next(); route != nil {
					fmt.Fprintf(out, "Next: %s\n", route.Screen)
					return nil
				}
			}
		},
	}
}

func signupCmd(g *globalFlags) *cobra.Command {
	var name, email, phone, pin, confirm string
	var agree bool

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: run(g, func(ctx context.Context, a *app) error {
			s := auth.NewSignup(a.deps)
			s.Form = auth.SignupForm{FullName: name, Email: email, PhoneNumber: phone}
			s.PIN.Paste(pin)
			s.ConfirmPIN.Paste(confirm)
			s.AgreeTerms = agree
			route, err := s.Submit(ctx)
			if err != nil {
				return err
			}
			a.printf("Next: %s\n", route.Screen)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&pin, "pin", "", "5-digit PIN")
	cmd.Flags().StringVar(&confirm, "confirm-pin", "", "PIN again")
	cmd.Flags().BoolVar(&agree, "agree-terms", false, "Accept the terms and privacy policy")
	return cmd
}

func loginCmd(g *globalFlags) *cobra.Command {
	var email, pin string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and cache the identity",
		Args:  cobra.NoArgs,
		RunE: run(g, func(ctx context.Context, a *app) error {
			l := auth.NewLogin(a.deps)
			l.Email = email
			l.PIN.Paste(pin)
			route, err := l.Submit(ctx)
			if err != nil {
				return err
			}
			a.printf("Next: %s\n", route.Screen)
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&pin, "pin", "", "5-digit PIN")
	return cmd
}

func logoutCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the cached identity",
		Args:  cobra.NoArgs,
		RunE: run(g, func(ctx context.Context, a *app) error {
			route, err := profile.New(a.deps).Logout(ctx)
			if err != nil {
				return err
			}
			a.printf("Next: %s\n", route.Screen)
			return nil
		}),
	}
}

func forgotPasswordCmd(g *globalFlags) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a PIN reset email",
		Args:  cobra.NoArgs,
		RunE: run(g, func(ctx context.Context, a *app) error {
			f := auth.NewForgotPassword(a.deps)
			f.Email = email
			if err := f.Submit(ctx); err != nil {
				return err
			}
			if f.EmailSent() {
				a.printf("Check your inbox at %s\n", strings.TrimSpace(email))
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	return cmd
}

// identityFlags lets a command act as if navigated to with params.
type identityFlags struct {
	email   string
	name    string
	retries int
}

func (f *identityFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "Load this account instead of the cached one")
	cmd.Flags().StringVar(&f.name, "name", "", "Display name passed with --email")
	cmd.Flags().IntVar(&f.retries, "retries", 0, "Retry a failed load this many times")
}

func (f *identityFlags) params() identity.Params {
	return identity.Params{Email: f.email, FullName: f.name}
}

type loader interface {
	Mount(ctx context.Context, params identity.Params) (view.State[account.Snapshot], error)
	Retry(ctx context.Context) (view.State[account.Snapshot], error)
}

// load mounts a screen and retries failed fetches. It reports an error when
// the screen ends in the failed state.
func (f *identityFlags) load(ctx context.Context, a *app, s loader) error {
	st, err := s.Mount(ctx, f.params())
	for i := 0; err == nil && st.CanRetry() && i < f.retries; i++ {
		a.logger.Info("retrying load", "attempt", i+1, "message", st.Message)
		st, err = s.Retry(ctx)
	}
	if err != nil {
		return err
	}
	if st.Status == view.Failed {
		return errors.New(st.Message)
	}
	return nil
}

func dashboardCmd(g *globalFlags) *cobra.Command {
	var f identityFlags
	var enable bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show balance, contacts and recent transactions",
		Args:  cobra.NoArgs,
		RunE: run(g, func(ctx context.Context, a *app) error {
			d := dashboard.New(a.deps)
			if err := f.load(ctx, a, d); err != nil {
				return err
			}
			renderDashboard(a.out, d.Model())
			if !d.PromptVisible() {
				return nil
			}
			if !enable {
				a.printf("\nEnable fingerprint login for faster access: run with --enable-fingerprint\n")
				d.DismissPrompt()
				return nil
			}
			return d.EnableFingerprint(ctx)
		}),
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&enable, "enable-fingerprint", false, "Accept the fingerprint prompt if it is shown")
	return cmd
}

func payCmd(g *globalFlags) *cobra.Command {
	var f identityFlags
	var to, amount string

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Send a payment from the available balance",
		Args:  cobra.NoArgs,
		RunE: run(g, func(ctx context.Context, a *app) error {
			p := pay.New(a.deps)
			if err := f.load(ctx, a, p); err != nil {
				return err
			}
			a.printf("Available balance: %s\n", p.BalanceText())
			p.SetRecipient(to)
			p.SetAmount(amount)
			return p.Submit(ctx)
		}),
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&to, "to", "", "Recipient")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount")
	return cmd
}

func profileCmd(g *globalFlags) *cobra.Command {
	var f identityFlags

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show account details",
		Args:  cobra.NoArgs,
		RunE: run(g, func(ctx context.Context, a *app) error {
			p := profile.New(a.deps)
			if err := f.load(ctx, a, p); err != nil {
				return err
			}
			renderProfile(a.out, p.Details())
			return nil
		}),
	}
	f.bind(cmd)
	cmd.AddCommand(fingerprintCmd(g))
	return cmd
}

func fingerprintCmd(g *globalFlags) *cobra.Command {
	var f identityFlags

	cmd := &cobra.Command{
		Use:       "fingerprint on|off",
		Short:     "Turn fingerprint login on or off",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		want := args[0] == "on"
		return run(g, func(ctx context.Context, a *app) error {
			p := profile.New(a.deps)
			if err := f.load(ctx, a, p); err != nil {
				return err
			}
			if p.Details().HasFingerprint == want {
				a.printf("Fingerprint login is already %s\n", args[0])
				return nil
			}
			if err := p.ToggleFingerprint(ctx); err != nil {
				return err
			}
			renderProfile(a.out, p.Details())
			return nil
		})(cmd, args)
	}
	f.bind(cmd)
	return cmd
}
