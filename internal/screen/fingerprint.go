package screen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zamanipay/zamanipay/internal/account"
	"github.com/zamanipay/zamanipay/internal/alert"
	"github.com/zamanipay/zamanipay/internal/api"
)

// Fingerprint toggle failures that never reach the server.
var (
	ErrNoBiometricHardware = &ValidationError{Message: "Device does not support biometrics"}
	ErrNotEnrolled         = &ValidationError{Message: "No biometrics enrolled on device"}
	ErrChallengeFailed     = &ValidationError{Message: "Biometric authentication failed"}
)

const enablePrompt = "Authenticate to enable fingerprint"

type fingerprintRequest struct {
	Email  string `json:"email"`
	Enable bool   `json:"enable"`
}

type fingerprintData struct {
	HasFingerprint *account.Flag `json:"has_fingerprint"`
}

// SetFingerprint enables or disables fingerprint login for email and returns
// the state the server acknowledged. Capability and enrollment are checked
// first; enabling also needs a fresh successful challenge. Every outcome is
// reported through an alert.
func SetFingerprint(ctx context.Context, d Deps, email string, enable bool) (bool, error) {
	d = d.WithDefaults()
	if d.Biometrics == nil {
		d.Notify(ctx, alert.Errorf("%s", ErrNoBiometricHardware.Message))
		return false, ErrNoBiometricHardware
	}

	hasHW, err := d.Biometrics.HasHardware(ctx)
	if err != nil {
		return false, fingerprintFailure(ctx, d, err)
	}
	if !hasHW {
		d.Notify(ctx, alert.Errorf("%s", ErrNoBiometricHardware.Message))
		return false, ErrNoBiometricHardware
	}

	enrolled, err := d.Biometrics.IsEnrolled(ctx)
	if err != nil {
		return false, fingerprintFailure(ctx, d, err)
	}
	if !enrolled {
		d.Notify(ctx, alert.Errorf("%s", ErrNotEnrolled.Message))
		return false, ErrNotEnrolled
	}

	if enable {
		res, err := d.Biometrics.Authenticate(ctx, enablePrompt)
		if err != nil {
			return false, fingerprintFailure(ctx, d, err)
		}
		if !res.Success {
			d.Notify(ctx, alert.Errorf("%s", ErrChallengeFailed.Message))
			return false, ErrChallengeFailed
		}
	}

	var data fingerprintData
	env, err := d.Client.Do(ctx, api.Fingerprint, fingerprintRequest{Email: email, Enable: enable}, &data)
	if err != nil {
		if IsRejected(err) {
			d.Notify(ctx, alert.Errorf("%s", api.ServerMessage(err, "Failed to update fingerprint setting")))
			return false, err
		}
		return false, fingerprintFailure(ctx, d, err)
	}

	acknowledged := enable
	if data.HasFingerprint != nil {
		acknowledged = bool(*data.HasFingerprint)
	}
	d.Logger.Info("fingerprint setting updated", slog.String("email", email), slog.Bool("enabled", acknowledged))
	d.Notify(ctx, alert.Success(env.Message))
	return acknowledged, nil
}

func fingerprintFailure(ctx context.Context, d Deps, err error) error {
	d.Logger.Warn("fingerprint toggle failed", slog.Any("error", err))
	d.Notify(ctx, alert.Errorf("Failed to toggle fingerprint: %v", err))
	return fmt.Errorf("toggle fingerprint: %w", err)
}
