package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	defaultAppName          = "ZamaniPay"
	defaultAppEnv           = "development"
	defaultPort             = "8080"
	defaultLogLevel         = "info"
	defaultAPIBaseURL       = "http://localhost:8080/zamanipay/backend"
	defaultIdentityStore    = "file"
	defaultCurrencySymbol   = "₦"
	defaultRequestTimeout   = 15 * time.Second
	defaultShutdownDelay    = 10 * time.Second
	defaultIdempotencyTTL   = 24 * time.Hour
	defaultLoginAttempts    = 5
	stateDirName            = ".zamanipay"
	idemTTLSecondsEnvVar    = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar        = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar   = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar  = "SHUTDOWN_TIMEOUT"
	requestSecondsEnvVar    = "REQUEST_TIMEOUT_SECONDS"
	requestDurationEnvVar   = "REQUEST_TIMEOUT"
	loginAttemptsEnvVar     = "LOGIN_ATTEMPTS_PER_MINUTE"
	biometricHardwareEnvVar = "BIOMETRIC_HARDWARE"
	biometricEnrolledEnvVar = "BIOMETRIC_ENROLLED"
	sandboxSeedEnvVar       = "SANDBOX_SEED"
)

// Identity store backends.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config captures runtime configuration for both the client and the sandbox,
// loaded from environment variables.
type Config struct {
	AppName  string `validate:"required"`
	AppEnv   string `validate:"required"`
	LogLevel string `validate:"oneof=debug info warn error"`

	// Client.
	APIBaseURL        string        `validate:"required,url"`
	RequestTimeout    time.Duration `validate:"gt=0"`
	StateDir          string        `validate:"required"`
	IdentityStore     string        `validate:"oneof=file redis memory"`
	CurrencySymbol    string        `validate:"required"`
	BiometricHardware bool
	BiometricEnrolled bool

	// Shared.
	RedisURL string `validate:"required_if=IdentityStore redis"`

	// Sandbox.
	Port                   string `validate:"required"`
	DatabaseURL            string
	ShutdownPeriod         time.Duration `validate:"gt=0"`
	IdempotencyTTL         time.Duration `validate:"gt=0"`
	LoginAttemptsPerMinute int           `validate:"gte=0"`
	SeedSandbox            bool
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given). Missing files are ignored; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:                getEnv("APP_NAME", defaultAppName),
		AppEnv:                 getEnv("APP_ENV", defaultAppEnv),
		LogLevel:               strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		APIBaseURL:             strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBaseURL), "/"),
		RequestTimeout:         defaultRequestTimeout,
		StateDir:               getEnv("STATE_DIR", defaultStateDir()),
		IdentityStore:          strings.ToLower(getEnv("IDENTITY_STORE", defaultIdentityStore)),
		CurrencySymbol:         getEnv("CURRENCY_SYMBOL", defaultCurrencySymbol),
		BiometricHardware:      true,
		BiometricEnrolled:      true,
		RedisURL:               os.Getenv("REDIS_URL"),
		Port:                   getEnv("PORT", defaultPort),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		ShutdownPeriod:         defaultShutdownDelay,
		IdempotencyTTL:         defaultIdempotencyTTL,
		LoginAttemptsPerMinute: defaultLoginAttempts,
		SeedSandbox:            true,
	}

	var err error
	if cfg.RequestTimeout, err = durationFromEnv(requestSecondsEnvVar, requestDurationEnvVar, cfg.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationFromEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}

	if v := os.Getenv(loginAttemptsEnvVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", loginAttemptsEnvVar, err)
		}
		cfg.LoginAttemptsPerMinute = n
	}

	for env, dst := range map[string]*bool{
		biometricHardwareEnvVar: &cfg.BiometricHardware,
		biometricEnrolledEnvVar: &cfg.BiometricEnrolled,
		sandboxSeedEnvVar:       &cfg.SeedSandbox,
	} {
		if v := os.Getenv(env); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", env, err)
			}
			*dst = b
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsDev reports whether the sandbox may fall back to in-memory backends.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func durationFromEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return stateDirName
	}
	return filepath.Join(home, stateDirName)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
