package accounts

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/zamanipay/zamanipay/internal/account"
)

// ValidationError is a rejected form; Message goes back to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Seed account credentials.
const (
	DemoEmail = "demo@zamanipay.test"
	DemoPIN   = "12345"
)

// Service manages the account lifecycle.
type Service struct {
	repo          Repository
	validate      *validator.Validate
	accountNumber func() string
	now           func() time.Time
}

// NewService creates a new account service.
func NewService(repo Repository) *Service {
	return &Service{
		repo:          repo,
		validate:      validator.New(),
		accountNumber: randomAccountNumber,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func randomAccountNumber() string {
	return fmt.Sprintf("%010d", 1_000_000_000+rand.Int63n(9_000_000_000))
}

// Register validates the form, hashes the PIN and opens an empty account.
func (s *Service) Register(ctx context.Context, in SignupInput) (Account, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if err := s.validateSignup(in); err != nil {
		return Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.PIN), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	acct := Account{
		ID:            uuid.New().String(),
		Email:         in.Email,
		FullName:      in.FullName,
		PhoneNumber:   in.PhoneNumber,
		PINHash:       hash,
		AccountNumber: s.accountNumber(),
		Balance:       decimal.Zero,
		CreatedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, acct); err != nil {
		return Account{}, err
	}
	return acct, nil
}

func (s *Service) validateSignup(in SignupInput) error {
	err := s.validate.Struct(in)
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		for _, f := range fields {
			if f.Tag() == "required" {
				return &ValidationError{Message: "Please fill in all fields"}
			}
		}
		return &ValidationError{Message: "Please enter a 5-digit PIN"}
	}
	if err != nil {
		return err
	}
	if in.PIN != in.ConfirmPIN {
		return &ValidationError{Message: "PINs do not match"}
	}
	return nil
}

// Authenticate verifies the PIN. Unknown emails and wrong PINs are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, pin string) (Account, error) {
	acct, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, err
	}
	if err := bcrypt.CompareHashAndPassword(acct.PINHash, []byte(pin)); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return acct, nil
}

// Get returns the account for email.
func (s *Service) Get(ctx context.Context, email string) (Account, error) {
	return s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// SetFingerprint stores the flag and returns the stored value.
func (s *Service) SetFingerprint(ctx context.Context, email string, enabled bool) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.repo.SetFingerprint(ctx, email, enabled); err != nil {
		return false, err
	}
	acct, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return acct.HasFingerprint, nil
}

// Seed creates the demo account unless it already exists.
func (s *Service) Seed(ctx context.Context) (Account, error) {
	if acct, err := s.repo.FindByEmail(ctx, DemoEmail); err == nil {
		return acct, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPIN), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}
	acct := Account{
		ID:            uuid.New().String(),
		Email:         DemoEmail,
		FullName:      "Demo User",
		PhoneNumber:   "08000000000",
		PINHash:       hash,
		AccountNumber: "9061512740",
		Balance:       decimal.RequireFromString("950000.00"),
		Contacts: []account.Contact{
			{Name: "Oji", Avatar: "👤", Color: "#ff6b9d"},
			{Name: "Rizal", Avatar: "👨", Color: "#4ecdc4"},
		},
		Transactions: []account.Transaction{
			{Title: "Receive from Oji", Time: "Today, 07:23 AM", Amount: decimal.NewFromInt(200), Type: account.TypeReceive},
			{Title: "Send to Rizal", Time: "Yesterday, 05:23 PM", Amount: decimal.NewFromInt(-150), Type: account.TypeSend},
		},
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, acct); err != nil && !errors.Is(err, ErrEmailTaken) {
		return Account{}, err
	}
	return acct, nil
}
