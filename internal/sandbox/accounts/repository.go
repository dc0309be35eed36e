package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository persists accounts keyed by email.
type Repository interface {
	Create(ctx context.Context, acct Account) error
	FindByEmail(ctx context.Context, email string) (Account, error)
	SetFingerprint(ctx context.Context, email string, enabled bool) error
}

const schema = `CREATE TABLE IF NOT EXISTS sandbox_accounts (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    full_name TEXT NOT NULL,
    phone_number TEXT NOT NULL,
    pin_hash BYTEA NOT NULL,
    account_number TEXT NOT NULL UNIQUE,
    balance NUMERIC(18, 2) NOT NULL DEFAULT 0,
    has_fingerprint BOOLEAN NOT NULL DEFAULT FALSE,
    contacts JSONB NOT NULL DEFAULT '[]',
    transactions JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL
)`

const uniqueViolation = "23505"

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the accounts table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create accounts table: %w", err)
	}
	return nil
}

// Create inserts a new account.
func (r *PostgresRepository) Create(ctx context.Context, acct Account) error {
	id, err := uuid.Parse(acct.ID)
	if err != nil {
		return err
	}
	contacts, err := json.Marshal(acct.Snapshot().Contacts)
	if err != nil {
		return fmt.Errorf("encode contacts: %w", err)
	}
	transactions, err := json.Marshal(acct.Snapshot().Transactions)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}

	_, err = r.db.Exec(ctx, `INSERT INTO sandbox_accounts
        (id, email, full_name, phone_number, pin_hash, account_number, balance, has_fingerprint, contacts, transactions, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9::jsonb, $10::jsonb, $11)`,
		id, acct.Email, acct.FullName, acct.PhoneNumber, acct.PINHash, acct.AccountNumber,
		acct.Balance.StringFixed(2), acct.HasFingerprint, string(contacts), string(transactions), acct.CreatedAt.UTC())

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}

// FindByEmail fetches an account by email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, full_name, phone_number, pin_hash, account_number,
        balance::text, has_fingerprint, contacts, transactions, created_at
        FROM sandbox_accounts WHERE email = $1`, email)

	var (
		acct         Account
		id           uuid.UUID
		balance      string
		contacts     []byte
		transactions []byte
		createdAt    time.Time
	)
	err := row.Scan(&id, &acct.Email, &acct.FullName, &acct.PhoneNumber, &acct.PINHash, &acct.AccountNumber,
		&balance, &acct.HasFingerprint, &contacts, &transactions, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}

	acct.ID = id.String()
	acct.CreatedAt = createdAt.UTC()
	if acct.Balance, err = decimal.NewFromString(balance); err != nil {
		return Account{}, fmt.Errorf("parse balance: %w", err)
	}
	if err := json.Unmarshal(contacts, &acct.Contacts); err != nil {
		return Account{}, fmt.Errorf("decode contacts: %w", err)
	}
	if err := json.Unmarshal(transactions, &acct.Transactions); err != nil {
		return Account{}, fmt.Errorf("decode transactions: %w", err)
	}
	return acct, nil
}

// SetFingerprint stores the fingerprint flag.
func (r *PostgresRepository) SetFingerprint(ctx context.Context, email string, enabled bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE sandbox_accounts SET has_fingerprint = $1 WHERE email = $2`, enabled, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
