package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhlee-dev/sis-portal/internal/models"
)

// AccountRepository manages persistence for login accounts.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository constructs an AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByUsername fetches an account by its unique username.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	const query = `SELECT id, username, password_hash, role, created_at FROM accounts WHERE username = $1 LIMIT 1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, username); err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByID fetches an account by primary key.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	const query = `SELECT id, username, password_hash, role, created_at FROM accounts WHERE id = $1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, err
	}
	return &account, nil
}

// Create inserts a new account and fills in its generated ID.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO accounts (username, password_hash, role, created_at)
        VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &account.ID, query,
		account.Username, account.PasswordHash, account.Role, account.CreatedAt); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}
