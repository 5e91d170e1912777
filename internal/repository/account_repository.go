package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mwasonga/customer-console/internal/models"
)

// AccountRepository defines the interface for customer account data access
type AccountRepository interface {
	Create(ctx context.Context, account *models.CustomerAccount) error
	GetByID(ctx context.Context, id int64) (*models.CustomerAccount, error)
	GetByEmail(ctx context.Context, email string) (*models.CustomerAccount, error)
	List(ctx context.Context) ([]models.CustomerAccount, error)
	Update(ctx context.Context, account *models.CustomerAccount) error
	Delete(ctx context.Context, id int64) error
}

// accountRepository implements AccountRepository using PostgreSQL
type accountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `account_id, first_name, last_name, email, phone_number, address, city, state, country, date_created`

// Create inserts a new account. The server assigns account_id and
// date_created; both are written back into the passed record.
func (r *accountRepository) Create(ctx context.Context, account *models.CustomerAccount) error {
	query := `
		INSERT INTO customer_accounts (first_name, last_name, email, phone_number, address, city, state, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING account_id, date_created`

	var created time.Time
	err := r.db.QueryRowContext(
		ctx,
		query,
		account.FirstName,
		account.LastName,
		account.Email,
		account.PhoneNumber,
		account.Address,
		account.City,
		account.State,
		account.Country,
	).Scan(&account.AccountID, &created)

	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	account.DateCreated = created.UTC().Format(time.RFC3339)
	return nil
}

// GetByID retrieves an account by its server-assigned id
func (r *accountRepository) GetByID(ctx context.Context, id int64) (*models.CustomerAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM customer_accounts WHERE account_id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer account with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// GetByEmail retrieves an account by email address
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.CustomerAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM customer_accounts WHERE email = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer account with email %s not found", email))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return account, nil
}

// List retrieves all accounts ordered by id
func (r *accountRepository) List(ctx context.Context) ([]models.CustomerAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM customer_accounts ORDER BY account_id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.CustomerAccount{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// Update rewrites every mutable column of an existing account
func (r *accountRepository) Update(ctx context.Context, account *models.CustomerAccount) error {
	query := `
		UPDATE customer_accounts
		SET first_name = $1, last_name = $2, email = $3, phone_number = $4,
		    address = $5, city = $6, state = $7, country = $8
		WHERE account_id = $9`

	result, err := r.db.ExecContext(
		ctx,
		query,
		account.FirstName,
		account.LastName,
		account.Email,
		account.PhoneNumber,
		account.Address,
		account.City,
		account.State,
		account.Country,
		account.AccountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("customer account with ID %d not found", account.AccountID))
	}

	return nil
}

// Delete removes an account
func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM customer_accounts WHERE account_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("customer account with ID %d not found", id))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.CustomerAccount, error) {
	account := &models.CustomerAccount{}
	var created time.Time

	err := row.Scan(
		&account.AccountID,
		&account.FirstName,
		&account.LastName,
		&account.Email,
		&account.PhoneNumber,
		&account.Address,
		&account.City,
		&account.State,
		&account.Country,
		&created,
	)
	if err != nil {
		return nil, err
	}

	account.DateCreated = created.UTC().Format(time.RFC3339)
	return account, nil
}
