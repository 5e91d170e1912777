package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mwasonga/customer-console/internal/cache"
	"github.com/mwasonga/customer-console/internal/models"
	"github.com/mwasonga/customer-console/internal/repository"
)

// AccountService handles customer account business logic
type AccountService interface {
	Create(ctx context.Context, account *models.CustomerAccount) (*models.CustomerAccount, error)
	GetByID(ctx context.Context, id int64) (*models.CustomerAccount, error)
	List(ctx context.Context) ([]models.CustomerAccount, error)
	Update(ctx context.Context, id int64, req *UpdateAccountRequest) (*models.CustomerAccount, error)
	Delete(ctx context.Context, id int64) error
}

type accountService struct {
	accountRepo repository.AccountRepository
	listCache   cache.Client
	logger      *slog.Logger
}

// NewAccountService creates a new account service. The cache is
// optional; a nil client disables list caching.
func NewAccountService(
	accountRepo repository.AccountRepository,
	listCache cache.Client,
	logger *slog.Logger,
) AccountService {
	return &accountService{
		accountRepo: accountRepo,
		listCache:   listCache,
		logger:      logger,
	}
}

// Create creates a new customer account
func (s *accountService) Create(ctx context.Context, account *models.CustomerAccount) (*models.CustomerAccount, error) {
	if account.Country == "" {
		account.Country = models.DefaultCountry
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	// Check if an account with this email already exists
	existing, err := s.accountRepo.GetByEmail(ctx, account.Email)
	if err == nil && existing != nil {
		return nil, models.ErrConflictWithMsg(
			fmt.Sprintf("customer account with email %s already exists", account.Email),
		)
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		s.logger.Error("failed to create account",
			slog.String("email", account.Email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.invalidateListCache(ctx)

	s.logger.Info("account created",
		slog.Int64("account_id", account.AccountID),
		slog.String("email", account.Email),
	)

	return account, nil
}

// GetByID retrieves an account by ID
func (s *accountService) GetByID(ctx context.Context, id int64) (*models.CustomerAccount, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// List retrieves all accounts, serving from the cache when possible
func (s *accountService) List(ctx context.Context) ([]models.CustomerAccount, error) {
	if s.listCache != nil {
		accounts, err := s.listCache.GetList(ctx)
		if err == nil {
			return accounts, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			// Cache trouble is not a reason to fail the read
			s.logger.Warn("list cache unavailable", slog.String("error", err.Error()))
		}
	}

	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	if s.listCache != nil {
		if err := s.listCache.SetList(ctx, accounts); err != nil {
			s.logger.Warn("failed to fill list cache", slog.String("error", err.Error()))
		}
	}

	return accounts, nil
}

// Update applies a partial payload onto an existing account
func (s *accountService) Update(ctx context.Context, id int64, req *UpdateAccountRequest) (*models.CustomerAccount, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(account)
	if account.Country == "" {
		account.Country = models.DefaultCountry
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		s.logger.Error("failed to update account",
			slog.Int64("account_id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.invalidateListCache(ctx)

	s.logger.Info("account updated", slog.Int64("account_id", id))
	return account, nil
}

// Delete removes an account
func (s *accountService) Delete(ctx context.Context, id int64) error {
	if err := s.accountRepo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete account",
			slog.Int64("account_id", id),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.invalidateListCache(ctx)

	s.logger.Info("account deleted", slog.Int64("account_id", id))
	return nil
}

func (s *accountService) invalidateListCache(ctx context.Context) {
	if s.listCache == nil {
		return
	}
	if err := s.listCache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate list cache", slog.String("error", err.Error()))
	}
}
