package cache

import (
	"context"
	"errors"

	"github.com/mwasonga/customer-console/internal/models"
)

// ErrMiss is returned when the cache has no entry for the account list.
var ErrMiss = errors.New("cache miss")

// Client defines the interface for the account list cache
type Client interface {
	// GetList returns the cached account list, or ErrMiss when no
	// entry is present.
	GetList(ctx context.Context) ([]models.CustomerAccount, error)

	// SetList stores the account list with the configured TTL
	SetList(ctx context.Context, accounts []models.CustomerAccount) error

	// Invalidate drops the cached list after a mutation
	Invalidate(ctx context.Context) error

	// Close closes the cache connection
	Close() error

	// Health checks if the cache is healthy
	Health(ctx context.Context) error
}
