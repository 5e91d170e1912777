package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mwasonga/customer-console/internal/cache"
	"github.com/mwasonga/customer-console/internal/models"
)

// mockAccountRepository for testing
type mockAccountRepository struct {
	accounts  []*models.CustomerAccount
	listCalls int
}

func (m *mockAccountRepository) Create(ctx context.Context, account *models.CustomerAccount) error {
	account.AccountID = int64(len(m.accounts) + 1)
	account.DateCreated = "2024-01-15T10:30:00Z"
	m.accounts = append(m.accounts, account)
	return nil
}

func (m *mockAccountRepository) GetByID(ctx context.Context, id int64) (*models.CustomerAccount, error) {
	for _, a := range m.accounts {
		if a.AccountID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg("customer account not found")
}

func (m *mockAccountRepository) GetByEmail(ctx context.Context, email string) (*models.CustomerAccount, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg("customer account not found")
}

func (m *mockAccountRepository) List(ctx context.Context) ([]models.CustomerAccount, error) {
	m.listCalls++
	out := make([]models.CustomerAccount, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockAccountRepository) Update(ctx context.Context, account *models.CustomerAccount) error {
	for i, a := range m.accounts {
		if a.AccountID == account.AccountID {
			m.accounts[i] = account
			return nil
		}
	}
	return models.ErrNotFoundWithMsg("customer account not found")
}

func (m *mockAccountRepository) Delete(ctx context.Context, id int64) error {
	for i, a := range m.accounts {
		if a.AccountID == id {
			m.accounts = append(m.accounts[:i], m.accounts[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFoundWithMsg("customer account not found")
}

// mockCache for testing
type mockCache struct {
	list        []models.CustomerAccount
	hasList     bool
	invalidated int
}

func (m *mockCache) GetList(ctx context.Context) ([]models.CustomerAccount, error) {
	if !m.hasList {
		return nil, cache.ErrMiss
	}
	return m.list, nil
}

func (m *mockCache) SetList(ctx context.Context, accounts []models.CustomerAccount) error {
	m.list = accounts
	m.hasList = true
	return nil
}

func (m *mockCache) Invalidate(ctx context.Context) error {
	m.list = nil
	m.hasList = false
	m.invalidated++
	return nil
}

func (m *mockCache) Close() error { return nil }

func (m *mockCache) Health(ctx context.Context) error { return nil }

func newTestService(repo *mockAccountRepository, c cache.Client) AccountService {
	return NewAccountService(repo, c, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateAssignsDefaults(t *testing.T) {
	repo := &mockAccountRepository{}
	svc := newTestService(repo, nil)

	created, err := svc.Create(context.Background(), &models.CustomerAccount{
		FirstName:   "John",
		Email:       "john@example.com",
		PhoneNumber: "1234567890",
	})
	if err != nil {
		t.Fatalf("Create returned %v", err)
	}

	if created.AccountID == 0 {
		t.Error("AccountID should be assigned")
	}
	if created.Country != "USA" {
		t.Errorf("Country = %q, want default USA", created.Country)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := newTestService(&mockAccountRepository{}, nil)

	tests := []struct {
		name    string
		account models.CustomerAccount
	}{
		{"missing email", models.CustomerAccount{FirstName: "John"}},
		{"malformed email", models.CustomerAccount{Email: "not-an-email"}},
		{"formatted phone on the wire", models.CustomerAccount{Email: "a@b.c", PhoneNumber: "+1 (123) 456-7890"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tt.account)
			var appErr *models.AppError
			if !errors.As(err, &appErr) || appErr.Code != "INVALID_INPUT" {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestCreateConflictOnDuplicateEmail(t *testing.T) {
	repo := &mockAccountRepository{}
	svc := newTestService(repo, nil)

	first := &models.CustomerAccount{Email: "john@example.com"}
	if _, err := svc.Create(context.Background(), first); err != nil {
		t.Fatalf("first create returned %v", err)
	}

	_, err := svc.Create(context.Background(), &models.CustomerAccount{Email: "john@example.com"})
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("err = %v, want conflict", err)
	}
}

func TestUpdateAppliesPartialPayload(t *testing.T) {
	repo := &mockAccountRepository{}
	svc := newTestService(repo, nil)

	created, _ := svc.Create(context.Background(), &models.CustomerAccount{
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john@example.com",
		PhoneNumber: "1234567890",
		City:        "Springfield",
	})

	newCity := "Portland"
	updated, err := svc.Update(context.Background(), created.AccountID, &UpdateAccountRequest{
		City: &newCity,
	})
	if err != nil {
		t.Fatalf("Update returned %v", err)
	}

	if updated.City != "Portland" {
		t.Errorf("City = %q, want Portland", updated.City)
	}
	if updated.FirstName != "John" || updated.Email != "john@example.com" {
		t.Errorf("unset fields must keep stored values: %+v", updated)
	}
}

func TestUpdateUnknownAccount(t *testing.T) {
	svc := newTestService(&mockAccountRepository{}, nil)

	name := "Jane"
	_, err := svc.Update(context.Background(), 99, &UpdateAccountRequest{FirstName: &name})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestListUsesCache(t *testing.T) {
	repo := &mockAccountRepository{}
	c := &mockCache{}
	svc := newTestService(repo, c)

	svc.Create(context.Background(), &models.CustomerAccount{Email: "a@b.c"})

	// First list fills the cache from the repository
	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("List returned %v", err)
	}
	if repo.listCalls != 1 || !c.hasList {
		t.Fatalf("listCalls = %d, hasList = %v; want repo hit and cache fill", repo.listCalls, c.hasList)
	}

	// Second list is served from cache
	accounts, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned %v", err)
	}
	if repo.listCalls != 1 {
		t.Errorf("listCalls = %d, want cached read", repo.listCalls)
	}
	if len(accounts) != 1 {
		t.Errorf("accounts = %d, want 1", len(accounts))
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	repo := &mockAccountRepository{}
	c := &mockCache{}
	svc := newTestService(repo, c)

	created, _ := svc.Create(context.Background(), &models.CustomerAccount{Email: "a@b.c"})
	svc.List(context.Background())

	name := "Jane"
	svc.Update(context.Background(), created.AccountID, &UpdateAccountRequest{FirstName: &name})
	if c.hasList {
		t.Error("update must invalidate the list cache")
	}

	svc.List(context.Background())
	svc.Delete(context.Background(), created.AccountID)
	if c.hasList {
		t.Error("delete must invalidate the list cache")
	}

	if c.invalidated < 3 {
		t.Errorf("invalidations = %d, want one per mutation", c.invalidated)
	}
}

func TestDeleteUnknownAccount(t *testing.T) {
	svc := newTestService(&mockAccountRepository{}, nil)

	if err := svc.Delete(context.Background(), 42); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}
