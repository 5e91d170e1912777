// Package store owns the client-side list of customer accounts. Every
// mutating operation runs through the transport boundary and settles
// into one of two terminal states: the list updated with the error
// cleared, or the list untouched with the error captured. Errors never
// propagate past an operation as a panic; callers read them from the
// returned error or the snapshot.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/mwasonga/customer-console/internal/mapper"
	"github.com/mwasonga/customer-console/internal/models"
	"github.com/mwasonga/customer-console/internal/transport"
)

const accountsPath = "/customer-accounts"

// ViewMode selects how the list is rendered.
type ViewMode string

// ViewModeTable is the only rendering the list view currently has.
const ViewModeTable ViewMode = "table"

// Transport is the request boundary the store depends on.
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// Snapshot is a point-in-time copy of the store state for rendering.
type Snapshot struct {
	Customers  []mapper.DisplayRecord
	SearchTerm string
	ViewMode   ViewMode
	Loading    bool
	Err        *transport.APIError
}

// Store is the collection state machine. Construct with New and share
// the one instance; there is no package-level singleton.
//
// Concurrent operations are safe but not serialized: two in-flight
// fetches race, and whichever response settles last wins the loading
// and error fields. Callers needing strict ordering must serialize
// their own calls.
type Store struct {
	transport Transport
	mapper    *mapper.Mapper
	logger    *slog.Logger

	mu         sync.Mutex
	customers  []mapper.DisplayRecord
	searchTerm string
	viewMode   ViewMode
	loading    bool
	err        *transport.APIError
}

// New creates an empty store.
func New(t Transport, m *mapper.Mapper, logger *slog.Logger) *Store {
	return &Store{
		transport: t,
		mapper:    m,
		logger:    logger,
		viewMode:  ViewModeTable,
	}
}

// begin marks an operation started: loading set, prior error cleared.
func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()
}

// fail marks an operation terminally failed. The list is untouched so
// stale-but-present data keeps rendering.
func (s *Store) fail(op string, err error) *transport.APIError {
	apiErr := transport.Coerce(err)
	s.mu.Lock()
	s.loading = false
	s.err = apiErr
	s.mu.Unlock()

	s.logger.Error("operation failed",
		slog.String("op", op),
		slog.Int("status", apiErr.Status),
		slog.String("message", apiErr.Message),
	)
	return apiErr
}

// FetchAll replaces the list wholesale with the server's current
// records.
func (s *Store) FetchAll(ctx context.Context) error {
	s.begin()

	var accounts []models.CustomerAccount
	if err := s.transport.Get(ctx, accountsPath, &accounts); err != nil {
		return s.fail("fetch", err)
	}

	records := make([]mapper.DisplayRecord, 0, len(accounts))
	for _, a := range accounts {
		records = append(records, s.mapper.FromAPIFormat(a))
	}

	s.mu.Lock()
	s.customers = records
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("accounts fetched", slog.Int("count", len(records)))
	return nil
}

// Create posts a new account and appends the server-confirmed record.
// Nothing is inserted optimistically; a failure leaves the list as-is.
func (s *Store) Create(ctx context.Context, payload models.CustomerAccount) (mapper.DisplayRecord, error) {
	s.begin()

	var created models.CustomerAccount
	if err := s.transport.Post(ctx, accountsPath, payload, &created); err != nil {
		return mapper.DisplayRecord{}, s.fail("create", err)
	}

	rec := s.mapper.FromAPIFormat(created)

	s.mu.Lock()
	s.customers = append(s.customers, rec)
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("account created", slog.Int64("account_id", rec.ID))
	return rec, nil
}

// Update patches an account and replaces the first matching record in
// the list. Identity matching is by id or accountId on either side,
// since older records carry only one of the two.
func (s *Store) Update(ctx context.Context, id int64, payload models.CustomerAccount) (mapper.DisplayRecord, error) {
	s.begin()

	var updated models.CustomerAccount
	path := fmt.Sprintf("%s/%d", accountsPath, id)
	if err := s.transport.Patch(ctx, path, payload, &updated); err != nil {
		return mapper.DisplayRecord{}, s.fail("update", err)
	}

	rec := s.mapper.FromAPIFormat(updated)
	if rec.ID == 0 {
		rec.ID = id
	}
	if rec.AccountID == 0 {
		rec.AccountID = id
	}

	s.mu.Lock()
	for i := range s.customers {
		if sameIdentity(s.customers[i], rec) {
			s.customers[i] = rec
			break
		}
	}
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("account updated", slog.Int64("account_id", rec.ID))
	return rec, nil
}

// Delete removes every record matching the deleted id by either
// identity field, preserving the order of the rest.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.begin()

	path := fmt.Sprintf("%s/%d", accountsPath, id)
	if err := s.transport.Delete(ctx, path); err != nil {
		return s.fail("delete", err)
	}

	s.mu.Lock()
	kept := s.customers[:0]
	for _, rec := range s.customers {
		if rec.ID == id || rec.AccountID == id {
			continue
		}
		kept = append(kept, rec)
	}
	s.customers = kept
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("account deleted", slog.Int64("account_id", id))
	return nil
}

// SetSearchTerm updates the filter term; takes effect on the next
// Visible call.
func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	s.searchTerm = term
	s.mu.Unlock()
}

// SetViewMode updates how the list renders.
func (s *Store) SetViewMode(mode ViewMode) {
	s.mu.Lock()
	s.viewMode = mode
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers := make([]mapper.DisplayRecord, len(s.customers))
	copy(customers, s.customers)

	return Snapshot{
		Customers:  customers,
		SearchTerm: s.searchTerm,
		ViewMode:   s.viewMode,
		Loading:    s.loading,
		Err:        s.err,
	}
}

// Visible derives the rendered list: records matching the search term,
// sorted ascending by numeric account id. Recomputed on every call,
// never stored.
func (s *Store) Visible() []mapper.DisplayRecord {
	s.mu.Lock()
	term := strings.ToLower(strings.TrimSpace(s.searchTerm))
	records := make([]mapper.DisplayRecord, 0, len(s.customers))
	for _, rec := range s.customers {
		if term == "" || matchesTerm(rec, term) {
			records = append(records, rec)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(records, func(i, j int) bool {
		return sortKey(records[i]) < sortKey(records[j])
	})
	return records
}

// sameIdentity reports whether two records refer to the same account
// by any pairing of their id and accountId fields. Zero ids never
// match anything.
func sameIdentity(a, b mapper.DisplayRecord) bool {
	for _, key := range []int64{a.ID, a.AccountID} {
		if key == 0 {
			continue
		}
		if key == b.ID || key == b.AccountID {
			return true
		}
	}
	return false
}

func sortKey(rec mapper.DisplayRecord) int64 {
	if rec.AccountID != 0 {
		return rec.AccountID
	}
	return rec.ID
}

func matchesTerm(rec mapper.DisplayRecord, term string) bool {
	fields := []string{
		rec.FullName,
		rec.Email,
		rec.Phone,
		strconv.FormatInt(rec.AccountID, 10),
		strconv.FormatInt(rec.ID, 10),
		rec.Address,
		rec.City,
	}
	for _, f := range fields {
		if f == "" {
			continue
		}
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
