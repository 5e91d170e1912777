package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/mwasonga/customer-console/internal/mapper"
	"github.com/mwasonga/customer-console/internal/models"
	"github.com/mwasonga/customer-console/internal/transport"
)

// mockTransport scripts the responses of the request boundary
type mockTransport struct {
	getResp   []models.CustomerAccount
	getErr    error
	postResp  models.CustomerAccount
	postErr   error
	patchResp models.CustomerAccount
	patchErr  error
	deleteErr error

	calls []string
}

func (m *mockTransport) Get(ctx context.Context, path string, out any) error {
	m.calls = append(m.calls, "GET "+path)
	if m.getErr != nil {
		return m.getErr
	}
	*out.(*[]models.CustomerAccount) = m.getResp
	return nil
}

func (m *mockTransport) Post(ctx context.Context, path string, body, out any) error {
	m.calls = append(m.calls, "POST "+path)
	if m.postErr != nil {
		return m.postErr
	}
	*out.(*models.CustomerAccount) = m.postResp
	return nil
}

func (m *mockTransport) Patch(ctx context.Context, path string, body, out any) error {
	m.calls = append(m.calls, "PATCH "+path)
	if m.patchErr != nil {
		return m.patchErr
	}
	*out.(*models.CustomerAccount) = m.patchResp
	return nil
}

func (m *mockTransport) Delete(ctx context.Context, path string) error {
	m.calls = append(m.calls, "DELETE "+path)
	return m.deleteErr
}

func newTestStore(t *mockTransport) *Store {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(t, mapper.New(nil), logger)
}

func TestFetchAllSuccess(t *testing.T) {
	mock := &mockTransport{
		getResp: []models.CustomerAccount{
			{AccountID: 1, FirstName: "John", LastName: "Doe"},
			{AccountID: 2, FirstName: "Jane", LastName: "Roe"},
		},
	}
	s := newTestStore(mock)

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll returned %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Customers) != 2 {
		t.Errorf("customers = %d, want 2", len(snap.Customers))
	}
	if snap.Loading {
		t.Error("loading should be false after settle")
	}
	if snap.Err != nil {
		t.Errorf("err = %v, want nil", snap.Err)
	}
	if snap.Customers[0].FullName != "John Doe" {
		t.Errorf("records should pass through the mapper, got %q", snap.Customers[0].FullName)
	}
}

func TestFetchAllReplacesWholesale(t *testing.T) {
	mock := &mockTransport{
		getResp: []models.CustomerAccount{{AccountID: 1}, {AccountID: 2}},
	}
	s := newTestStore(mock)
	s.FetchAll(context.Background())

	mock.getResp = []models.CustomerAccount{{AccountID: 3}}
	s.FetchAll(context.Background())

	snap := s.Snapshot()
	if len(snap.Customers) != 1 || snap.Customers[0].ID != 3 {
		t.Errorf("second fetch must replace, not merge: %+v", snap.Customers)
	}
}

func TestFetchAllFailureKeepsPriorList(t *testing.T) {
	mock := &mockTransport{
		getResp: []models.CustomerAccount{{AccountID: 1}, {AccountID: 2}},
	}
	s := newTestStore(mock)
	s.FetchAll(context.Background())

	mock.getErr = &transport.APIError{Status: 503, Message: "server error"}
	if err := s.FetchAll(context.Background()); err == nil {
		t.Fatal("expected error from failed fetch")
	}

	snap := s.Snapshot()
	if len(snap.Customers) != 2 {
		t.Errorf("failed fetch must leave stale data in place, got %d records", len(snap.Customers))
	}
	if snap.Loading {
		t.Error("loading should settle false on failure")
	}
	if snap.Err == nil || snap.Err.Status != 503 {
		t.Errorf("err = %+v, want status 503", snap.Err)
	}
}

func TestCreateAppendsServerRecord(t *testing.T) {
	mock := &mockTransport{
		postResp: models.CustomerAccount{AccountID: 42, FirstName: "New", LastName: "Person"},
	}
	s := newTestStore(mock)

	rec, err := s.Create(context.Background(), models.CustomerAccount{FirstName: "New"})
	if err != nil {
		t.Fatalf("Create returned %v", err)
	}
	if rec.ID != 42 {
		t.Errorf("created id = %d, want server-assigned 42", rec.ID)
	}

	snap := s.Snapshot()
	if len(snap.Customers) != 1 {
		t.Fatalf("customers = %d, want 1", len(snap.Customers))
	}
}

func TestCreateRejectedCapturesError(t *testing.T) {
	want := &transport.APIError{Status: 400, Message: "Validation error"}
	mock := &mockTransport{
		getResp: []models.CustomerAccount{{AccountID: 1}},
	}
	s := newTestStore(mock)
	s.FetchAll(context.Background())

	mock.postErr = want
	if _, err := s.Create(context.Background(), models.CustomerAccount{}); err == nil {
		t.Fatal("expected error")
	}

	snap := s.Snapshot()
	if !reflect.DeepEqual(snap.Err, want) {
		t.Errorf("err = %+v, want %+v", snap.Err, want)
	}
	if len(snap.Customers) != 1 {
		t.Errorf("failed create must not touch the list, got %d records", len(snap.Customers))
	}
}

func TestUpdateMatchesEitherIdentity(t *testing.T) {
	// The stored record carries only the legacy id; the server's
	// response carries only accountId. The cross match must still
	// replace it.
	mock := &mockTransport{
		getResp: []models.CustomerAccount{
			{ID: 7, FirstName: "Old"},
			{AccountID: 9, FirstName: "Other"},
		},
	}
	s := newTestStore(mock)
	s.FetchAll(context.Background())

	mock.patchResp = models.CustomerAccount{AccountID: 7, FirstName: "New", LastName: "Name"}
	if _, err := s.Update(context.Background(), 7, models.CustomerAccount{}); err != nil {
		t.Fatalf("Update returned %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Customers) != 2 {
		t.Fatalf("update must replace, not append: %d records", len(snap.Customers))
	}
	if snap.Customers[0].FullName != "New Name" {
		t.Errorf("record not replaced: %+v", snap.Customers[0])
	}
	if snap.Customers[1].FullName != "Other" {
		t.Errorf("unrelated record touched: %+v", snap.Customers[1])
	}
}

func TestUpdateForcesIdentityWhenServerOmitsIt(t *testing.T) {
	mock := &mockTransport{
		getResp: []models.CustomerAccount{{AccountID: 7, FirstName: "Old"}},
	}
	s := newTestStore(mock)
	s.FetchAll(context.Background())

	mock.patchResp = models.CustomerAccount{FirstName: "New"}
	rec, err := s.Update(context.Background(), 7, models.CustomerAccount{})
	if err != nil {
		t.Fatalf("Update returned %v", err)
	}
	if rec.ID != 7 || rec.AccountID != 7 {
		t.Errorf("identity not forced to 7: %+v", rec)
	}

	snap := s.Snapshot()
	if snap.Customers[0].FullName != "New" {
		t.Errorf("record not replaced: %+v", snap.Customers[0])
	}
}

func TestDeleteRemovesByEitherKey(t *testing.T) {
	mock := &mockTransport{
		getResp: []models.CustomerAccount{
			{AccountID: 5, FirstName: "A"},
			{ID: 7, FirstName: "B"},
			{AccountID: 9, FirstName: "C"},
		},
	}
	s := newTestStore(mock)
	s.FetchAll(context.Background())

	if err := s.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete returned %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Customers) != 2 {
		t.Fatalf("customers = %d, want 2", len(snap.Customers))
	}
	if snap.Customers[0].FullName != "A" || snap.Customers[1].FullName != "C" {
		t.Errorf("order not preserved: %+v", snap.Customers)
	}
}

func TestDeleteFailureLeavesListUntouched(t *testing.T) {
	mock := &mockTransport{
		getResp: []models.CustomerAccount{{AccountID: 5}},
	}
	s := newTestStore(mock)
	s.FetchAll(context.Background())

	mock.deleteErr = &transport.APIError{Status: 404, Message: "not found"}
	if err := s.Delete(context.Background(), 5); err == nil {
		t.Fatal("expected error")
	}

	snap := s.Snapshot()
	if len(snap.Customers) != 1 {
		t.Errorf("failed delete must not touch the list")
	}
	if snap.Err == nil || snap.Err.Status != 404 {
		t.Errorf("err = %+v, want 404", snap.Err)
	}
}

func TestErrorCoercedToStatus500(t *testing.T) {
	mock := &mockTransport{deleteErr: errors.New("boom")}
	s := newTestStore(mock)

	s.Delete(context.Background(), 1)

	snap := s.Snapshot()
	if snap.Err == nil || snap.Err.Status != 500 || snap.Err.Message != "boom" {
		t.Errorf("err = %+v, want coerced {500, boom}", snap.Err)
	}
}

func TestErrorClearedOnNextAttempt(t *testing.T) {
	mock := &mockTransport{
		postErr: &transport.APIError{Status: 400, Message: "Validation error"},
	}
	s := newTestStore(mock)

	s.Create(context.Background(), models.CustomerAccount{})
	if s.Snapshot().Err == nil {
		t.Fatal("expected captured error")
	}

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll returned %v", err)
	}
	if snap := s.Snapshot(); snap.Err != nil {
		t.Errorf("err = %+v, want nil after successful operation", snap.Err)
	}
}

func TestVisibleSortsNumerically(t *testing.T) {
	mock := &mockTransport{
		getResp: []models.CustomerAccount{
			{AccountID: 10, FirstName: "Ten"},
			{AccountID: 1, FirstName: "One"},
			{AccountID: 2, FirstName: "Two"},
		},
	}
	s := newTestStore(mock)
	s.FetchAll(context.Background())

	visible := s.Visible()
	ids := []int64{visible[0].ID, visible[1].ID, visible[2].ID}
	want := []int64{1, 2, 10}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v (numeric, not lexicographic)", ids, want)
	}
}

func TestVisibleFiltersCaseInsensitively(t *testing.T) {
	mock := &mockTransport{
		getResp: []models.CustomerAccount{
			{AccountID: 1, FirstName: "John", LastName: "Doe", Email: "john@example.com", City: "Springfield"},
			{AccountID: 2, FirstName: "Jane", LastName: "Roe", Email: "jane@other.org", City: "Portland"},
		},
	}
	s := newTestStore(mock)
	s.FetchAll(context.Background())

	tests := []struct {
		term string
		want int
	}{
		{"", 2},
		{"DOE", 1},
		{"example.com", 1},
		{"springfield", 1},
		{"ro", 1},
		{"nowhere", 0},
		{"2", 1},
	}

	for _, tt := range tests {
		s.SetSearchTerm(tt.term)
		if got := len(s.Visible()); got != tt.want {
			t.Errorf("term %q matched %d records, want %d", tt.term, got, tt.want)
		}
	}
}

func TestSetViewMode(t *testing.T) {
	s := newTestStore(&mockTransport{})

	if mode := s.Snapshot().ViewMode; mode != ViewModeTable {
		t.Errorf("initial view mode = %q, want table", mode)
	}

	s.SetViewMode(ViewModeTable)
	if mode := s.Snapshot().ViewMode; mode != ViewModeTable {
		t.Errorf("view mode = %q, want table", mode)
	}
}
