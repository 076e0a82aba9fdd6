package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rental-units-server/models"
	"rental-units-server/storage"

	"gorm.io/gorm"
)

// memoryReviewStore is an in-memory ReviewStore with the same conditional
// transition semantics as the gorm-backed one.
type memoryReviewStore struct {
	mu     sync.Mutex
	reqs   map[uint]*models.UnitRequest
	units  []*models.Unit
	nextID uint
}

func newMemoryReviewStore() *memoryReviewStore {
	return &memoryReviewStore{reqs: map[uint]*models.UnitRequest{}, nextID: 1}
}

func (s *memoryReviewStore) add(req models.UnitRequest) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	req.ID = id
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	s.reqs[id] = &req
	return id
}

func (s *memoryReviewStore) Get(ctx context.Context, id uint) (*models.UnitRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.reqs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *req
	return &cp, nil
}

func (s *memoryReviewStore) Transition(ctx context.Context, id uint, next string, reviewedBy uint, reviewedAt time.Time, note string) (*models.UnitRequest, *models.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.reqs[id]
	if !ok {
		return nil, nil, gorm.ErrRecordNotFound
	}
	if req.Status != models.StatusPending {
		cp := *req
		return &cp, nil, storage.ErrNotPending
	}

	req.Status = next
	req.AdminNote = note
	req.ReviewedBy = &reviewedBy
	req.ReviewedAt = &reviewedAt

	var unit *models.Unit
	if next == models.StatusApproved {
		unit = models.UnitFromRequest(req)
		unit.ID = uint(len(s.units) + 1)
		s.units = append(s.units, unit)
	}

	cp := *req
	return &cp, unit, nil
}

func (s *memoryReviewStore) unitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.units)
}

func pendingRequest(requesterID uint) models.UnitRequest {
	return models.UnitRequest{
		RequesterID: requesterID,
		Title:       "Sea View Flat",
		Persons:     2,
		Price:       500,
		Country:     "EG",
		City:        "Cairo",
	}
}

var admin = Principal{ID: 9, Role: "admin"}

func TestApproveMaterializesUnit(t *testing.T) {
	store := newMemoryReviewStore()
	id := store.add(pendingRequest(42))
	svc := NewModerationService(store)

	result, err := svc.ReviewRequest(context.Background(), id, ActionApprove, "", admin)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	req := result.Request
	if req.Status != models.StatusApproved {
		t.Errorf("expected status approved, got %q", req.Status)
	}
	if req.ReviewedBy == nil || *req.ReviewedBy != admin.ID {
		t.Errorf("expected reviewedBy %d, got %v", admin.ID, req.ReviewedBy)
	}
	if req.ReviewedAt == nil {
		t.Error("expected reviewedAt to be set")
	}

	unit := result.Unit
	if unit == nil {
		t.Fatal("expected a materialized unit")
	}
	if unit.Title != "Sea View Flat" || unit.Persons != 2 || unit.Price != 500 ||
		unit.Country != "EG" || unit.City != "Cairo" {
		t.Errorf("unit payload does not match request payload: %+v", unit)
	}
	if unit.OwnerID != 42 {
		t.Errorf("expected owner 42, got %d", unit.OwnerID)
	}
	if unit.Status != models.StatusApproved {
		t.Errorf("expected unit status approved, got %q", unit.Status)
	}
	if unit.Available == nil || !*unit.Available {
		t.Error("expected unit to be available")
	}
	if store.unitCount() != 1 {
		t.Errorf("expected exactly one unit, got %d", store.unitCount())
	}
}

func TestRejectRequiresNote(t *testing.T) {
	store := newMemoryReviewStore()
	id := store.add(pendingRequest(42))
	svc := NewModerationService(store)

	_, err := svc.ReviewRequest(context.Background(), id, ActionReject, "   ", admin)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.Fields["note"]; !ok {
		t.Errorf("expected the note field to be named, got %v", vErr.Fields)
	}

	req, _ := store.Get(context.Background(), id)
	if req.Status != models.StatusPending {
		t.Errorf("request must stay pending after a failed reject, got %q", req.Status)
	}
}

func TestRejectWithNote(t *testing.T) {
	store := newMemoryReviewStore()
	id := store.add(pendingRequest(42))
	svc := NewModerationService(store)

	result, err := svc.ReviewRequest(context.Background(), id, ActionReject, "incomplete address", admin)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if result.Request.Status != models.StatusRejected {
		t.Errorf("expected status rejected, got %q", result.Request.Status)
	}
	if result.Request.AdminNote != "incomplete address" {
		t.Errorf("expected note to be recorded, got %q", result.Request.AdminNote)
	}
	if result.Unit != nil {
		t.Error("reject must not create a unit")
	}
	if store.unitCount() != 0 {
		t.Errorf("expected no units, got %d", store.unitCount())
	}
}

func TestReReviewIsRejected(t *testing.T) {
	store := newMemoryReviewStore()
	id := store.add(pendingRequest(42))
	svc := NewModerationService(store)

	if _, err := svc.ReviewRequest(context.Background(), id, ActionApprove, "", admin); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	before, _ := store.Get(context.Background(), id)

	_, err := svc.ReviewRequest(context.Background(), id, ActionReject, "changed my mind", admin)
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}

	after, _ := store.Get(context.Background(), id)
	if after.Status != before.Status || after.AdminNote != before.AdminNote ||
		*after.ReviewedBy != *before.ReviewedBy || !after.ReviewedAt.Equal(*before.ReviewedAt) {
		t.Error("terminal request must not change on re-review")
	}
	if store.unitCount() != 1 {
		t.Errorf("expected exactly one unit after re-review attempt, got %d", store.unitCount())
	}
}

func TestNonAdminIsUnauthorized(t *testing.T) {
	store := newMemoryReviewStore()
	id := store.add(pendingRequest(42))
	svc := NewModerationService(store)

	for _, action := range []string{ActionApprove, ActionReject} {
		_, err := svc.ReviewRequest(context.Background(), id, action, "note", Principal{ID: 3, Role: "user"})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("action %s: expected ErrUnauthorized, got %v", action, err)
		}
	}

	req, _ := store.Get(context.Background(), id)
	if req.Status != models.StatusPending {
		t.Errorf("request must stay pending, got %q", req.Status)
	}
	if store.unitCount() != 0 {
		t.Errorf("expected no units, got %d", store.unitCount())
	}
}

func TestUnknownRequestNotFound(t *testing.T) {
	svc := NewModerationService(newMemoryReviewStore())

	_, err := svc.ReviewRequest(context.Background(), 404, ActionApprove, "", admin)
	if !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestUnknownActionIsValidationError(t *testing.T) {
	store := newMemoryReviewStore()
	id := store.add(pendingRequest(42))
	svc := NewModerationService(store)

	_, err := svc.ReviewRequest(context.Background(), id, "escalate", "", admin)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestApproveRevalidatesPayload(t *testing.T) {
	store := newMemoryReviewStore()
	bad := pendingRequest(42)
	bad.Persons = 0
	id := store.add(bad)
	svc := NewModerationService(store)

	_, err := svc.ReviewRequest(context.Background(), id, ActionApprove, "", admin)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	req, _ := store.Get(context.Background(), id)
	if req.Status != models.StatusPending {
		t.Errorf("request must stay pending when its payload fails validation, got %q", req.Status)
	}
	if store.unitCount() != 0 {
		t.Errorf("expected no units, got %d", store.unitCount())
	}
}

func TestConcurrentApproveCreatesOneUnit(t *testing.T) {
	store := newMemoryReviewStore()
	id := store.add(pendingRequest(42))
	svc := NewModerationService(store)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.ReviewRequest(context.Background(), id, ActionApprove, "", admin)
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInvalidStateTransition):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || conflicted != 1 {
		t.Errorf("expected exactly one winner and one conflict, got %d/%d", succeeded, conflicted)
	}
	if store.unitCount() != 1 {
		t.Errorf("expected exactly one unit, got %d", store.unitCount())
	}
}
