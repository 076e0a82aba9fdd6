package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-units-server/models"
	"rental-units-server/storage"

	"gorm.io/gorm"
)

// Review actions accepted by the moderation workflow.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

var (
	ErrRequestNotFound        = errors.New("unit request not found")
	ErrInvalidStateTransition = errors.New("unit request has already been reviewed")
	ErrUnauthorized           = errors.New("admin role required")
	ErrStoreUnavailable       = errors.New("store unavailable")
)

// Principal identifies the authenticated caller of a workflow operation.
// Handlers build it from the verified access token; tests build it directly.
type Principal struct {
	ID   uint
	Role string
}

func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

// ReviewStore is the slice of the request store the workflow needs. The
// production implementation is storage.GormReviewStore; Transition must be a
// guarded conditional write so that of two concurrent reviewers at most one
// observes the request as pending (storage.ErrNotPending for the loser,
// gorm.ErrRecordNotFound when the id does not exist).
type ReviewStore interface {
	Get(ctx context.Context, id uint) (*models.UnitRequest, error)
	Transition(ctx context.Context, id uint, next string, reviewedBy uint, reviewedAt time.Time, note string) (*models.UnitRequest, *models.Unit, error)
}

// ReviewResult carries the authoritative post-review state so callers do not
// need a confirming re-read. Unit is set only when the action was approve.
type ReviewResult struct {
	Request *models.UnitRequest
	Unit    *models.Unit
}

// ModerationService owns the pending -> terminal transition of unit requests
// and the unit materialization that rides along with an approval.
type ModerationService struct {
	store ReviewStore
	clock func() time.Time
}

func NewModerationService(store ReviewStore) *ModerationService {
	return &ModerationService{store: store, clock: time.Now}
}

// ReviewRequest applies an admin decision to a pending request. Approval
// atomically records the transition and creates the derived unit; rejection
// records the transition with the mandatory note. Terminal requests are never
// touched again: re-review fails with ErrInvalidStateTransition.
func (s *ModerationService) ReviewRequest(ctx context.Context, requestID uint, action, note string, reviewer Principal) (*ReviewResult, error) {
	if !reviewer.IsAdmin() {
		return nil, ErrUnauthorized
	}

	note = strings.TrimSpace(note)

	var next string
	switch action {
	case ActionApprove:
		next = models.StatusApproved
	case ActionReject:
		if note == "" {
			return nil, &ValidationError{Fields: map[string]string{
				"note": "a note is required when rejecting a request",
			}}
		}
		next = models.StatusRejected
	default:
		return nil, &ValidationError{Fields: map[string]string{
			"action": "must be approve or reject",
		}}
	}

	req, err := s.store.Get(ctx, requestID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if req.Terminal() {
		return nil, ErrInvalidStateTransition
	}

	if next == models.StatusApproved {
		// The materialized unit must satisfy the same payload contract as a
		// directly created one.
		if err := ValidateListing(ListingInputFromRequest(req)); err != nil {
			return nil, err
		}
	}

	updated, unit, err := s.store.Transition(ctx, requestID, next, reviewer.ID, s.clock().UTC(), note)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return &ReviewResult{Request: updated, Unit: unit}, nil
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRequestNotFound
	case errors.Is(err, storage.ErrNotPending):
		return ErrInvalidStateTransition
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
