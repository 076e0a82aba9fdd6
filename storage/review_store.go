package storage

import (
	"context"
	"errors"
	"time"

	"rental-units-server/models"

	"gorm.io/gorm"
)

// ErrNotPending is returned by Transition when the guarded update matched no
// row because the request has already reached a terminal state.
var ErrNotPending = errors.New("unit request is not pending")

// GormReviewStore persists unit requests and owns the guarded
// pending -> terminal transition, including unit materialization on approval.
type GormReviewStore struct {
	db *gorm.DB
}

func NewReviewStore(db *gorm.DB) *GormReviewStore {
	return &GormReviewStore{db: db}
}

func (s *GormReviewStore) Get(ctx context.Context, id uint) (*models.UnitRequest, error) {
	var req models.UnitRequest
	if err := s.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *GormReviewStore) Insert(ctx context.Context, req *models.UnitRequest) error {
	return s.db.WithContext(ctx).Create(req).Error
}

// Transition flips the request from pending to next and, when next is
// approved, creates the derived unit inside the same transaction. The status
// update is conditional on the row still being pending, so of two concurrent
// reviewers at most one commits; the loser gets ErrNotPending together with
// the current row, and nothing is written on its behalf.
func (s *GormReviewStore) Transition(ctx context.Context, id uint, next string, reviewedBy uint, reviewedAt time.Time, note string) (*models.UnitRequest, *models.Unit, error) {
	var req models.UnitRequest
	var unit *models.Unit

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.UnitRequest{}).
			Where("id = ? AND status = ?", id, models.StatusPending).
			Updates(map[string]interface{}{
				"status":      next,
				"admin_note":  note,
				"reviewed_by": reviewedBy,
				"reviewed_at": reviewedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Missing row or lost race; read back to tell which.
			if err := tx.First(&req, id).Error; err != nil {
				return err
			}
			return ErrNotPending
		}

		if err := tx.First(&req, id).Error; err != nil {
			return err
		}

		if next == models.StatusApproved {
			unit = models.UnitFromRequest(&req)
			if err := tx.Create(unit).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrNotPending) {
			return &req, nil, err
		}
		return nil, nil, err
	}
	return &req, unit, nil
}
