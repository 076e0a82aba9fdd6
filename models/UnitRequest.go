package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type UnitRequest struct {
	gorm.Model
	RequesterID uint       `json:"requesterID" gorm:"index"`
	Title       string     `json:"title"`
	Details     string     `json:"details" gorm:"type:text"`
	ImagePath   string     `json:"imagePath"`
	MediaLink   string     `json:"mediaLink"`
	Persons     int        `json:"persons"`
	Price       float64    `json:"price"`
	Negotiable  bool       `json:"negotiable"`
	Country     string     `json:"country"`
	City        string     `json:"city"`
	District    string     `json:"district"`
	Address     string     `json:"address"`
	AvailableAt *time.Time `json:"availableAt"`

	// Review fields: ReviewedBy and ReviewedAt are set together on the
	// single pending -> terminal transition and never touched again.
	Status     string     `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, approved, rejected
	AdminNote  string     `json:"adminNote" gorm:"type:text"`
	ReviewedBy *uint      `json:"reviewedBy"`
	ReviewedAt *time.Time `json:"reviewedAt"`

	Requester User `json:"requester" gorm:"foreignKey:RequesterID;references:ID"`
}

// Terminal reports whether the request has already been reviewed.
func (r *UnitRequest) Terminal() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}

// Custom JSON marshaling to drop the requester when it was not preloaded
func (r *UnitRequest) MarshalJSON() ([]byte, error) {
	type Alias UnitRequest
	aux := &struct {
		Requester *User `json:"requester,omitempty"`
		*Alias
	}{
		Requester: nil,
		Alias:     (*Alias)(r),
	}

	if r.Requester.ID > 0 {
		requesterCopy := r.Requester
		requesterCopy.Units = nil
		aux.Requester = &requesterCopy
	}

	return json.Marshal(aux)
}
