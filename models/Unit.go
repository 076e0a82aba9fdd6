package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Review states shared by units and unit requests.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Unit struct {
	gorm.Model
	OwnerID     uint       `json:"ownerID" gorm:"index"`
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
	Available   *bool      `json:"available" gorm:"default:true"`
	AvailableAt *time.Time `json:"availableAt"`
	Status      string     `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, approved, rejected
	Owner       User       `json:"owner" gorm:"foreignKey:OwnerID;references:ID"`
}

// Custom JSON marshaling to drop the owner when it was not preloaded
func (u *Unit) MarshalJSON() ([]byte, error) {
	type Alias Unit
	aux := &struct {
		Owner *User `json:"owner,omitempty"`
		*Alias
	}{
		Owner: nil,
		Alias: (*Alias)(u),
	}

	if u.Owner.ID > 0 {
		ownerCopy := u.Owner
		ownerCopy.Units = nil
		aux.Owner = &ownerCopy
	}

	return json.Marshal(aux)
}

// UnitFromRequest copies the request payload verbatim into a live unit.
// The unit is owned by the requester and goes public immediately.
func UnitFromRequest(req *UnitRequest) *Unit {
	available := true
	return &Unit{
		OwnerID:     req.RequesterID,
		Title:       req.Title,
		Details:     req.Details,
		ImagePath:   req.ImagePath,
		MediaLink:   req.MediaLink,
		Persons:     req.Persons,
		Price:       req.Price,
		Negotiable:  req.Negotiable,
		Country:     req.Country,
		City:        req.City,
		District:    req.District,
		Address:     req.Address,
		Available:   &available,
		AvailableAt: req.AvailableAt,
		Status:      StatusApproved,
	}
}
