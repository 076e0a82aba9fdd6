package models

import (
	"testing"
	"time"
)

func TestUnitFromRequestCopiesPayload(t *testing.T) {
	availableAt := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	req := &UnitRequest{
		RequesterID: 42,
		Title:       "Sea View Flat",
		Details:     "Two rooms, balcony",
		ImagePath:   "units/42-abc.jpg",
		MediaLink:   "https://example.com/tour",
		Persons:     2,
		Price:       500,
		Negotiable:  true,
		Country:     "EG",
		City:        "Cairo",
		District:    "Zamalek",
		Address:     "12 Nile St",
		AvailableAt: &availableAt,
		Status:      StatusPending,
	}

	unit := UnitFromRequest(req)

	if unit.OwnerID != req.RequesterID {
		t.Errorf("owner must be the requester, got %d", unit.OwnerID)
	}
	if unit.Title != req.Title || unit.Details != req.Details ||
		unit.ImagePath != req.ImagePath || unit.MediaLink != req.MediaLink ||
		unit.Persons != req.Persons || unit.Price != req.Price ||
		unit.Negotiable != req.Negotiable || unit.Country != req.Country ||
		unit.City != req.City || unit.District != req.District ||
		unit.Address != req.Address {
		t.Errorf("payload fields must be copied verbatim: %+v", unit)
	}
	if unit.AvailableAt == nil || !unit.AvailableAt.Equal(availableAt) {
		t.Errorf("availability date must be carried over, got %v", unit.AvailableAt)
	}
	if unit.Status != StatusApproved {
		t.Errorf("materialized unit must be approved, got %q", unit.Status)
	}
	if unit.Available == nil || !*unit.Available {
		t.Error("materialized unit must be available")
	}
}

func TestUnitRequestTerminal(t *testing.T) {
	for status, want := range map[string]bool{
		StatusPending:  false,
		StatusApproved: true,
		StatusRejected: true,
	} {
		req := UnitRequest{Status: status}
		if got := req.Terminal(); got != want {
			t.Errorf("Terminal() for %q = %v, want %v", status, got, want)
		}
	}
}
