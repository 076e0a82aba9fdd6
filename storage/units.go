package storage

import (
	"strings"

	"rental-units-server/models"
)

// UnitQuery composes the public browse filters. Zero values mean "no filter".
type UnitQuery struct {
	Search        string
	Country       string
	City          string
	District      string
	MinPrice      float64
	MaxPrice      float64
	Persons       int
	AvailableOnly bool
	Page          int
	PerPage       int
}

// ApprovedUnits returns the page of publicly visible units matching the
// query plus the total match count. Only approved units are ever returned.
func ApprovedUnits(q UnitQuery) ([]models.Unit, int64, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := DB.Model(&models.Unit{}).Where("status = ?", models.StatusApproved)

	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where(
			"lower(title) LIKE ? OR lower(details) LIKE ? OR lower(city) LIKE ? OR lower(district) LIKE ?",
			like, like, like, like)
	}
	if q.Country != "" {
		query = query.Where("country = ?", q.Country)
	}
	if q.City != "" {
		query = query.Where("city = ?", q.City)
	}
	if q.District != "" {
		query = query.Where("district = ?", q.District)
	}
	if q.MinPrice > 0 {
		query = query.Where("price >= ?", q.MinPrice)
	}
	if q.MaxPrice > 0 {
		query = query.Where("price <= ?", q.MaxPrice)
	}
	if q.Persons > 0 {
		query = query.Where("persons >= ?", q.Persons)
	}
	if q.AvailableOnly {
		query = query.Where("available = ?", true)
	}

	var total int64
	query.Count(&total)

	var units []models.Unit
	err := query.Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at DESC").Find(&units).Error
	return units, total, err
}
