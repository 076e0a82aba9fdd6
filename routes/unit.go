package routes

import (
	"strconv"
	"strings"

	"rental-units-server/models"
	"rental-units-server/storage"
	"rental-units-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// GetUnits - GET /api/units?search=&country=&city=&district=&minPrice=&maxPrice=&persons=&available=&page=&per_page=
// Public browse surface: only approved units are ever returned.
func GetUnits(ctx iris.Context) {
	q := storage.UnitQuery{
		Search:        strings.TrimSpace(ctx.URLParamDefault("search", "")),
		Country:       strings.TrimSpace(ctx.URLParamDefault("country", "")),
		City:          strings.TrimSpace(ctx.URLParamDefault("city", "")),
		District:      strings.TrimSpace(ctx.URLParamDefault("district", "")),
		AvailableOnly: ctx.URLParamDefault("available", "") == "true",
		Page:          ctx.URLParamIntDefault("page", 1),
		PerPage:       ctx.URLParamIntDefault("per_page", 25),
	}

	if raw := ctx.URLParamDefault("minPrice", ""); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			q.MinPrice = v
		}
	}
	if raw := ctx.URLParamDefault("maxPrice", ""); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			q.MaxPrice = v
		}
	}
	if raw := ctx.URLParamDefault("persons", ""); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			q.Persons = v
		}
	}

	units, total, err := storage.ApprovedUnits(q)
	if err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, units, q.Page, q.PerPage, total)
}

// GetUnitByID - GET /api/units/{id}
// Unapproved units 404 on the public surface without revealing they exist.
func GetUnitByID(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var unit models.Unit
	err := storage.DB.Preload("Owner").
		Where("status = ?", models.StatusApproved).
		First(&unit, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
		} else {
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	ctx.JSON(&unit)
}
