package routes

import (
	"strings"

	"rental-units-server/models"
	"rental-units-server/services"
	"rental-units-server/storage"
	"rental-units-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// AdminListUnits - GET /api/admin/units?status=&search=&owner_id=&page=&per_page=
func AdminListUnits(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := ctx.URLParamDefault("status", "")
	search := strings.TrimSpace(ctx.URLParamDefault("search", ""))
	ownerID := ctx.URLParamDefault("owner_id", "")

	q := storage.DB.Model(&models.Unit{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(title) LIKE ? OR lower(details) LIKE ? OR lower(city) LIKE ?", like, like, like)
	}

	var total int64
	q.Count(&total)

	var units []models.Unit
	if err := q.Preload("Owner").Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&units).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, units, page, perPage, total)
}

// AdminCreateUnit - POST /api/admin/units
// Directly created units go live immediately: status approved, available true.
func AdminCreateUnit(ctx iris.Context) {
	var input services.ListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := services.ValidateListing(&input); err != nil {
		writeServiceError(ctx, err)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	available := true
	unit := models.Unit{
		OwnerID:     claims.ID,
		Title:       input.Title,
		Details:     input.Details,
		ImagePath:   input.ImagePath,
		MediaLink:   input.MediaLink,
		Persons:     input.Persons,
		Price:       input.Price,
		Negotiable:  input.Negotiable,
		Country:     input.Country,
		City:        input.City,
		District:    input.District,
		Address:     input.Address,
		Available:   &available,
		AvailableAt: services.ParseAvailableAt(input.AvailableAt),
		Status:      models.StatusApproved,
	}

	if err := storage.DB.Create(&unit).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "unit.create", "unit", unit.ID, nil, unit)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"data": &unit})
}

// AdminUpdateUnit - PUT /api/admin/units/{id}
func AdminUpdateUnit(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input UpdateUnitInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := services.ValidateListing(&input.ListingInput); err != nil {
		writeServiceError(ctx, err)
		return
	}

	var unit models.Unit
	if err := storage.DB.First(&unit, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "unit not found")
		return
	}

	before := unit
	unit.Title = input.Title
	unit.Details = input.Details
	unit.ImagePath = input.ImagePath
	unit.MediaLink = input.MediaLink
	unit.Persons = input.Persons
	unit.Price = input.Price
	unit.Negotiable = input.Negotiable
	unit.Country = input.Country
	unit.City = input.City
	unit.District = input.District
	unit.Address = input.Address
	unit.AvailableAt = services.ParseAvailableAt(input.AvailableAt)
	if input.Available != nil {
		unit.Available = input.Available
	}

	if err := storage.DB.Save(&unit).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "unit.update", "unit", unit.ID, before, unit)

	ctx.JSON(iris.Map{"data": &unit})
}

// AdminDeleteUnit - DELETE /api/admin/units/{id}
// Deleting a unit does not touch its originating request, if any: the two
// are independent after materialization.
func AdminDeleteUnit(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var unit models.Unit
	if err := storage.DB.First(&unit, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "unit not found")
		return
	}

	if err := storage.DB.Delete(&unit).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	if unit.ImagePath != "" {
		go storage.DeleteImage(unit.ImagePath)
	}

	utils.Audit(ctx, "unit.delete", "unit", unit.ID, unit, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

type UpdateUnitInput struct {
	services.ListingInput
	Available *bool `json:"available"`
}
