package routes

import (
	"errors"

	"rental-units-server/models"
	"rental-units-server/storage"
	"rental-units-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetUserFavorites - GET /api/users/{id}/favorites
func GetUserFavorites(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var favorites []models.Favorite
	err := storage.DB.Preload("Unit").
		Where("user_id = ?", id).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(favorites)
}

// AddFavorite - POST /api/users/{id}/favorites
// Idempotent: favoriting an already-favorited unit is a no-op thanks to the
// composite unique index.
func AddFavorite(ctx iris.Context) {
	params := ctx.Params()
	id, err := params.GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input AlterFavoriteInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Only approved units can be favorited
	var unit models.Unit
	if err := storage.DB.Where("status = ?", models.StatusApproved).First(&unit, input.UnitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
		} else {
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	favorite := models.Favorite{UserID: id, UnitID: input.UnitID}
	err = storage.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&favorite)
}

// RemoveFavorite - DELETE /api/users/{id}/favorites/{unitID}
func RemoveFavorite(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")
	unitID := params.Get("unitID")

	err := storage.DB.Where("user_id = ? AND unit_id = ?", id, unitID).
		Delete(&models.Favorite{}).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

type AlterFavoriteInput struct {
	UnitID uint `json:"unitID" validate:"required"`
}
