package routes

import (
	"rental-units-server/models"
	"rental-units-server/services"
	"rental-units-server/storage"
	"rental-units-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// CreateUnitRequest - POST /api/unit-requests
// Submits a listing request owned by the caller; it starts pending and only
// an admin review can change its state.
func CreateUnitRequest(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input services.ListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := services.ValidateListing(&input); err != nil {
		writeServiceError(ctx, err)
		return
	}

	request := models.UnitRequest{
		RequesterID: claims.ID,
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
		AvailableAt: services.ParseAvailableAt(input.AvailableAt),
		Status:      models.StatusPending,
	}

	store := storage.NewReviewStore(storage.DB)
	if err := store.Insert(ctx.Request().Context(), &request); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&request)
}

// GetMyUnitRequests - GET /api/unit-requests/mine
func GetMyUnitRequests(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var requests []models.UnitRequest
	err := storage.DB.Where("requester_id = ?", claims.ID).
		Order("created_at DESC").Find(&requests).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(requests)
}
