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

// AdminListRequests - GET /api/admin/requests?status=&page=&per_page=
func AdminListRequests(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := strings.TrimSpace(ctx.URLParamDefault("status", ""))

	q := storage.DB.Model(&models.UnitRequest{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	q.Count(&total)

	var requests []models.UnitRequest
	err := q.Preload("Requester").
		Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, requests, page, perPage, total)
}

// AdminGetRequest - GET /api/admin/requests/{id}
func AdminGetRequest(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var request models.UnitRequest
	if err := storage.DB.Preload("Requester").First(&request, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "unit request not found")
		return
	}

	ctx.JSON(iris.Map{"data": &request, "meta": iris.Map{}, "links": iris.Map{}})
}

// AdminReviewRequest - POST /api/admin/requests/{id}/review {action, note}
// Approves or rejects a pending request. Approval atomically creates the
// derived unit; the response carries the updated request and the new unit so
// no confirming re-read is needed.
func AdminReviewRequest(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body ReviewRequestInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	reviewer := services.Principal{ID: claims.ID, Role: claims.Role}

	moderation := services.NewModerationService(storage.NewReviewStore(storage.DB))
	result, err := moderation.ReviewRequest(ctx.Request().Context(), id, body.Action, body.Note, reviewer)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "unit_request.review", "unit_request", result.Request.ID, nil, result.Request)

	notifications := services.NewNotificationService()
	go notifications.SendReviewNotificationToRequester(
		result.Request.ID,
		result.Request.RequesterID,
		result.Request.Title,
		result.Request.Status,
	)

	response := iris.Map{"data": result.Request}
	if result.Unit != nil {
		response["unit"] = result.Unit
	}
	ctx.JSON(response)
}

type ReviewRequestInput struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Note   string `json:"note"`
}
