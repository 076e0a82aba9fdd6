package routes

import (
	"fmt"
	"time"

	"rental-units-server/storage"
	"rental-units-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UploadUnitImage - POST /api/uploads/unit-image
// Accepts a base64-encoded image and returns the blob URL to reference from
// a unit or request payload.
func UploadUnitImage(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input UploadImageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	publicID := fmt.Sprintf("%d-%d", claims.ID, time.Now().UnixNano())
	url, err := storage.UploadBase64Image(input.Image, publicID)
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadGateway, "upload_failed", "could not store image")
		return
	}

	ctx.JSON(iris.Map{"url": url})
}

type UploadImageInput struct {
	Image string `json:"image" validate:"required"`
}
