package routes

import (
	"errors"

	"rental-units-server/services"
	"rental-units-server/utils"

	"github.com/kataras/iris/v12"
)

// writeServiceError translates the services error taxonomy into the JSON
// error envelope. Unknown errors become opaque 500s.
func writeServiceError(ctx iris.Context, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		ctx.StatusCode(iris.StatusUnprocessableEntity)
		ctx.JSON(iris.Map{
			"error":   "validation_error",
			"message": vErr.Error(),
			"fields":  vErr.Fields,
		})
	case errors.Is(err, services.ErrRequestNotFound):
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "unit request not found")
	case errors.Is(err, services.ErrInvalidStateTransition):
		utils.JSONError(ctx, iris.StatusConflict, "invalid_state", "request has already been reviewed")
	case errors.Is(err, services.ErrUnauthorized):
		utils.JSONError(ctx, iris.StatusForbidden, "forbidden", "admin access required")
	case errors.Is(err, services.ErrStoreUnavailable):
		utils.JSONError(ctx, iris.StatusServiceUnavailable, "store_unavailable", "temporary storage failure, retry later")
	default:
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", "an unexpected error occurred")
	}
}
