package routes

import (
	"strings"

	"rental-units-server/models"
	"rental-units-server/storage"
	"rental-units-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AdminListUsers - GET /api/admin/users?role=&q=&page=&per_page=
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	var users []models.User
	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))
	role := strings.TrimSpace(ctx.URLParamDefault("role", ""))

	query := storage.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(full_name) LIKE ? OR lower(email) LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)
	query = query.Offset((page - 1) * perPage).Limit(perPage)
	if err := query.Find(&users).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// AdminCreateUser - POST /api/admin/users
func AdminCreateUser(ctx iris.Context) {
	var input AdminCreateUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing models.User
	userExists, err := getAndHandleUserExists(&existing, input.Email)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if userExists {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	user := models.User{
		FullName: input.FullName,
		Email:    strings.ToLower(input.Email),
		Password: string(hashed),
		Role:     input.Role,
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "user.create", "user", user.ID, nil, user)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"data": &user})
}

// AdminChangeUserRole - PATCH /api/admin/users/{id}/role
// Admins cannot change their own role through this path.
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if claims.ID == id {
		utils.JSONError(ctx, iris.StatusForbidden, "forbidden", "cannot change your own role")
		return
	}

	var body ChangeRoleInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "user not found")
		return
	}

	before := user
	user.Role = body.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "user.role_update", "user", user.ID, before, user)

	ctx.JSON(iris.Map{"data": &user})
}

// AdminDeleteUser - DELETE /api/admin/users/{id}
// Admins cannot delete their own account through this path.
func AdminDeleteUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if claims.ID == id {
		utils.JSONError(ctx, iris.StatusForbidden, "forbidden", "cannot delete your own account")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "user not found")
		return
	}

	if err := storage.DB.Delete(&user).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "user.delete", "user", user.ID, user, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

type AdminCreateUserInput struct {
	FullName string `json:"fullName" validate:"required,max=256"`
	Email    string `json:"email" validate:"required,max=256,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Role     string `json:"role" validate:"required,oneof=user admin"`
}

type ChangeRoleInput struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}
