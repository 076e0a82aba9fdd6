package main

import (
	"log"
	"os"

	"rental-units-server/routes"
	"rental-units-server/storage"
	"rental-units-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/{id}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUser)
		user.Patch("/{id}/profile", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.UpdateUserProfile)
		user.Patch("/{id}/pushtoken", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AlterPushToken)
		user.Patch("/{id}/settings/notifications", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AllowsNotifications)
		user.Get("/{id}/favorites", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserFavorites)
		user.Post("/{id}/favorites", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AddFavorite)
		user.Delete("/{id}/favorites/{unitID}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.RemoveFavorite)
	}

	units := app.Party("/api/units")
	{
		units.Get("/", routes.GetUnits)
		units.Get("/{id}", routes.GetUnitByID)
	}

	unitRequests := app.Party("/api/unit-requests", accessTokenVerifierMiddleware)
	{
		unitRequests.Post("/", routes.CreateUnitRequest)
		unitRequests.Get("/mine", routes.GetMyUnitRequests)
	}

	uploads := app.Party("/api/uploads", accessTokenVerifierMiddleware)
	{
		uploads.Post("/unit-image", routes.UploadUnitImage)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Post("/users", routes.AdminCreateUser)
		admin.Patch("/users/{id:uint}/role", routes.AdminChangeUserRole)
		admin.Delete("/users/{id:uint}", routes.AdminDeleteUser)

		admin.Get("/units", routes.AdminListUnits)
		admin.Post("/units", routes.AdminCreateUnit)
		admin.Put("/units/{id:uint}", routes.AdminUpdateUnit)
		admin.Delete("/units/{id:uint}", routes.AdminDeleteUnit)

		admin.Get("/requests", routes.AdminListRequests)
		admin.Get("/requests/{id:uint}", routes.AdminGetRequest)
		admin.Post("/requests/{id:uint}/review", routes.AdminReviewRequest)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Println("Starting server on port " + port)
	app.Listen(":" + port)
}
