package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"rental-units-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildTestApp creates a minimal Iris app with the admin guard and the routes
// whose authorization checks run before any storage access.
func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Patch("/users/{id:uint}/role", AdminChangeUserRole)
		admin.Delete("/users/{id:uint}", AdminDeleteUser)
	}

	// ServeHTTP needs the router built; iris.Run would normally do this.
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

func signTestToken(id uint, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/users/2/role", strings.NewReader(`{"role":"admin"}`))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}
}

func TestAdminRoutesRejectUserRole(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/users/2/role", strings.NewReader(`{"role":"admin"}`))
	req.Header.Set("Authorization", "Bearer "+signTestToken(1, "user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp.Code)
	}
}

func TestAdminCannotChangeOwnRole(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/users/7/role", strings.NewReader(`{"role":"user"}`))
	req.Header.Set("Authorization", "Bearer "+signTestToken(7, "admin"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for self role change, got %d", resp.Code)
	}
}

func TestAdminCannotDeleteOwnAccount(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/7", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(7, "admin"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for self deletion, got %d", resp.Code)
	}
}
