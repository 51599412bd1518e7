package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credipronto/originacion-api/internal/domain/entity"
	httpiface "github.com/credipronto/originacion-api/internal/interfaces/http"
	"github.com/credipronto/originacion-api/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma una app Fiber mínima con una ruta protegida, una ruta de
// analista y una ruta que refleja los locals extraídos por el middleware.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()

	protected := app.Group("/", httpiface.AuthMiddleware(testSecret))
	protected.Get("/perfil", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   httpiface.GetUserID(c),
			"tenant_id": httpiface.GetTenantID(c),
			"role":      httpiface.GetRole(c),
		})
	})
	protected.Get("/revision", httpiface.RequireRole(entity.RoleAnalista, entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, "usr-1", "t1", role, "originacion-api", 15)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinTokenRegresa401(t *testing.T) {
	app := buildTestApp(t)
	resp := doRequest(t, app, "/perfil", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoInvalidoRegresa401(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, "/perfil", "Token abc123")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, "/perfil", "Bearer ")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FirmaIncorrectaRegresa401(t *testing.T) {
	app := buildTestApp(t)
	token, err := jwt.Generate("otro-secreto", "usr-1", "t1", entity.RoleSolicitante, "originacion-api", 15)
	require.NoError(t, err)

	resp := doRequest(t, app, "/perfil", "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenValidoExtraeLocals(t *testing.T) {
	app := buildTestApp(t)
	resp := doRequest(t, app, "/perfil", "Bearer "+tokenForRole(t, entity.RoleSolicitante))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_SolicitanteNoAccedeRevision(t *testing.T) {
	app := buildTestApp(t)
	resp := doRequest(t, app, "/revision", "Bearer "+tokenForRole(t, entity.RoleSolicitante))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRole_AnalistaAccedeRevision(t *testing.T) {
	app := buildTestApp(t)
	resp := doRequest(t, app, "/revision", "Bearer "+tokenForRole(t, entity.RoleAnalista))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole_AdminAccedeRevision(t *testing.T) {
	app := buildTestApp(t)
	resp := doRequest(t, app, "/revision", "Bearer "+tokenForRole(t, entity.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
