package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/tu-usuario/retencion-ar/internal/interfaces/http"
	pkgjwt "github.com/tu-usuario/retencion-ar/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "retencion-ar-test"
	testExpMin    = 60
)

// newAuthApp arma una aplicación con las dos superficies protegidas que
// reproduce el router real: configuración fiscal (admin/contador) y
// administración de la empresa (solo admin).
func newAuthApp() *fiber.App {
	app := fiber.New()
	auth := apphttp.AuthMiddleware(testJWTSecret)
	ok := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"role": apphttp.GetRole(c)})
	}
	app.Post("/api/regimes", auth, apphttp.RequireRole("admin", "contador"), ok)
	app.Post("/api/sicore/export", auth, apphttp.RequireRole("admin", "contador"), ok)
	app.Put("/api/companies/:id", auth, apphttp.RequireRole("admin"), ok)
	return app
}

func issueToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func hit(t *testing.T, app *fiber.App, method, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización por rol sobre las rutas del dominio
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_RutasDelDominio(t *testing.T) {
	app := newAuthApp()

	cases := []struct {
		name   string
		method string
		path   string
		role   string
		want   int
	}{
		{"AdminCreaRegimen", http.MethodPost, "/api/regimes", "admin", http.StatusOK},
		{"ContadorCreaRegimen", http.MethodPost, "/api/regimes", "contador", http.StatusOK},
		{"OperadorNoCreaRegimen", http.MethodPost, "/api/regimes", "operador", http.StatusForbidden},
		{"ContadorExportaSicore", http.MethodPost, "/api/sicore/export", "contador", http.StatusOK},
		{"OperadorNoExportaSicore", http.MethodPost, "/api/sicore/export", "operador", http.StatusForbidden},
		{"AdminEditaEmpresa", http.MethodPut, "/api/companies/1", "admin", http.StatusOK},
		{"ContadorNoEditaEmpresa", http.MethodPut, "/api/companies/1", "contador", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := hit(t, app, tc.method, tc.path, issueToken(t, tc.role))
			defer resp.Body.Close()

			assert.Equal(t, tc.want, resp.StatusCode)
			if tc.want == http.StatusForbidden {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), "FORBIDDEN",
					"la respuesta de error debe incluir el código FORBIDDEN")
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación del token en el middleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenSinRol_Retorna401(t *testing.T) {
	app := newAuthApp()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := hit(t, app, http.MethodPost, "/api/regimes", "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"token sin rol debe retornar 401")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE",
		"la respuesta debe indicar el código MISSING_ROLE")
}

func TestAuthMiddleware_TokensInvalidos_Retornan401(t *testing.T) {
	app := newAuthApp()

	cases := []struct {
		name   string
		header string
	}{
		{"SinHeader", ""},
		{"SinEsquemaBearer", "Basic abc123"},
		{"TokenMalformado", "Bearer token.invalido.aqui"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := hit(t, app, http.MethodPost, "/api/regimes", tc.header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestAuthMiddleware_CargaClaimsEnLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	resp := hit(t, app, http.MethodGet, "/me", issueToken(t, "contador"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, "contador", body["role"])
}
