package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retencion-ar/pkg/jwt"
)

const (
	secret    = "test-secret-key-for-unit-tests"
	userID    = "00000000-0000-0000-0000-000000000001"
	companyID = "00000000-0000-0000-0000-000000000002"
	issuer    = "retencion-ar-test"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := jwt.Generate(secret, userID, companyID, "contador", issuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	gotUser, gotCompany, gotRole, err := jwt.Parse(secret, tok)
	require.NoError(t, err)

	assert.Equal(t, userID, gotUser)
	assert.Equal(t, companyID, gotCompany)
	assert.Equal(t, "contador", gotRole)
}

func TestParse_TokenExpirado(t *testing.T) {
	// Expiración -1 minuto: el token nace vencido
	tok, err := jwt.Generate(secret, userID, companyID, "admin", issuer, -1)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse(secret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := jwt.Generate(secret, userID, companyID, "admin", issuer, 60)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
