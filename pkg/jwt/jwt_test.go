package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Bodegaje-api/pkg/jwt"
)

const (
	secret    = "test-secret-key-for-unit-tests"
	userID    = "00000000-0000-0000-0000-000000000001"
	companyID = "00000000-0000-0000-0000-000000000002"
)

func TestGenerateAndParse_ConservaClaims(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, companyID, "jefe_inventario", "bodegaje-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, companyID, claims.CompanyID)
	assert.Equal(t, "jefe_inventario", claims.Role)
	assert.Equal(t, "bodegaje-test", claims.Issuer)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, companyID, "admin", "bodegaje-test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, companyID, "admin", "bodegaje-test", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", userID, companyID, "admin", "x", 60)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}
