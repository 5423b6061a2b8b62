package jwt

import (
	"testing"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")
	empID := "0190f1d2-0000-7000-8000-000000000001"

	token, expiresAt, err := svc.GenerateAccessToken(user.Requester{
		UserID:     "0190f1d2-0000-7000-8000-0000000000bb",
		EmployeeID: &empID,
		Role:       user.RoleEmployee,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotZero(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	typ, ok := decoded.Get("type")
	require.True(t, ok)
	assert.Equal(t, TokenTypeAccess, typ)

	role, ok := decoded.Get("role")
	require.True(t, ok)
	assert.Equal(t, "employee", role)

	gotEmp, ok := decoded.Get("employee_id")
	require.True(t, ok)
	assert.Equal(t, empID, gotEmp)
}

func TestGenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")

	_, _, err := svc.GenerateAccessToken(user.Requester{UserID: "u", Role: user.RoleEmployee})
	assert.Error(t, err)
}

func TestDecode_RejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService("issuer-secret", "15m")
	verifier := NewJWTService("other-secret", "15m")

	token, _, err := issuer.GenerateAccessToken(user.Requester{UserID: "u", Role: user.RoleManager})
	require.NoError(t, err)

	_, err = verifier.JWTAuth().Decode(token)
	assert.Error(t, err)
}
