package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/domain"
)

func newTestManager() *JWTManager {
	return NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", "seller@example.com", domain.RoleSeller)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "seller@example.com", claims.Email)
	assert.Equal(t, "seller", claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewJWTManager("other-secret", 15*time.Minute, time.Hour)

	token, err := m.GenerateAccessToken("user-1", "a@b.c", domain.RoleCustomer)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute, time.Hour)

	token, err := m.GenerateAccessToken("user-1", "a@b.c", domain.RoleCustomer)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_UnknownRoleRejected(t *testing.T) {
	// Mint a token carrying a role outside the closed enum; verification
	// must fail fast rather than letting it silently match nothing.
	now := time.Now().UTC()
	claims := &Claims{
		UserID: "user-1",
		Email:  "a@b.c",
		Role:   "warehouse-gnome",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			Issuer:    issuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = newTestManager().ValidateAccessToken(signed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role")
}

func TestValidateAccessToken_RoleNormalized(t *testing.T) {
	now := time.Now().UTC()
	claims := &Claims{
		UserID: "user-1",
		Role:   "Seller",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			Issuer:    issuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	parsed, err := newTestManager().ValidateAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "seller", parsed.Role)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("user-9")
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", claims.UserID)
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	m := newTestManager()

	access, err := m.GenerateAccessToken("user-1", "a@b.c", domain.RoleCustomer)
	require.NoError(t, err)

	// An access token parses as RefreshClaims (subset), which is why the
	// service layer additionally checks the stored token hash before rotating.
	claims, err := m.ValidateRefreshToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}
