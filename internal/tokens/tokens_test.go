package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Grzafnan/nest-server/internal/models"
)

var (
	accessSecret  = []byte("access-secret")
	refreshSecret = []byte("refresh-secret")
)

func testUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Name:  "Test User",
		Email: "a@b.com",
		Role:  models.RoleUser,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	u := testUser()

	tok, err := CreateAccessToken(u, accessSecret, time.Hour)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, accessSecret)
	require.NoError(t, err)
	require.Equal(t, u.ID.String(), claims.UserID)
	require.Equal(t, u.ID.String(), claims.Subject)
	require.Equal(t, u.Email, claims.Email)
	require.Equal(t, u.Name, claims.Name)
	require.Equal(t, u.Role, claims.Role)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	u := testUser()

	tok, err := CreateRefreshToken(u, refreshSecret, time.Hour)
	require.NoError(t, err)

	claims, err := RefreshClaimsFromToken(tok, refreshSecret)
	require.NoError(t, err)
	require.Equal(t, u.ID.String(), claims.UserID)
	require.Equal(t, u.Role, claims.Role)
}

func TestCrossSecretRejection(t *testing.T) {
	u := testUser()

	access, err := CreateAccessToken(u, accessSecret, time.Hour)
	require.NoError(t, err)
	refresh, err := CreateRefreshToken(u, refreshSecret, time.Hour)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(access, refreshSecret)
	require.Error(t, err)
	_, err = RefreshClaimsFromToken(refresh, accessSecret)
	require.Error(t, err)
	_, err = RefreshClaimsFromToken(access, refreshSecret)
	require.Error(t, err)
}

func TestExpiredOnArrival(t *testing.T) {
	u := testUser()

	for _, ttl := range []time.Duration{0, -time.Minute} {
		tok, err := CreateAccessToken(u, accessSecret, ttl)
		require.NoError(t, err)

		_, err = AccessClaimsFromToken(tok, accessSecret)
		require.Error(t, err)
	}
}

func TestMalformedToken(t *testing.T) {
	_, err := AccessClaimsFromToken("not.a.jwt", accessSecret)
	require.Error(t, err)
	_, err = AccessClaimsFromToken("", accessSecret)
	require.Error(t, err)
}

func TestParseTTL(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"1d", 24 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"15m", 15 * time.Minute},
		{"24h", 24 * time.Hour},
	}
	for _, tc := range cases {
		got, err := ParseTTL(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "xd", "1w", "soon"} {
		_, err := ParseTTL(bad)
		require.Error(t, err, bad)
	}
}
