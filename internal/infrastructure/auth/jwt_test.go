package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"tomato-health/internal/domain/entity"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	user := &entity.User{ID: 42, Username: "alice"}

	token, err := issuer.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token.Access)

	claims, err := issuer.Verify(token.Access)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.NotEmpty(t, claims.ID)
}

func TestTokenIssuer_UniqueIDs(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	user := &entity.User{ID: 1, Username: "bob"}

	a, err := issuer.Issue(user)
	require.NoError(t, err)
	b, err := issuer.Issue(user)
	require.NoError(t, err)

	ca, err := issuer.Verify(a.Access)
	require.NoError(t, err)
	cb, err := issuer.Verify(b.Access)
	require.NoError(t, err)
	require.NotEqual(t, ca.ID, cb.ID)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	user := &entity.User{ID: 7, Username: "carol"}

	other := NewTokenIssuer("another-secret", time.Hour)
	foreign, err := other.Issue(user)
	require.NoError(t, err)

	expiredIssuer := NewTokenIssuer("secret", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.Issue(user)
	require.NoError(t, err)

	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign.Access},
		{"expired", expired.Access},
		{"wrong algorithm", hs256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
