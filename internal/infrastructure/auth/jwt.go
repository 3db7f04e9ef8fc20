package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"tomato-health/internal/domain/entity"
)

const Issuer = "tomato-health"

var ErrInvalidToken = errors.New("invalid token")

// Token выданный клиенту токен доступа
type Token struct {
	Access    string    `json:"access_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Claims разобранный и проверенный токен
type Claims struct {
	ID        string
	UserID    int64
	Username  string
	ExpiresAt time.Time
}

// TokenIssuer выдаёт и проверяет HS512 JWT
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *TokenIssuer) Issue(user *entity.User) (*Token, error) {
	now := i.now()
	expires := now.Add(i.ttl)
	claims := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   strconv.FormatInt(user.ID, 10),
		Audience:  jwt.ClaimStrings{user.Username},
		ExpiresAt: jwt.NewNumericDate(expires),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	})

	signed, err := claims.SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Token{Access: signed, ExpiresAt: expires.Truncate(time.Second)}, nil
}

func (i *TokenIssuer) Verify(token string) (*Claims, error) {
	registered := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))
	parsed, err := parser.ParseWithClaims(token, registered, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if !registered.VerifyIssuer(Issuer, true) || registered.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(registered.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims := &Claims{
		ID:        registered.ID,
		UserID:    userID,
		ExpiresAt: registered.ExpiresAt.Time,
	}
	if len(registered.Audience) > 0 {
		claims.Username = registered.Audience[0]
	}
	return claims, nil
}
