package auth

import (
	"errors"
	"strconv"
	"time"

	"taskmanager/internal/clock"
	dom "taskmanager/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of an issued token.
const TokenTTL = 24 * time.Hour

var (
	ErrMissingToken = errors.New("token is missing")
	ErrTokenExpired = errors.New("token has expired")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the verified caller. It is only ever built from a token
// that passed Verify.
type Identity struct {
	UserID   int64
	Username string
}

// Claims is the JWT payload.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens with a server-wide secret.
type TokenService struct {
	secret []byte
	clock  clock.Clock
}

// NewTokenService returns a TokenService signing with secret.
func NewTokenService(secret []byte, clk clock.Clock) *TokenService {
	return &TokenService{secret: secret, clock: clk}
}

// Issue returns a signed token for u and its expiry.
func (s *TokenService) Issue(u dom.User) (string, time.Time, error) {
	now := s.clock.Now()
	exp := now.Add(TokenTTL)
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm and expiry. Expired tokens yield
// ErrTokenExpired; every other failure yields ErrInvalidToken.
func (s *TokenService) Verify(token string) (Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrInvalidToken
	}
	if claims.UserID <= 0 {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
