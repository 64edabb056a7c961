package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Claims are the identity attributes signed into both token classes.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Codec mints and verifies access and refresh tokens. Access tokens are
// short-lived and verified statelessly; refresh tokens are long-lived and
// additionally recorded in the token ledger, so verifying one here is
// necessary but not sufficient.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	Clock         Clock
}

func NewCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		Clock:         systemClock{},
	}
}

func (c *Codec) MintAccessToken(userID uuid.UUID, email string) (string, error) {
	return c.mint(userID, email, c.accessSecret, c.accessTTL)
}

func (c *Codec) MintRefreshToken(userID uuid.UUID, email string) (string, error) {
	return c.mint(userID, email, c.refreshSecret, c.refreshTTL)
}

func (c *Codec) VerifyAccessToken(tokenString string) (*Claims, error) {
	return c.verify(tokenString, c.accessSecret)
}

func (c *Codec) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return c.verify(tokenString, c.refreshSecret)
}

// RefreshExpiry is the instant recorded in the ledger next to a refresh
// token minted now. It matches the exp embedded in the token itself.
func (c *Codec) RefreshExpiry() time.Time {
	return c.Clock.Now().Add(c.refreshTTL)
}

func (c *Codec) mint(userID uuid.UUID, email string, secret []byte, ttl time.Duration) (string, error) {
	now := c.Clock.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (c *Codec) verify(tokenString string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithTimeFunc(c.Clock.Now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
