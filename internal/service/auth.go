package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Amansingh80/task-management-backend-complete/internal/security"
	"github.com/Amansingh80/task-management-backend-complete/internal/storage"
	"github.com/Amansingh80/task-management-backend-complete/internal/token"
	"github.com/google/uuid"
)

// Business outcomes the handlers map to status codes. Anything else the
// service returns is an internal fault.
var (
	ErrDuplicateEmail     = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("refresh token required")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
)

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*storage.User, error)
	CreateUser(ctx context.Context, email, passwordHash string, name *string) (*storage.User, error)
}

// TokenLedger records issued refresh tokens so they can be revoked.
type TokenLedger interface {
	CreateRefreshToken(ctx context.Context, tokenString string, userID uuid.UUID, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenString string) (*storage.RefreshToken, error)
	DeleteRefreshTokens(ctx context.Context, tokenString string) (int64, error)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// UserView is the redacted user shape returned to callers. The password
// hash never leaves the service.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Session struct {
	AccessToken  string
	RefreshToken string
	User         UserView
}

type Auth struct {
	users  UserStore
	ledger TokenLedger
	codec  *token.Codec
	hasher security.Hasher
	Clock  Clock
}

func NewAuth(users UserStore, ledger TokenLedger, codec *token.Codec, hasher security.Hasher) *Auth {
	return &Auth{
		users:  users,
		ledger: ledger,
		codec:  codec,
		hasher: hasher,
		Clock:  systemClock{},
	}
}

func (a *Auth) Register(ctx context.Context, email, password string, name *string) (*UserView, error) {
	_, err := a.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := a.users.CreateUser(ctx, email, hash, name)
	if err != nil {
		// two registrations can pass the pre-check together; the unique
		// constraint decides the loser
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	view := publicView(user)
	return &view, nil
}

func (a *Auth) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		// unknown email and wrong password must be indistinguishable
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := a.hasher.Verify(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	access, err := a.codec.MintAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}

	refresh, err := a.codec.MintRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("mint refresh token: %w", err)
	}

	if err := a.ledger.CreateRefreshToken(ctx, refresh, user.ID, a.codec.RefreshExpiry()); err != nil {
		return nil, fmt.Errorf("record refresh token: %w", err)
	}

	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         publicView(user),
	}, nil
}

func (a *Auth) Refresh(ctx context.Context, tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrMissingToken
	}

	claims, err := a.codec.VerifyRefreshToken(tokenString)
	if err != nil {
		return "", ErrInvalidToken
	}

	stored, err := a.ledger.GetRefreshToken(ctx, tokenString)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("lookup refresh token: %w", err)
	}

	if !stored.ExpiresAt.After(a.Clock.Now()) {
		return "", ErrInvalidToken
	}

	// the new access token is minted from the presented token's claims,
	// not from a fresh user read
	userID, err := claims.UserID()
	if err != nil {
		return "", ErrInvalidToken
	}

	access, err := a.codec.MintAccessToken(userID, claims.Email)
	if err != nil {
		return "", fmt.Errorf("mint access token: %w", err)
	}
	return access, nil
}

// Logout revokes a refresh token if one is presented. Deleting zero rows
// is not an error; logout is best effort.
func (a *Auth) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}

	if _, err := a.ledger.DeleteRefreshTokens(ctx, tokenString); err != nil {
		return fmt.Errorf("delete refresh tokens: %w", err)
	}
	return nil
}

func publicView(user *storage.User) UserView {
	return UserView{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}
