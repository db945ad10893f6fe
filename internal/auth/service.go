package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"etailor-admin/internal/model"
	"etailor-admin/internal/store"
	"etailor-admin/pkg/jwtutil"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned on login whether the email is unknown or
// the password mismatches; the caller must not be able to tell which.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrTokenNotFound is returned when the presented refresh token has no store record
var ErrTokenNotFound = errors.New("refresh token not found")

// ErrTokenInvalid is returned when refresh token verification fails
var ErrTokenInvalid = errors.New("refresh token expired or invalid")

// ErrTokenRevoked is returned when the store record is missing or past expiry
var ErrTokenRevoked = errors.New("refresh token expired or revoked")

// ErrIdentityGone is returned when the owning admin record no longer exists
var ErrIdentityGone = errors.New("admin no longer exists")

// ErrBadEmail and ErrBadPassword are login input validation failures
var (
	ErrBadEmail    = errors.New("a well-formed email is required")
	ErrBadPassword = errors.New("password must be at least 8 characters")
)

// TokenPair is an access/refresh token pair issued to an admin
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service is the session state machine: it issues, rotates and revokes
// access/refresh token pairs. Only the refresh token is persisted; access
// tokens verify statelessly.
type Service struct {
	admins store.AdminStore
	tokens store.TokenStore
	jwt    *jwtutil.JWTUtil
}

// NewService creates the auth service over its stores and token utility
func NewService(admins store.AdminStore, tokens store.TokenStore, jwt *jwtutil.JWTUtil) *Service {
	return &Service{admins: admins, tokens: tokens, jwt: jwt}
}

// Login authenticates an admin and issues a fresh token pair. The previous
// refresh token for this admin, if any, is superseded atomically.
func (s *Service) Login(ctx context.Context, email, password string) (*model.Admin, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, ErrBadEmail
	}
	if len(password) < 8 {
		return nil, nil, ErrBadPassword
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("admin lookup: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, expiresAt, err := s.mintPair(admin)
	if err != nil {
		return nil, nil, err
	}

	// Upsert keyed by admin id: exactly one valid refresh token per admin.
	record := &model.RefreshToken{
		Token:     pair.RefreshToken,
		AdminID:   admin.ID,
		ExpiresAt: expiresAt,
	}
	if err := s.tokens.Replace(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return admin, pair, nil
}

// Refresh rotates the token pair: the stored record is overwritten in place
// with the new token value and expiry, resetting the 7-day window.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.Admin, *TokenPair, error) {
	record, err := s.tokens.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrTokenNotFound
		}
		return nil, nil, fmt.Errorf("token lookup: %w", err)
	}

	claims, err := s.jwt.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, ErrTokenInvalid
	}

	admin, err := s.admins.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrIdentityGone
		}
		return nil, nil, fmt.Errorf("admin lookup: %w", err)
	}

	pair, expiresAt, err := s.mintPair(admin)
	if err != nil {
		return nil, nil, err
	}

	record.Token = pair.RefreshToken
	record.ExpiresAt = expiresAt
	if err := s.tokens.Update(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	return admin, pair, nil
}

// Logout deletes the stored record for the presented token and reports
// whether a session actually ended. Logging out an already-expired or
// unknown session is a no-op success.
func (s *Service) Logout(ctx context.Context, refreshToken string) (bool, error) {
	if refreshToken == "" {
		return false, nil
	}
	deleted, err := s.tokens.DeleteByToken(ctx, refreshToken)
	if err != nil {
		return false, fmt.Errorf("delete refresh token: %w", err)
	}
	return deleted > 0, nil
}

// RenewAccess mints a new access token against a still-valid refresh token
// without rotating it. This is the transparent-renewal path used by the
// request guard when only the access token has expired.
func (s *Service) RenewAccess(ctx context.Context, refreshToken string) (*model.Admin, string, error) {
	claims, err := s.jwt.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, "", ErrTokenInvalid
	}

	record, err := s.tokens.FindByTokenAndAdmin(ctx, refreshToken, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrTokenRevoked
		}
		return nil, "", fmt.Errorf("token lookup: %w", err)
	}
	if record.IsExpired() {
		return nil, "", ErrTokenRevoked
	}

	admin, err := s.admins.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrIdentityGone
		}
		return nil, "", fmt.Errorf("admin lookup: %w", err)
	}

	accessToken, err := s.jwt.GenerateAccessToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate access token: %w", err)
	}

	return admin, accessToken, nil
}

// mintPair generates both tokens and decodes the refresh token's own exp
// claim for the store record, so the store and the token never disagree.
func (s *Service) mintPair(admin *model.Admin) (*TokenPair, time.Time, error) {
	accessToken, err := s.jwt.GenerateAccessToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("generate refresh token: %w", err)
	}

	claims, err := s.jwt.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("decode refresh token expiry: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, claims.ExpiresAt.Time, nil
}
