package auth_test

import (
	"context"
	"testing"
	"time"

	"etailor-admin/internal/auth"
	"etailor-admin/internal/model"
	"etailor-admin/internal/store"
	"etailor-admin/pkg/config"
	"etailor-admin/pkg/jwtutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockAdminStore struct {
	mock.Mock
}

func (m *MockAdminStore) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminStore) FindByID(ctx context.Context, id uint) (*model.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) FindByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockTokenStore) FindByTokenAndAdmin(ctx context.Context, token string, adminID uint) (*model.RefreshToken, error) {
	args := m.Called(ctx, token, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockTokenStore) Replace(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenStore) Update(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenStore) DeleteByToken(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

func testJWT() *jwtutil.JWTUtil {
	return jwtutil.NewJWTUtil(&config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     24 * time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	})
}

func testAdmin(t *testing.T) *model.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.Admin{
		ID:       1,
		Name:     "Admin",
		Email:    "admin@test.com",
		Password: string(hash),
		Role:     "admin",
	}
}

func TestLoginSuccess(t *testing.T) {
	admins := new(MockAdminStore)
	tokens := new(MockTokenStore)
	jwt := testJWT()
	service := auth.NewService(admins, tokens, jwt)

	admin := testAdmin(t)
	admins.On("FindByEmail", mock.Anything, "admin@test.com").Return(admin, nil)

	var stored *model.RefreshToken
	tokens.On("Replace", mock.Anything, mock.AnythingOfType("*model.RefreshToken")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*model.RefreshToken)
		}).
		Return(nil)

	got, pair, err := service.Login(context.Background(), "admin@test.com", "correct-password")
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, admin.Email, got.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// The stored record must carry the exact expiry embedded in the token.
	require.NotNil(t, stored)
	assert.Equal(t, admin.ID, stored.AdminID)
	assert.Equal(t, pair.RefreshToken, stored.Token)
	claims, err := jwt.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Time.Equal(stored.ExpiresAt))

	tokens.AssertExpectations(t)
}

func TestLoginNormalizesEmail(t *testing.T) {
	admins := new(MockAdminStore)
	tokens := new(MockTokenStore)
	service := auth.NewService(admins, tokens, testJWT())

	admin := testAdmin(t)
	// Mixed case and surrounding whitespace must resolve to the stored email.
	admins.On("FindByEmail", mock.Anything, "admin@test.com").Return(admin, nil)
	tokens.On("Replace", mock.Anything, mock.Anything).Return(nil)

	_, pair, err := service.Login(context.Background(), "  Admin@Test.Com ", "correct-password")
	require.NoError(t, err)
	assert.NotNil(t, pair)
	admins.AssertCalled(t, "FindByEmail", mock.Anything, "admin@test.com")
}

func TestLoginGenericFailure(t *testing.T) {
	admins := new(MockAdminStore)
	tokens := new(MockTokenStore)
	service := auth.NewService(admins, tokens, testJWT())

	admin := testAdmin(t)
	admins.On("FindByEmail", mock.Anything, "admin@test.com").Return(admin, nil)
	admins.On("FindByEmail", mock.Anything, "nobody@test.com").Return(nil, store.ErrNotFound)

	// Unknown email and wrong password produce the identical error.
	_, _, unknownErr := service.Login(context.Background(), "nobody@test.com", "correct-password")
	_, _, wrongErr := service.Login(context.Background(), "admin@test.com", "wrong-password-1")

	assert.ErrorIs(t, unknownErr, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, auth.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	tokens.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestLoginInputValidation(t *testing.T) {
	service := auth.NewService(new(MockAdminStore), new(MockTokenStore), testJWT())

	_, _, err := service.Login(context.Background(), "not-an-email", "correct-password")
	assert.ErrorIs(t, err, auth.ErrBadEmail)

	_, _, err = service.Login(context.Background(), "admin@test.com", "short")
	assert.ErrorIs(t, err, auth.ErrBadPassword)
}

func TestRefreshUnknownToken(t *testing.T) {
	admins := new(MockAdminStore)
	tokens := new(MockTokenStore)
	service := auth.NewService(admins, tokens, testJWT())

	tokens.On("FindByToken", mock.Anything, "missing-token").Return(nil, store.ErrNotFound)

	_, _, err := service.Refresh(context.Background(), "missing-token")
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)
}

func TestRefreshInvalidToken(t *testing.T) {
	admins := new(MockAdminStore)
	tokens := new(MockTokenStore)
	service := auth.NewService(admins, tokens, testJWT())

	// The store knows the value but the token itself fails verification.
	record := &model.RefreshToken{ID: 4, Token: "garbage", AdminID: 1}
	tokens.On("FindByToken", mock.Anything, "garbage").Return(record, nil)

	_, _, err := service.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestRefreshRotatesInPlace(t *testing.T) {
	admins := new(MockAdminStore)
	tokens := new(MockTokenStore)
	jwt := testJWT()
	service := auth.NewService(admins, tokens, jwt)

	admin := testAdmin(t)
	oldToken, err := jwt.GenerateRefreshToken(admin.ID, admin.Email, admin.Role)
	require.NoError(t, err)

	record := &model.RefreshToken{ID: 42, Token: oldToken, AdminID: admin.ID, ExpiresAt: time.Now().Add(time.Hour)}
	tokens.On("FindByToken", mock.Anything, oldToken).Return(record, nil)
	admins.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)

	var updated *model.RefreshToken
	tokens.On("Update", mock.Anything, mock.AnythingOfType("*model.RefreshToken")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(*model.RefreshToken)
		}).
		Return(nil)

	_, pair, err := service.Refresh(context.Background(), oldToken)
	require.NoError(t, err)

	// Same record, new token value, new 7-day-out expiry.
	require.NotNil(t, updated)
	assert.Equal(t, uint(42), updated.ID)
	assert.Equal(t, pair.RefreshToken, updated.Token)
	assert.NotEqual(t, oldToken, updated.Token)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), updated.ExpiresAt, time.Minute)
}

func TestRefreshIdentityGone(t *testing.T) {
	admins := new(MockAdminStore)
	tokens := new(MockTokenStore)
	jwt := testJWT()
	service := auth.NewService(admins, tokens, jwt)

	token, err := jwt.GenerateRefreshToken(9, "gone@test.com", "admin")
	require.NoError(t, err)

	record := &model.RefreshToken{ID: 7, Token: token, AdminID: 9}
	tokens.On("FindByToken", mock.Anything, token).Return(record, nil)
	admins.On("FindByID", mock.Anything, uint(9)).Return(nil, store.ErrNotFound)

	_, _, err = service.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrIdentityGone)
}

func TestLogoutIsIdempotent(t *testing.T) {
	tokens := new(MockTokenStore)
	service := auth.NewService(new(MockAdminStore), tokens, testJWT())

	// No token at all is a no-op success without touching the store.
	ended, err := service.Logout(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ended)
	tokens.AssertNotCalled(t, "DeleteByToken", mock.Anything, mock.Anything)

	// A real session ends exactly once; repeating is a success that reports
	// no session ended.
	tokens.On("DeleteByToken", mock.Anything, "live-token").Return(int64(1), nil).Once()
	tokens.On("DeleteByToken", mock.Anything, "live-token").Return(int64(0), nil)

	ended, err = service.Logout(context.Background(), "live-token")
	require.NoError(t, err)
	assert.True(t, ended)

	ended, err = service.Logout(context.Background(), "live-token")
	require.NoError(t, err)
	assert.False(t, ended)
}

func TestRenewAccess(t *testing.T) {
	admins := new(MockAdminStore)
	tokens := new(MockTokenStore)
	jwt := testJWT()
	service := auth.NewService(admins, tokens, jwt)

	admin := testAdmin(t)
	refreshToken, err := jwt.GenerateRefreshToken(admin.ID, admin.Email, admin.Role)
	require.NoError(t, err)

	record := &model.RefreshToken{ID: 3, Token: refreshToken, AdminID: admin.ID, ExpiresAt: time.Now().Add(time.Hour)}
	tokens.On("FindByTokenAndAdmin", mock.Anything, refreshToken, admin.ID).Return(record, nil)
	admins.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)

	got, accessToken, err := service.RenewAccess(context.Background(), refreshToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	claims, err := jwt.VerifyAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, admin.Email, claims.Email)

	// Renewal never rotates the refresh token.
	tokens.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	tokens.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestRenewAccessRevoked(t *testing.T) {
	admins := new(MockAdminStore)
	tokens := new(MockTokenStore)
	jwt := testJWT()
	service := auth.NewService(admins, tokens, jwt)

	refreshToken, err := jwt.GenerateRefreshToken(1, "admin@test.com", "admin")
	require.NoError(t, err)

	// Missing store record means the token was revoked.
	tokens.On("FindByTokenAndAdmin", mock.Anything, refreshToken, uint(1)).Return(nil, store.ErrNotFound).Once()
	_, _, err = service.RenewAccess(context.Background(), refreshToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)

	// A record past its expiry counts as revoked too.
	stale := &model.RefreshToken{ID: 5, Token: refreshToken, AdminID: 1, ExpiresAt: time.Now().Add(-time.Hour)}
	tokens.On("FindByTokenAndAdmin", mock.Anything, refreshToken, uint(1)).Return(stale, nil).Once()
	_, _, err = service.RenewAccess(context.Background(), refreshToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}
