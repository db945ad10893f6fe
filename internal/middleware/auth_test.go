package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"etailor-admin/internal/auth"
	"etailor-admin/internal/model"
	"etailor-admin/internal/store"
	"etailor-admin/pkg/config"
	"etailor-admin/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubAdminStore struct {
	mock.Mock
}

func (m *stubAdminStore) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *stubAdminStore) FindByID(ctx context.Context, id uint) (*model.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

type stubTokenStore struct {
	mock.Mock
}

func (m *stubTokenStore) FindByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *stubTokenStore) FindByTokenAndAdmin(ctx context.Context, token string, adminID uint) (*model.RefreshToken, error) {
	args := m.Called(ctx, token, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *stubTokenStore) Replace(ctx context.Context, token *model.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *stubTokenStore) Update(ctx context.Context, token *model.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *stubTokenStore) DeleteByToken(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

type guardFixture struct {
	guard   *SessionGuard
	jwt     *jwtutil.JWTUtil
	expired *jwtutil.JWTUtil
	admins  *stubAdminStore
	tokens  *stubTokenStore
}

func newGuardFixture() *guardFixture {
	cfg := &config.JWTConfig{
		AccessSecret:  "guard-access-secret",
		RefreshSecret: "guard-refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	}
	// Same secrets with a negative TTL mint already-expired access tokens.
	expiredCfg := *cfg
	expiredCfg.AccessTTL = -time.Minute

	admins := new(stubAdminStore)
	tokens := new(stubTokenStore)
	jwt := jwtutil.NewJWTUtil(cfg)
	service := auth.NewService(admins, tokens, jwt)

	return &guardFixture{
		guard:   NewSessionGuard(jwt, service, cfg),
		jwt:     jwt,
		expired: jwtutil.NewJWTUtil(&expiredCfg),
		admins:  admins,
		tokens:  tokens,
	}
}

func runGuard(f *guardFixture, req *http.Request) (*httptest.ResponseRecorder, echo.Context, bool) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	handler := f.guard.Middleware(func(c echo.Context) error {
		nextCalled = true
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	})
	_ = handler(c)
	return rec, c, nextCalled
}

func responseMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestGuardRejectsMissingToken(t *testing.T) {
	f := newGuardFixture()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	rec, _, nextCalled := runGuard(f, req)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No access token provided. Please log in.", responseMessage(t, rec))
}

func TestGuardAcceptsBearerToken(t *testing.T) {
	f := newGuardFixture()
	token, err := f.jwt.GenerateAccessToken(7, "admin@test.com", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec, c, nextCalled := runGuard(f, req)

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(7), c.Get("admin_id"))
	assert.Equal(t, "admin@test.com", c.Get("email"))
	assert.Equal(t, "admin", c.Get("role"))
}

func TestGuardAcceptsCookieToken(t *testing.T) {
	f := newGuardFixture()
	token, err := f.jwt.GenerateAccessToken(7, "admin@test.com", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

	_, _, nextCalled := runGuard(f, req)
	assert.True(t, nextCalled)
}

func TestGuardRejectsMalformedToken(t *testing.T) {
	f := newGuardFixture()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	rec, _, nextCalled := runGuard(f, req)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Invalid access token.", responseMessage(t, rec))
}

func TestGuardExpiredWithoutRefreshCookie(t *testing.T) {
	f := newGuardFixture()
	stale, err := f.expired.GenerateAccessToken(7, "admin@test.com", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+stale)

	rec, _, nextCalled := runGuard(f, req)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Session expired. Please log in again.", responseMessage(t, rec))
}

func TestGuardRenewsExpiredAccessToken(t *testing.T) {
	f := newGuardFixture()
	admin := &model.Admin{ID: 7, Email: "admin@test.com", Role: "admin"}

	stale, err := f.expired.GenerateAccessToken(admin.ID, admin.Email, admin.Role)
	require.NoError(t, err)
	refreshToken, err := f.jwt.GenerateRefreshToken(admin.ID, admin.Email, admin.Role)
	require.NoError(t, err)

	record := &model.RefreshToken{ID: 1, Token: refreshToken, AdminID: admin.ID, ExpiresAt: time.Now().Add(time.Hour)}
	f.tokens.On("FindByTokenAndAdmin", mock.Anything, refreshToken, admin.ID).Return(record, nil)
	f.admins.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+stale)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refreshToken})

	rec, c, nextCalled := runGuard(f, req)

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, admin.ID, c.Get("admin_id"))

	// The renewed access token comes back as a cookie and verifies cleanly.
	var renewed string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "access_token" {
			renewed = cookie.Value
		}
	}
	require.NotEmpty(t, renewed)
	claims, err := f.jwt.VerifyAccessToken(renewed)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.ID)

	// Transparent renewal never rotates the refresh token.
	f.tokens.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.tokens.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestGuardRevokedRefreshToken(t *testing.T) {
	f := newGuardFixture()
	stale, err := f.expired.GenerateAccessToken(7, "admin@test.com", "admin")
	require.NoError(t, err)
	refreshToken, err := f.jwt.GenerateRefreshToken(7, "admin@test.com", "admin")
	require.NoError(t, err)

	f.tokens.On("FindByTokenAndAdmin", mock.Anything, refreshToken, uint(7)).Return(nil, store.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+stale)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refreshToken})

	rec, _, nextCalled := runGuard(f, req)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Refresh token expired or revoked. Please log in again.", responseMessage(t, rec))
}

func TestGuardAdminDeletedMidSession(t *testing.T) {
	f := newGuardFixture()
	stale, err := f.expired.GenerateAccessToken(7, "admin@test.com", "admin")
	require.NoError(t, err)
	refreshToken, err := f.jwt.GenerateRefreshToken(7, "admin@test.com", "admin")
	require.NoError(t, err)

	record := &model.RefreshToken{ID: 1, Token: refreshToken, AdminID: 7, ExpiresAt: time.Now().Add(time.Hour)}
	f.tokens.On("FindByTokenAndAdmin", mock.Anything, refreshToken, uint(7)).Return(record, nil)
	f.admins.On("FindByID", mock.Anything, uint(7)).Return(nil, store.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+stale)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refreshToken})

	rec, _, nextCalled := runGuard(f, req)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Admin no longer exists.", responseMessage(t, rec))
}
