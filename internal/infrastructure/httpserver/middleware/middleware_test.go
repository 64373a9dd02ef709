package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfsc/platform-governance/internal/application/services"
	"github.com/sfsc/platform-governance/internal/core/domain/identity"
	"github.com/sfsc/platform-governance/internal/core/domain/permission"
	"github.com/sfsc/platform-governance/internal/core/domain/role"
	"github.com/sfsc/platform-governance/internal/infrastructure/httpserver/helpers"
	"github.com/sfsc/platform-governance/internal/infrastructure/httpserver/middleware"
	"github.com/sfsc/platform-governance/internal/infrastructure/memory"
)

type identityStub struct {
	principal identity.Principal
	err       error
}

func (s identityStub) Authenticate(ctx context.Context, token string) (identity.Principal, error) {
	return s.principal, s.err
}

func (s identityStub) IssueToken(p identity.Principal, ttl time.Duration) (string, error) {
	return "", nil
}

type brokenStore struct{}

func (brokenStore) Increment(ctx context.Context, principalID string, windowStart, resetAt time.Time) (int, error) {
	return 0, errors.New("store down")
}
func (brokenStore) Reset(ctx context.Context, principalID string) error { return nil }
func (brokenStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

func ok(c echo.Context) error { return c.NoContent(http.StatusOK) }

func newContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:4000"
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func requireHTTPStatus(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, code, htErr.Code)
}

func TestIdentify_MissingTokenIsAnonymousGuest(t *testing.T) {
	m := middleware.NewIdentityMiddleware(identityStub{}, logrus.New())
	c, _ := newContext("")

	require.NoError(t, m.Identify()(ok)(c))
	p, found := helpers.GetPrincipalRaw(c)
	require.True(t, found)
	assert.True(t, p.Anonymous)
	assert.Equal(t, "anon:192.0.2.10", p.ID)
	assert.Equal(t, role.Guest, p.Role)
}

func TestIdentify_InvalidTokenReturns401(t *testing.T) {
	m := middleware.NewIdentityMiddleware(identityStub{err: identity.ErrInvalidToken}, logrus.New())
	c, _ := newContext("Bearer invalid")
	requireHTTPStatus(t, m.Identify()(ok)(c), http.StatusUnauthorized)
}

func TestIdentify_NonBearerSchemeReturns401(t *testing.T) {
	m := middleware.NewIdentityMiddleware(identityStub{}, nil)
	c, _ := newContext("Basic Zm9vOmJhcg==")
	requireHTTPStatus(t, m.Identify()(ok)(c), http.StatusUnauthorized)
}

func TestIdentify_ValidTokenSetsPrincipal(t *testing.T) {
	want := identity.Principal{ID: "user-1", Role: role.Editor}
	m := middleware.NewIdentityMiddleware(identityStub{principal: want}, nil)
	c, _ := newContext("Bearer good")

	require.NoError(t, m.Identify()(ok)(c))
	p, found := helpers.GetPrincipalRaw(c)
	require.True(t, found)
	assert.Equal(t, want, p)
}

func TestRequireAuthenticated(t *testing.T) {
	m := middleware.NewIdentityMiddleware(identityStub{}, nil)

	c, _ := newContext("")
	requireHTTPStatus(t, m.RequireAuthenticated()(ok)(c), http.StatusUnauthorized)

	helpers.SetPrincipal(c, identity.AnonymousPrincipal("192.0.2.10"))
	requireHTTPStatus(t, m.RequireAuthenticated()(ok)(c), http.StatusUnauthorized)

	helpers.SetPrincipal(c, identity.Principal{ID: "user-1", Role: role.Member})
	require.NoError(t, m.RequireAuthenticated()(ok)(c))
}

func TestPermMiddleware_Returns403WhenMissingCapability(t *testing.T) {
	m := middleware.NewPermMiddleware(services.NewPermissionService(nil))
	h := m.RequireCapability(permission.ManageUsers)(ok)

	c, _ := newContext("")
	requireHTTPStatus(t, h(c), http.StatusUnauthorized)

	helpers.SetPrincipal(c, identity.Principal{ID: "user-1", Role: role.Member})
	requireHTTPStatus(t, h(c), http.StatusForbidden)
}

func TestPermMiddleware_AllowsWhenCapabilityPresent(t *testing.T) {
	m := middleware.NewPermMiddleware(services.NewPermissionService(nil))
	c, _ := newContext("")
	helpers.SetPrincipal(c, identity.Principal{ID: "admin-1", Role: role.Admin})

	require.NoError(t, m.RequireCapability(permission.ManageUsers)(ok)(c))
	require.NoError(t, m.RequireAnyCapability(permission.Flag, permission.Approve)(ok)(c))
	require.NoError(t, m.RequireMinimumRole(role.Manager)(ok)(c))
	requireHTTPStatus(t, m.RequireMinimumRole(role.SuperAdmin)(ok)(c), http.StatusForbidden)
}

func TestRateLimit_SetsHeadersAndRejectsOverQuota(t *testing.T) {
	perms := services.NewPermissionService(nil)
	now := time.Now()
	limiter := services.NewRateLimiterService(memory.NewRateLimitStore(), perms, nil, &services.RateLimiterConfig{
		Now: func() time.Time { return now },
	}, nil)
	m := middleware.NewRateLimitMiddleware(limiter, nil)
	guest := identity.AnonymousPrincipal("192.0.2.10")
	limit := int(perms.QuotaOf("guest").RequestsPerMinute)

	for i := 1; i <= limit; i++ {
		c, rec := newContext("")
		helpers.SetPrincipal(c, guest)
		require.NoError(t, m.Handler()(ok)(c))
		assert.Equal(t, strconv.Itoa(limit), rec.Header().Get(middleware.HeaderRateLimitLimit))
		assert.Equal(t, strconv.Itoa(limit-i), rec.Header().Get(middleware.HeaderRateLimitRemaining))
		assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRateLimitReset))
	}

	c, rec := newContext("")
	helpers.SetPrincipal(c, guest)
	require.NoError(t, m.Handler()(ok)(c))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get(middleware.HeaderRateLimitRemaining))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderRetryAfter))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rate limit exceeded", body["error"])
	assert.Equal(t, float64(limit), body["limit"])
	assert.Equal(t, float64(0), body["remaining"])
	assert.NotEmpty(t, body["reset_at"])
	assert.Contains(t, body, "retry_after")
}

func TestRateLimit_UnlimitedRole(t *testing.T) {
	limiter := services.NewRateLimiterService(memory.NewRateLimitStore(), services.NewPermissionService(nil), nil, nil, nil)
	m := middleware.NewRateLimitMiddleware(limiter, nil)

	c, rec := newContext("")
	helpers.SetPrincipal(c, identity.Principal{ID: "root", Role: role.SuperAdmin})
	require.NoError(t, m.Handler()(ok)(c))
	assert.Equal(t, "unlimited", rec.Header().Get(middleware.HeaderRateLimitLimit))
	assert.Equal(t, "unlimited", rec.Header().Get(middleware.HeaderRateLimitRemaining))
}

func TestRateLimit_FailsOpenOnStoreError(t *testing.T) {
	limiter := services.NewRateLimiterService(brokenStore{}, services.NewPermissionService(nil), nil, nil, nil)
	m := middleware.NewRateLimitMiddleware(limiter, logrus.New())

	c, rec := newContext("")
	helpers.SetPrincipal(c, identity.AnonymousPrincipal("192.0.2.10"))
	require.NoError(t, m.Handler()(ok)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
