package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/sfsc/platform-governance/internal/application/services"
	"github.com/sfsc/platform-governance/internal/core/domain/identity"
	"github.com/sfsc/platform-governance/internal/core/domain/role"
)

func TestIdentityService_RoundTrip(t *testing.T) {
	svc := impl.NewIdentityService(impl.IdentityConfig{Secret: "s3cret", Issuer: "sfsc"}, nil)

	token, err := svc.IssueToken(identity.Principal{ID: "user-1", Role: role.Manager}, time.Hour)
	require.NoError(t, err)

	p, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.ID)
	assert.Equal(t, role.Manager, p.Role)
	assert.False(t, p.Anonymous)
}

func TestIdentityService_UnknownRoleClaimDegrades(t *testing.T) {
	svc := impl.NewIdentityService(impl.IdentityConfig{Secret: "s3cret"}, nil)
	claims := &identity.Claims{Role: "emperor", RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-2",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	p, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, role.Lowest(), p.Role)
}

func TestIdentityService_Rejections(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := impl.NewIdentityService(impl.IdentityConfig{Secret: "s3cret", Now: func() time.Time { return now }}, nil)
	expired, err := issuer.IssueToken(identity.Principal{ID: "u", Role: role.Admin}, time.Minute)
	require.NoError(t, err)

	svc := impl.NewIdentityService(impl.IdentityConfig{Secret: "s3cret", Now: func() time.Time { return now.Add(time.Hour) }}, nil)
	other := impl.NewIdentityService(impl.IdentityConfig{Secret: "other"}, nil)
	forged, _ := other.IssueToken(identity.Principal{ID: "u", Role: role.SuperAdmin}, time.Hour)

	_, err = svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, identity.ErrMissingToken)
	_, err = svc.Authenticate(context.Background(), expired)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
	_, err = svc.Authenticate(context.Background(), forged)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
	_, err = svc.Authenticate(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, identity.ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u"})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = svc.Authenticate(context.Background(), unsigned)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestIdentityService_IssueRequiresID(t *testing.T) {
	svc := impl.NewIdentityService(impl.IdentityConfig{Secret: "s"}, nil)
	_, err := svc.IssueToken(identity.Principal{}, time.Hour)
	assert.Error(t, err)
}

func TestIdentityService_RejectsTokenWithoutExpiry(t *testing.T) {
	svc := impl.NewIdentityService(impl.IdentityConfig{Secret: "s3cret"}, nil)
	claims := &identity.Claims{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{Subject: "user-3"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenRequiredClaimMissing)
}
