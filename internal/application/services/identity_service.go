package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/sfsc/platform-governance/internal/core/domain/identity"
)

// IdentityService verifies HS256 bearer tokens minted by the session provider.
type IdentityService struct {
	secret []byte
	issuer string
	now    func() time.Time
	logger *logrus.Logger
}

// IdentityConfig groups the shared JWT settings.
type IdentityConfig struct {
	Secret string
	Issuer string
	Now    func() time.Time
}

func NewIdentityService(cfg IdentityConfig, logger *logrus.Logger) *IdentityService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &IdentityService{secret: []byte(cfg.Secret), issuer: cfg.Issuer, now: now, logger: logger}
}

func (s *IdentityService) Authenticate(ctx context.Context, tokenString string) (identity.Principal, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return identity.Principal{}, identity.ErrMissingToken
	}
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired()}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	claims := &identity.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// HMAC only; rejects alg confusion
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Debug("identity: token rejected")
		}
		return identity.Principal{}, fmt.Errorf("%w: %w", identity.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return identity.Principal{}, fmt.Errorf("%w: missing subject", identity.ErrInvalidToken)
	}
	return claims.Principal(), nil
}

func (s *IdentityService) IssueToken(p identity.Principal, ttl time.Duration) (string, error) {
	if p.ID == "" {
		return "", errors.New("identity: principal id is required")
	}
	now := s.now()
	claims := &identity.Claims{
		Role: p.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
