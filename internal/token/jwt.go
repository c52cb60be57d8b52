package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"weshare/internal/config"
	"weshare/internal/model"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrSecretEmpty  = errors.New("jwt secret is required")
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims carries the account email as subject and the token type.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"typ"`
}

// Service issues and validates HS256 tokens.
type Service struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(cfg config.JWTConfig) (*Service, error) {
	if cfg.Secret == "" {
		return nil, ErrSecretEmpty
	}
	return &Service{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

func (s *Service) AccessTTL() time.Duration  { return s.accessTTL }
func (s *Service) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *Service) GenerateAccessToken(u *model.User, issuedAt time.Time) (string, error) {
	return s.generate(u, TypeAccess, issuedAt, s.accessTTL)
}

func (s *Service) GenerateRefreshToken(u *model.User, issuedAt time.Time) (string, error) {
	return s.generate(u, TypeRefresh, issuedAt, s.refreshTTL)
}

func (s *Service) generate(u *model.User, typ string, issuedAt time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.Email,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		Type: typ,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry and returns the claims.
func (s *Service) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// ExtractEmail returns the subject of a valid token.
func (s *Service) ExtractEmail(raw string) (string, error) {
	claims, err := s.Parse(raw)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsTokenValid reports whether raw is a valid, unexpired token of type typ issued for u.
func (s *Service) IsTokenValid(raw string, u *model.User, typ string) bool {
	claims, err := s.Parse(raw)
	if err != nil {
		return false
	}
	return claims.Subject == u.Email && claims.Type == typ
}

// RemainingTTL is the time left until raw expires, measured from now.
func (s *Service) RemainingTTL(raw string, now time.Time) (time.Duration, error) {
	claims, err := s.Parse(raw)
	if err != nil {
		return 0, err
	}
	left := claims.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0, ErrInvalidToken
	}
	return left, nil
}
