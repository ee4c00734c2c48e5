package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PortalTokenService firma la cookie que identifica al cliente del portal.
// El token de Xano nunca sale del servidor; la cookie solo lleva el sid.
type PortalTokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type PortalClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

var (
	ErrPortalTokenInvalid = errors.New("portal token invalid")
	ErrPortalTokenExpired = errors.New("portal token expired")
)

const PortalIssuer = "chargecars-portal"

func NewPortalTokenService(secret string, ttl time.Duration) *PortalTokenService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &PortalTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: PortalIssuer,
		now:    time.Now,
	}
}

func (s *PortalTokenService) TTL() time.Duration { return s.ttl }

// NewSessionID genera un sid aleatorio.
func (s *PortalTokenService) NewSessionID() string {
	return uuid.NewString()
}

// Issue firma una cookie para sessionID.
func (s *PortalTokenService) Issue(sessionID string) (string, time.Time, error) {
	if len(s.secret) == 0 || strings.TrimSpace(sessionID) == "" {
		return "", time.Time{}, ErrPortalTokenInvalid
	}
	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	claims := PortalClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse valida firma, issuer y expiracion y devuelve los claims.
func (s *PortalTokenService) Parse(tokenString string) (PortalClaims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return PortalClaims{}, ErrPortalTokenInvalid
	}
	var claims PortalClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return PortalClaims{}, ErrPortalTokenExpired
		}
		return PortalClaims{}, ErrPortalTokenInvalid
	}
	if strings.TrimSpace(claims.SessionID) == "" || claims.Subject != claims.SessionID {
		return PortalClaims{}, ErrPortalTokenInvalid
	}
	if claims.Issuer != s.issuer {
		return PortalClaims{}, ErrPortalTokenInvalid
	}
	return claims, nil
}
