package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Por debajo de esto un numero se lee como segundos relativos.
	relativeExpiryLimit = 1e9
	// Por encima de esto un numero se lee como epoch en milisegundos.
	millisExpiryLimit = 1e12
)

// ParseTokenExpiry normaliza la expiracion que devuelve el backend. Si no
// llega ninguna se intenta con el claim exp del propio token. nil significa
// "sin expiracion conocida".
func ParseTokenExpiry(raw, token string, now time.Time) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return expiryFromJWT(token)
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		if n <= 0 {
			return nil
		}
		var t time.Time
		switch {
		case n < relativeExpiryLimit:
			t = now.Add(time.Duration(n * float64(time.Second)))
		case n > millisExpiryLimit:
			t = time.UnixMilli(int64(n))
		default:
			t = time.Unix(int64(n), 0)
		}
		t = t.UTC().Truncate(time.Second)
		return &t
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return expiryFromJWT(token)
}

// expiryFromJWT lee exp sin verificar la firma: el token es de Xano y aqui
// solo se usa para decidir cuando dejar de enviarlo.
func expiryFromJWT(token string) *time.Time {
	if strings.Count(token, ".") != 2 {
		return nil
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	t := claims.ExpiresAt.Time.UTC()
	return &t
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
