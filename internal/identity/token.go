package identity

import (
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Claims mínimos del token de sesión.
type TokenClaims struct {
	IdentityID string
	Email      string
	FullName   string
	ExpiresAt  time.Time
}

// VerifyToken valida un token de sesión HS256 y re-deriva la identidad desde
// el claim sub. El gateway usa SIEMPRE este sub como clave de rate limit:
// un id provisto por el cliente permitiría evadir la ventana con ids falsos.
func VerifyToken(secret, raw string) (*TokenClaims, error) {
	tok, err := jwtv5.Parse(raw, func(t *jwtv5.Token) (any, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwtv5.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return nil, ErrSessionInvalid
	}

	mc, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrSessionInvalid
	}
	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, ErrSessionInvalid
	}

	tc := &TokenClaims{IdentityID: sub}
	if v, _ := mc["email"].(string); v != "" {
		tc.Email = v
	}
	if v, _ := mc["name"].(string); v != "" {
		tc.FullName = v
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		tc.ExpiresAt = exp.Time
	}
	return tc, nil
}

// signToken emite un token de sesión HS256. Solo lo usa el Stub: en
// producción los tokens vienen firmados por el backend de identidad.
func signToken(secret string, p Profile, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := jwtv5.MapClaims{
		"sub":   p.ID,
		"email": p.Email,
		"iat":   time.Now().Unix(),
		"exp":   exp.Unix(),
	}
	if p.FullName != "" {
		claims["name"] = p.FullName
	}
	tok := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
