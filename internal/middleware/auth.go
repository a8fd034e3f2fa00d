package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthCookie: имя cookie с токеном устройства.
const AuthCookie = "auth_token"

// TokenTTL: срок жизни токена устройства.
const TokenTTL = 30 * 24 * time.Hour

type deviceIDKey struct{}

// Claims: JWT устройства.
type Claims struct {
	DeviceID string `json:"device_id"`
	jwt.RegisteredClaims
}

var errInvalidToken = errors.New("invalid token")

// BuildToken подписывает JWT с идентификатором устройства.
func BuildToken(deviceID, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			Issuer:    "clipsync",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken проверяет подпись и срок действия, возвращает идентификатор устройства.
func ParseToken(tokenString, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.DeviceID == "" {
		return "", errInvalidToken
	}
	return claims.DeviceID, nil
}

// SetDeviceCookie выставляет cookie с JWT устройства.
func SetDeviceCookie(w http.ResponseWriter, deviceID, secret string) error {
	token, err := BuildToken(deviceID, secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(TokenTTL),
	})
	return nil
}

// WithAuth кладёт device id в контекст при валидном токене.
// Запросы без токена проходят анонимно.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(AuthCookie)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			deviceID, err := ParseToken(c.Value, secret)
			if err != nil {
				sugar.Debugw("auth: token rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), deviceIDKey{}, deviceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetDeviceIDFromContext возвращает device id, проставленный WithAuth.
func GetDeviceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(deviceIDKey{}).(string)
	return id, ok && id != ""
}
