package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userIDContextKey contextKey = "user_id"

// Имя cookie с JWT-токеном сессии.
const AuthCookieName = "auth_token"

// TokenTTL — срок жизни сессионного токена.
const TokenTTL = 24 * time.Hour

// Claims — полезная нагрузка JWT: стандартные поля + id пользователя.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// BuildJWT подписывает токен с идентификатором пользователя.
func BuildJWT(userID int64, secret string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// parseJWT проверяет подпись и срок действия, возвращает id пользователя.
func parseJWT(tokenString, secret string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid || claims.UserID == 0 {
		return 0, errors.New("invalid token")
	}
	return claims.UserID, nil
}

// SetLoginCookie выписывает сессионную cookie с JWT для пользователя.
func SetLoginCookie(w http.ResponseWriter, userID int64, secret string) error {
	tokenString, err := BuildJWT(userID, secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(TokenTTL.Seconds()),
	})
	return nil
}

// ClearLoginCookie сбрасывает сессионную cookie (logout).
func ClearLoginCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// WithAuth кладёт id пользователя в контекст запроса, если пришла
// валидная cookie. Запросы без cookie проходят дальше анонимно —
// хендлеры сами решают, отвечать ли 401.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AuthCookieName)
			if err == nil && cookie.Value != "" {
				if userID, perr := parseJWT(cookie.Value, secret); perr == nil {
					ctx := context.WithValue(r.Context(), userIDContextKey, userID)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserIDFromContext достаёт id пользователя, положенный WithAuth.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}
