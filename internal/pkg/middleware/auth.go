package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/router"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey struct{}

var identityKey ctxKey

// Identity is the authenticated caller as carried by the access token.
type Identity struct {
	UserID      int64
	Permissions int
}

// Can reports whether the identity holds every bit of perm.
func (id Identity) Can(perm int) bool {
	return id.Permissions&perm == perm
}

func Auth(key any) router.Middleware {
	return func(next http.Handler) http.Handler {
		return authMiddleware(next, key)
	}
}

func authMiddleware(next http.Handler, key any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawToken := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if rawToken == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil {
			authError("failed to parse jwt", w, r, err)
			return
		}
		if !token.Valid {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			authError("invalid jwt claims type", w, r, nil)
			return
		}

		sub, _ := claims["sub"].(string)
		uid, err := strconv.ParseInt(sub, 10, 64)
		if sub == "" || err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		perm, _ := claims["perm"].(float64)

		ctx := WithIdentity(r.Context(), Identity{UserID: uid, Permissions: int(perm)})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authError(msg string, w http.ResponseWriter, r *http.Request, err error) {
	slog.Error(msg,
		"error", err,
		"method", r.Method,
		"url", r.URL.String(),
		"remote_addr", r.RemoteAddr,
	)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}
