package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/vancomm/minegrid/internal/config"
)

type CtxKey int

const (
	CtxPlayerClaims CtxKey = iota
)

// Auth stores the claims of a logged in player in the request context.
// Invalid cookies are cleared and the request goes on anonymously. A nil
// cookies config disables the middleware.
func Auth(logger *slog.Logger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		if cookies == nil {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParsePlayerClaims(r)
			if err != nil {
				if _, cookieErr := r.Cookie("auth"); cookieErr == nil {
					logger.Debug("invalid auth cookies", slog.Any("error", err))
					cookies.Clear(w)
				}
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxPlayerClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func PlayerClaims(ctx context.Context) (*config.PlayerClaims, bool) {
	claims, ok := ctx.Value(CtxPlayerClaims).(*config.PlayerClaims)
	return claims, ok
}

// PlayerID is nil for anonymous requests.
func PlayerID(ctx context.Context) *int64 {
	claims, ok := PlayerClaims(ctx)
	if !ok {
		return nil
	}
	id := claims.PlayerId
	return &id
}
