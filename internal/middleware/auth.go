package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/otakulog/otakulog/internal/auth"
	"github.com/otakulog/otakulog/internal/types"
)

// TokenVerifier resolves a session token to the identity it carries.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, bool)
}

// Session resolves the auth-token cookie into an identity for the current
// request. It never rejects: a stale or forged cookie is cleared and the
// request continues unauthenticated. Routes enforce authorization themselves.
func Session(tokens TokenVerifier, cookies auth.CookieConfig) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(auth.CookieName)

		if err != nil || token == "" {
			ctx.Next()
			return
		}

		identity, ok := tokens.Verify(token)

		if !ok {
			cookies.Clear(ctx.Writer)
			ctx.Next()
			return
		}

		ctx.Set(types.ContextUserKey, identity)
		ctx.Next()
	}
}
