package middleware

import (
	"context"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"

	"github.com/judyrop/shop-api/errs"
)

const subjectKey = "subject"

// TokenVerifier checks a raw ID token. *oidc.IDTokenVerifier satisfies it.
type TokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// Auth requires a bearer ID token accepted by verifier and records the
// token subject for the access log.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		const prefix = "Bearer "
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, prefix) {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		token, err := verifier.Verify(c.Request.Context(), strings.TrimSpace(strings.TrimPrefix(header, prefix)))
		if err != nil {
			GetLogger(c).Debug().Err(err).Msg("rejected bearer token")
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(subjectKey, token.Subject)
		c.Next()
	}
}

// GetSubject returns the authenticated token subject, or "".
func GetSubject(c *gin.Context) string {
	return c.GetString(subjectKey)
}

func abortUnauthorized(c *gin.Context, message string) {
	err := errs.NewUnauthorizedError(message)
	c.AbortWithStatusJSON(err.Status, err)
}
