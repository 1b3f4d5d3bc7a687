package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tokenrelay/internal/modules/auth"
	"tokenrelay/internal/pkg/response"
)

// expiredChallenge tells RFC 6750 clients that renewing is worth a try.
const expiredChallenge = `Bearer error="invalid_token", error_description="access token expired"`

// JWTAuth admits requests that carry a valid, unexpired access token and
// stores the token's user snapshot on the context.
func JWTAuth(guard *auth.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := guard.Check(c.GetHeader("Authorization"))

		switch res.Outcome {
		case auth.GuardAdmitted:
			auth.SetUser(c, res.User)
			c.Next()
		case auth.GuardMissingCredential:
			if res.Malformed {
				response.Abort(c, http.StatusUnauthorized, response.CodeInvalidAuthFormat, "Authorization header must be: Bearer <token>")
				return
			}
			response.Abort(c, http.StatusUnauthorized, response.CodeAuthHeaderMissing, "Authorization header is required")
		case auth.GuardAccessExpired:
			c.Header("WWW-Authenticate", expiredChallenge)
			response.Abort(c, http.StatusUnauthorized, response.CodeAccessTokenExpired, "Access token expired")
		default:
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthenticated, "User not authenticated")
		}
	}
}
