package auth

import (
	"github.com/gin-gonic/gin"

	"tokenrelay/internal/domain"
)

const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
	ContextEmailKey  = "email"
)

// SetUser stores the admitted user on the request context.
func SetUser(c *gin.Context, user domain.UserSnapshot) {
	c.Set(ContextUserKey, user)
	c.Set(ContextUserIDKey, user.ID)
	c.Set(ContextEmailKey, user.Email)
}

func UserFromContext(c *gin.Context) (domain.UserSnapshot, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return domain.UserSnapshot{}, false
	}
	user, ok := v.(domain.UserSnapshot)
	return user, ok
}
