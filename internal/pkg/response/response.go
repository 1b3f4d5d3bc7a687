package response

import "github.com/gin-gonic/gin"

// Success writes {"success":true, ...payload}.
func Success(c *gin.Context, statusCode int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// Error writes {"success":false,"code":...,"message":...}.
func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, errorBody(code, message))
}

// ErrorWithDetails adds a "details" object, typically per-field validation
// failures.
func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	body := errorBody(code, message)
	body["details"] = details
	c.JSON(statusCode, body)
}

// Abort is Error for middleware: the remaining handlers are skipped.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	c.AbortWithStatusJSON(statusCode, errorBody(code, message))
}

func errorBody(code, message string) gin.H {
	return gin.H{
		"success": false,
		"code":    code,
		"message": message,
	}
}
