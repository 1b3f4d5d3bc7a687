package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handlers ...gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", handlers...)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSuccess_MergesPayload(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		Success(c, http.StatusOK, gin.H{"accessToken": "abc"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "abc", body["accessToken"])
}

func TestError_Shape(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		Error(c, http.StatusForbidden, CodeRenewalTokenNotFound, "No user found, try logging in again")
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, CodeRenewalTokenNotFound, body["code"])
	assert.Equal(t, "No user found, try logging in again", body["message"])
}

func TestAbort_StopsChain(t *testing.T) {
	w, body := serve(t,
		func(c *gin.Context) {
			Abort(c, http.StatusUnauthorized, CodeUnauthenticated, "User not authenticated")
		},
		func(c *gin.Context) {
			t.Fatal("handler after Abort must not run")
		},
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeUnauthenticated, body["code"])
}

func TestErrorWithDetails(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		ErrorWithDetails(c, http.StatusBadRequest, CodeValidation, "Invalid request body", map[string]string{"email": "required"})
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeValidation, body["code"])
	assert.Equal(t, map[string]any{"email": "required"}, body["details"])
}
