package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tokenrelay/internal/pkg/response"
	"tokenrelay/internal/pkg/validator"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgUnauthenticated    = "User not authenticated"
	msgRenewalMissing     = "Renewal token not found, login again"
	msgRenewalNotFound    = "No user found, try logging in again"
	msgProtected          = "Protected content!"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(r gin.IRouter) {
	r.POST("/login", h.Login)
	r.POST("/refresh", h.Refresh)
}

// RegisterProtectedRoutes expects a group that already runs the access guard.
func (h *Handler) RegisterProtectedRoutes(protected gin.IRouter) {
	protected.POST("/protected", h.Protected)
	protected.GET("/protected", h.Protected)
	protected.POST("/logout", h.Logout)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fields := validator.Fields(err); fields != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body", fields)
			return
		}
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.internalError(c, err)
		return
	}

	switch res.Outcome {
	case LoginSucceeded:
		response.Success(c, http.StatusOK, gin.H{
			"accessToken":  res.AccessToken,
			"renewalToken": res.RenewalToken,
		})
	default:
		response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, msgInvalidCredentials)
	}
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	res, err := h.service.Renew(c.Request.Context(), req.RenewalToken)
	if err != nil {
		h.internalError(c, err)
		return
	}

	switch res.Outcome {
	case RenewalSucceeded:
		response.Success(c, http.StatusOK, gin.H{"accessToken": res.AccessToken})
	case RenewalMissing:
		response.Error(c, http.StatusBadRequest, response.CodeRenewalTokenMissing, msgRenewalMissing)
	default:
		response.Error(c, http.StatusForbidden, response.CodeRenewalTokenNotFound, msgRenewalNotFound)
	}
}

// Protected is the sample resource behind the access guard. It echoes the
// user snapshot carried by the access token.
func (h *Handler) Protected(c *gin.Context) {
	user, ok := UserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, msgUnauthenticated)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": msgProtected,
		"user":    user,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	user, ok := UserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, msgUnauthenticated)
		return
	}

	if err := h.service.Logout(c.Request.Context(), user.ID); err != nil {
		h.internalError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, ErrStoreUnavailable) {
		response.Error(c, http.StatusInternalServerError, response.CodeStoreUnavailable, "Internal Server Error")
		return
	}
	response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal Server Error")
}
