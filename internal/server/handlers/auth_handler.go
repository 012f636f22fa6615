package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/server/middleware"
	"github.com/mamadbah2/dairyflow/internal/service/auth"
	"github.com/mamadbah2/dairyflow/internal/session"
)

// AuthHandler proxies account operations to the identity provider.
type AuthHandler struct {
	svc    *auth.Service
	logger *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(svc *auth.Service, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var form auth.SignupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	sess, err := h.svc.Signup(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err, http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var form auth.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	sess, err := h.svc.Login(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err, http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.BearerToken(c.GetHeader("Authorization"))); err != nil {
		respondError(c, h.logger, err, http.StatusBadGateway)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := session.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	c.JSON(http.StatusOK, user)
}
