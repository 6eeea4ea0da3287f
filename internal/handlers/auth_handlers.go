package handlers

import (
	"errors"
	"net/http"
	"time"

	"admin-console/internal/events"
	"admin-console/internal/middleware"
	"admin-console/internal/session"

	"github.com/gin-gonic/gin"
)

// LoginRequest is the console login form.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login authenticates an operator and sets the session cookie
// @Summary Log in
// @Description Verify credentials and start a console session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(middleware.NewBadRequestError("Email and password are required"))
		return
	}

	identity, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrBadCredentials) {
			c.Error(middleware.NewUnauthorizedError("Invalid email or password"))
			return
		}
		c.Error(err)
		return
	}

	token, claims, err := h.sessions.Issue(identity.User, identity.BackendToken)
	if err != nil {
		c.Error(err)
		return
	}
	h.sessions.SetCookie(c.Writer, token, claims.ExpiresAt.Time)

	c.Set("user", identity.User)
	h.record(c, "session", events.ActionLoggedIn, identity.User.ID, nil)
	respond(c, http.StatusOK, gin.H{
		"user":       identity.User,
		"expires_at": claims.ExpiresAt.Time.UTC().Format(time.RFC3339),
	}, "Logged in")
}

// Logout ends the session
// @Summary Log out
// @Description Revoke the current session and clear its cookie
// @Tags auth
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if ok {
		if err := h.sessions.Revoke(c.Request.Context(), claims); err != nil {
			h.logger.WithError(err).Warn("failed to revoke session")
		}
		h.workspaces.Drop(claims.ID)
		h.record(c, "session", events.ActionLoggedOut, claims.User.ID, nil)
	}
	h.sessions.ClearCookie(c.Writer)
	respond(c, http.StatusOK, nil, "Logged out")
}

// Me returns the current operator
// @Summary Current operator
// @Tags auth
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	respond(c, http.StatusOK, user, "")
}
