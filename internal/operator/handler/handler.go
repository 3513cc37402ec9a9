package handler

import (
	"net/http"
	"time"

	"github.com/mygitvirtual012322/instaspy/internal/logger"
	"github.com/mygitvirtual012322/instaspy/internal/operator"
	"github.com/mygitvirtual012322/instaspy/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionLifetime = 24 * time.Hour

type Handler struct {
	credentials  *operator.Credentials
	sessionStore session.Store
}

func NewHandler(credentials *operator.Credentials, sessionStore session.Store) *Handler {
	return &Handler{
		credentials:  credentials,
		sessionStore: sessionStore,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/admin/login", h.Login)
	r.POST("/admin/logout", h.Logout)
}

type loginRequest struct {
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.credentials.Verify(req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	now := time.Now()
	expiresAt := now.Add(sessionLifetime)

	if err := h.sessionStore.Create(
		c.Request.Context(),
		session.Session{
			SessionID: sessionID,
			Operator:  "admin",
			CreatedAt: now,
			ExpiresAt: expiresAt,
		},
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	session.SetCookie(
		c.Writer,
		sessionID,
		expiresAt,
		session.CookieOptions{
			SameSite: http.SameSiteLaxMode,
		},
	)

	logger.Info("operator login", map[string]any{
		"ip": c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"status": "logged_in"})
}

func (h *Handler) Logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		// best-effort removal from the store
		_ = h.sessionStore.Delete(c.Request.Context(), cookie.Value)
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		SameSite: http.SameSiteLaxMode,
	})

	c.Status(http.StatusNoContent)
}
