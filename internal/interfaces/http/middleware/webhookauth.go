package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ticketsync/ticketsync/internal/shared/logger"
	"github.com/ticketsync/ticketsync/internal/shared/utils"
)

// PasswordVerifier compares a password against a stored hash.
type PasswordVerifier interface {
	Verify(password, hash string) error
}

// WebhookAuthMiddleware checks the basic credentials configured on the
// tracker's service hook subscription.
type WebhookAuthMiddleware struct {
	username     string
	passwordHash string
	allowOpen    bool
	verifier     PasswordVerifier
	logger       logger.Interface
}

// NewWebhookAuthMiddleware builds the webhook guard. allowOpen lets
// requests through while no password hash is configured and is meant for
// debug and test servers only.
func NewWebhookAuthMiddleware(username, passwordHash string, allowOpen bool, verifier PasswordVerifier, logger logger.Interface) *WebhookAuthMiddleware {
	return &WebhookAuthMiddleware{
		username:     username,
		passwordHash: passwordHash,
		allowOpen:    allowOpen,
		verifier:     verifier,
		logger:       logger,
	}
}

// Enabled reports whether a password hash is configured.
func (m *WebhookAuthMiddleware) Enabled() bool {
	return m.passwordHash != ""
}

func (m *WebhookAuthMiddleware) RequireBasicAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			if m.allowOpen {
				c.Next()
				return
			}
			m.logger.Errorw("webhook rejected: webhook.password_hash is not configured",
				"path", c.Request.URL.Path, "client_ip", c.ClientIP())
			utils.ErrorResponse(c, http.StatusUnauthorized, "webhook authentication is not configured")
			c.Abort()
			return
		}

		user, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="webhooks"`)
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing webhook credentials")
			c.Abort()
			return
		}

		userMatches := subtle.ConstantTimeCompare([]byte(user), []byte(m.username)) == 1
		if err := m.verifier.Verify(password, m.passwordHash); err != nil || !userMatches {
			m.logger.Warnw("webhook credentials rejected", "path", c.Request.URL.Path, "client_ip", c.ClientIP())
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid webhook credentials")
			c.Abort()
			return
		}

		c.Next()
	}
}
