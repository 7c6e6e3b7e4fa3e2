package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/juanis2112/repoexplorer/pkg/config"
)

const sessionCookie = "session"

// SessionMiddleware extracts the dashboard session id from a signed cookie
// and stores it in the request context. A missing or tampered cookie simply
// yields an empty id and a fresh session downstream.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("session_id", getSessionID(c))
		c.Next()
	}
}

// getSessionID extracts and validates the session id from the cookie
func getSessionID(c *gin.Context) string {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil {
		return ""
	}

	// Split cookie value (signature.data)
	parts := strings.Split(cookie, ".")
	if len(parts) != 2 {
		return ""
	}

	signature, data := parts[0], parts[1]
	if !verifySignature(data, signature) {
		return ""
	}

	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// SetSessionID writes the signed session cookie
func SetSessionID(c *gin.Context, sessionID string) {
	data := base64.URLEncoding.EncodeToString([]byte(sessionID))
	signature := createSignature(data)
	c.SetCookie(sessionCookie, signature+"."+data, 86400, "/", "", false, true)
}

// GetSessionID retrieves the session id from context
func GetSessionID(c *gin.Context) string {
	id, exists := c.Get("session_id")
	if !exists {
		return ""
	}
	if sessionID, ok := id.(string); ok {
		return sessionID
	}
	return ""
}

// createSignature creates HMAC signature for data
func createSignature(data string) string {
	h := hmac.New(sha256.New, []byte(config.AppConfig.Session.Secret))
	h.Write([]byte(data))
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}

// verifySignature verifies HMAC signature
func verifySignature(data, signature string) bool {
	expectedSignature := createSignature(data)
	return hmac.Equal([]byte(signature), []byte(expectedSignature))
}
