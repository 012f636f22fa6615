package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const signatureHeader = "X-Hub-Signature-256"

// MetaSignature rejects webhook callbacks whose X-Hub-Signature-256 header is not the
// HMAC-SHA256 of the body under appSecret. The body is restored for the next handler.
func MetaSignature(appSecret string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := []byte(appSecret)

	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		given, ok := strings.CutPrefix(c.GetHeader(signatureHeader), "sha256=")
		sum, decodeErr := hex.DecodeString(given)
		if !ok || decodeErr != nil || !hmac.Equal(sum, sign(key, body)) {
			logger.Warn("webhook signature mismatch", zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
		c.Next()
	}
}

func sign(key, body []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(body)
	return mac.Sum(nil)
}
