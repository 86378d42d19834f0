package utils

import (
	"net"

	"github.com/gin-gonic/gin"
)

// ExtractClientIP returns the caller's IP. X-Forwarded-For and X-Real-IP are
// honoured only when the socket peer is one of the engine's trusted proxies,
// so a direct client cannot pick its own address.
func ExtractClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); isValidIP(ip) {
		return ip
	}
	return "127.0.0.1"
}

func isValidIP(ip string) bool {
	return ip != "" && net.ParseIP(ip) != nil
}
