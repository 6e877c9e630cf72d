// Package http carries the cross-cutting middleware for the panel API.
package http

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novaray/panel/internal/ratelimit"
	log "github.com/sirupsen/logrus"
)

// AccessLogMiddleware logs one structured line per completed request.
func AccessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"client":   c.ClientIP(),
			"duration": time.Since(start).String(),
		}).Info("request")
	}
}

// CORSMiddleware answers preflight requests and sets the allow headers. An
// empty origin list allows every origin.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimSpace(origin)] = struct{}{}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if allowAll {
				c.Header("Access-Control-Allow-Origin", "*")
			} else if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// TrustedHostMiddleware rejects requests whose Host header is not on the
// allow-list.
func TrustedHostMiddleware(allowedHosts []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedHosts))
	for _, host := range allowedHosts {
		allowed[strings.ToLower(strings.TrimSpace(host))] = struct{}{}
	}
	return func(c *gin.Context) {
		host := c.Request.Host
		if h, _, errSplit := net.SplitHostPort(host); errSplit == nil {
			host = h
		}
		if _, ok := allowed[strings.ToLower(host)]; !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid host header."})
			return
		}
		c.Next()
	}
}

// RateLimitMiddleware enforces the per-client request limit. A nil manager or
// zero limit disables the check.
func RateLimitMiddleware(manager *ratelimit.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil || manager.Limit() <= 0 {
			c.Next()
			return
		}
		result, errAllow := manager.Allow(c.Request.Context(), c.ClientIP())
		if errAllow != nil {
			// Limiter trouble never takes the panel down.
			c.Next()
			return
		}
		if !result.Allowed {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests."})
			return
		}
		c.Next()
	}
}
