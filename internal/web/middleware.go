package web

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"

	"github.com/andGarc/portfolio/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// hashIP hashes an address with the per-process salt (consistent per IP).
func (s *Server) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + s.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

var untrackedPrefixes = []string{"/static/", "/images/", "/favicon", "/privacy", "/metrics", "/healthz"}

// visitorTrackingMiddleware records page views with hashed IPs, skipping
// assets and honouring Do Not Track.
func (s *Server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		visit := store.Visit{
			HashedIP:  s.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: s.now(),
		}
		go func() {
			if err := s.visits.RecordVisit(context.Background(), visit); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}
