// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the client identity used to key the tag write quota and
// the edge token bucket. The identity is derived from proxy headers in a fixed
// priority order and falls back to the TCP peer address:
//
//  1. CF-Connecting-IP
//  2. X-Forwarded-For (first comma-separated value, trimmed)
//  3. X-Real-IP
//  4. RemoteAddr with the port stripped
//  5. "0.0.0.0"
//
// Headers are taken at face value. Any client can spoof them, so the identity
// is only as trustworthy as the proxy in front of the service.
package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UnknownIdentity is used when no header or peer address yields an identity.
const UnknownIdentity = "0.0.0.0"

// clientIDKey is the Gin context key under which the resolved identity is stored.
const clientIDKey = "clientID"

// ResolveIdentity returns the client identity for r. It never returns "".
func ResolveIdentity(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); v != "" {
		return v
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if v := strings.TrimSpace(first); v != "" {
			return v
		}
	}
	if v := strings.TrimSpace(r.Header.Get("X-Real-IP")); v != "" {
		return v
	}
	if addr := strings.TrimSpace(r.RemoteAddr); addr != "" {
		if host, _, err := net.SplitHostPort(addr); err == nil {
			if host != "" {
				return host
			}
		} else {
			return addr
		}
	}
	return UnknownIdentity
}

// ClientIdentity resolves the caller identity once per request and stores it
// in the Gin context under "clientID".
func ClientIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIDKey, ResolveIdentity(c.Request))
		c.Next()
	}
}

// GetClientIdentity returns the identity stored by ClientIdentity, resolving
// it from the request when the middleware did not run.
func GetClientIdentity(c *gin.Context) string {
	if v, ok := c.Get(clientIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ResolveIdentity(c.Request)
}
