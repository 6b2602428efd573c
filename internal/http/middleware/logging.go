// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides request correlation, structured access logging and panic
// recovery:
//
//   - RequestID() reuses or generates X-Request-ID and stores it in the Gin
//     context under "requestID".
//   - Logger() emits one access log line per request and attaches a
//     request-scoped zerolog.Logger to both the Gin context ("logger") and the
//     request context, so services can log through zerolog.Ctx(ctx).
//   - Recovery() turns panics into a JSON 500 with the correlation ID.
//
// Recommended order: RequestID, ClientIdentity, Logger, Recovery.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	// maxQueryLogLength caps the number of bytes of the raw query string logged.
	maxQueryLogLength = 2048
)

// RequestID attaches (or propagates) a correlation identifier per request.
// An incoming X-Request-ID is reused; otherwise a UUIDv4 is generated. The ID
// is echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// GetRequestID returns the correlation ID stored by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	v, _ := c.Get(requestIDKey)
	return asString(v)
}

// Logger writes a structured access log for each request.
//
// Fields: request_id, client_id, method, path (route pattern when matched),
// user_agent, query (capped), bytes_in, then status, latency and bytes_out on
// completion. Level is error for 5xx or when gin collected errors, warn for
// 4xx and info otherwise.
//
// Tag text in the txt/text query parameters is masked. Headers are not
// logged; RedactingLogger covers that.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		l := attachRequestLogger(c, func(ctx zerolog.Context) zerolog.Context {
			return ctx.
				Str("method", c.Request.Method).
				Str("path", path).
				Str("user_agent", c.Request.UserAgent()).
				Str("query", truncate(maskQuery(c.Request.URL.RawQuery, defaultMaskParams), maxQueryLogLength)).
				// ContentLength can be -1 if unknown.
				Int64("bytes_in", c.Request.ContentLength)
		})

		c.Next()

		ev := l.With().
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= 500:
			ev.Error().Msg("request")
		case status >= 400:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}
	}
}

// Recovery intercepts panics, logs a stack trace, and returns
// {"request_id", "code": "internal_error", "message"} with status 500 when
// nothing has been written yet.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				rid := GetRequestID(c)
				log.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", rid).
					Msg("panic recovered")

				if !c.Writer.Written() {
					c.Header(requestIDHeader, rid)
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"request_id": rid,
						"code":       "internal_error",
						"message":    "internal server error",
					})
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// attachRequestLogger builds a child of the global logger carrying
// request_id and client_id plus any fields added by with, and stores it in
// both the gin context and the request context so services reach it through
// zerolog.Ctx.
func attachRequestLogger(c *gin.Context, with func(zerolog.Context) zerolog.Context) zerolog.Logger {
	ctx := log.With().
		Str("request_id", GetRequestID(c)).
		Str("client_id", GetClientIdentity(c))
	if with != nil {
		ctx = with(ctx)
	}
	l := ctx.Logger()
	c.Set("logger", &l)
	c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
	return l
}

// LoggerFrom returns the request-scoped zerolog.Logger, or a plain child of the
// global logger when Logger() did not run.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get("logger"); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// truncate caps s at max bytes and appends an ellipsis. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
