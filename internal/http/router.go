// Package httpapi wires the HTTP transport (Gin) to the tag services,
// middleware and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, client identity, logging/redaction, panic
// recovery, compression, metrics, edge throttling, CORS and security headers.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-tag-backend/docs"
	"github.com/tbourn/go-tag-backend/internal/config"
	"github.com/tbourn/go-tag-backend/internal/http/handlers"
	"github.com/tbourn/go-tag-backend/internal/http/middleware"
	"github.com/tbourn/go-tag-backend/internal/repo"
	"github.com/tbourn/go-tag-backend/internal/services"
)

var corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}

var corsHeaders = []string{"Origin", "Content-Type", "Accept"}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and builds the tag services on top of store.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. ClientIdentity: resolve the caller once for logs, throttling and quotas
//  4. Access logging with tag text scrubbed (RedactingLogger, or the compact
//     Logger in debug mode); both attach the request-scoped logger
//  5. Recovery: capture panics after logger
//  6. Body size limiter
//  7. Metrics
//  8. Edge token bucket per client identity
//  9. CORS and security headers
//  10. gzip
func RegisterRoutes(r *gin.Engine, store *repo.Store, cfg config.Config) error {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.ClientIdentity())
	if cfg.GinMode == gin.DebugMode {
		r.Use(middleware.Logger())
	} else {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))
	}
	r.Use(middleware.Recovery())
	if cfg.MaxBodyBytes > 0 {
		r.Use(limitBody(cfg.MaxBodyBytes))
	}

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.RateRPS > 0 {
		rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIdentity())
		r.Use(rl.Handler())
	}

	useCORS(r, cfg.CORS.AllowedOrigins)

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Dependency injection: services ← store
	limiter, err := services.NewRateLimiter(store, cfg.QuotaWindow, cfg.QuotaMax)
	if err != nil {
		return err
	}
	tagSvc := services.NewTagService(store, limiter)
	tagSvc.MaxRunes = cfg.TagMaxRunes
	tagSvc.SampleSize = cfg.TagSampleSize

	h := handlers.New(tagSvc, services.NewSitemapService(store), store, store, handlers.Options{
		BaseURL:   cfg.SiteBaseURL,
		CloudSize: cfg.TagSampleSize,
		CloudMax:  cfg.TagCloudMax,
	})

	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = "/"
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Homepage protocol
	r.GET("/", h.Home)
	r.POST("/", h.Action)
	r.GET("/sitemap.xml", h.Sitemap)

	// JSON API
	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(middleware.SecurityHeaders(middleware.SecurityOptions{NoStore: true}))
	{
		api.POST("/tags", h.SaveTag)
		api.GET("/tags/count", h.CountTags)
		api.GET("/tags/cloud", h.TagCloud)
	}
	return nil
}

// useCORS allows every origin when none are configured and otherwise echoes
// allow-listed origins.
func useCORS(r *gin.Engine, origins []string) {
	if len(origins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Retry-After"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
		return
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		c.Next()
	})
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     corsMethods,
		AllowHeaders:     corsHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader. Downstream reads past maxBytes fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
