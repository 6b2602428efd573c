// Package handlers provides HTTP handler implementations for the public API.
//
// Handlers are transport-thin: they bind input, resolve the caller identity,
// call the tag services and translate outcomes into HTTP responses.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-tag-backend/internal/domain"
	"github.com/tbourn/go-tag-backend/internal/http/middleware"
	"github.com/tbourn/go-tag-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// TagService is the tag write path and read views consumed by handlers.
type TagService interface {
	// Insert submits raw text for identity and never fails outright.
	Insert(ctx context.Context, rawText, identity string) domain.InsertOutcome
	// Count returns the number of stored tags (0 when degraded).
	Count(ctx context.Context) int64
	// Sample returns up to n random tag texts (empty when degraded).
	Sample(ctx context.Context, n int) []string
}

// SitemapService renders the sitemap document.
type SitemapService interface {
	Export(ctx context.Context, baseURL string) ([]byte, error)
}

// TagStats reports the values the sitemap ETag is derived from.
type TagStats interface {
	TagsStats(ctx context.Context) (count int64, newest *time.Time, err error)
}

// ReadinessChecker reports whether the store can serve requests.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

//
// Handler wiring
//

// Options tunes handler behavior.
type Options struct {
	// BaseURL overrides the public homepage URL used in the sitemap and tag
	// links. Empty means derive it from the request.
	BaseURL string
	// CloudSize is the tag cloud size when n is absent or invalid.
	CloudSize int
	// CloudMax caps the n parameter of the tag cloud.
	CloudMax int
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	tags    TagService
	sitemap SitemapService
	stats   TagStats
	ready   ReadinessChecker
	opt     Options
}

// New constructs Handlers. stats and ready may be nil: the sitemap is then
// served without an ETag and readiness always succeeds.
func New(tags TagService, sitemap SitemapService, stats TagStats, ready ReadinessChecker, opt Options) *Handlers {
	if opt.CloudMax <= 0 {
		opt.CloudMax = 100
	}
	if opt.CloudSize <= 0 {
		opt.CloudSize = defaultCloudSize
	}
	if opt.CloudSize > opt.CloudMax {
		opt.CloudSize = opt.CloudMax
	}
	return &Handlers{tags: tags, sitemap: sitemap, stats: stats, ready: ready, opt: opt}
}

//
// DTOs
//

// SaveTagRequest is the payload for saving a tag, as JSON or form fields.
type SaveTagRequest struct {
	Text string `json:"text" form:"text" example:"hello world"`
}

// SaveTagResponse is the result of a tag write attempt.
type SaveTagResponse struct {
	Success     bool   `json:"success" example:"true"`
	Message     string `json:"message" example:"Tag saved to database"`
	Tag         string `json:"tag,omitempty" example:"hello world"`
	Duplicate   bool   `json:"duplicate,omitempty" example:"false"`
	Remaining   *int   `json:"remaining,omitempty" example:"19"`
	RateLimited bool   `json:"rate_limited,omitempty" example:"false"`
}

// CountResponse carries the number of stored tags.
type CountResponse struct {
	Count int64 `json:"count" example:"20"`
}

// CloudTag is one entry of the tag cloud.
type CloudTag struct {
	Text string `json:"text" example:"password123"`
	Link string `json:"link" example:"?txt=password123&nosave=1"`
}

// CloudResponse is a random sample of tags plus the total stored count.
type CloudResponse struct {
	Tags  []CloudTag `json:"tags"`
	Count int64      `json:"count" example:"20"`
}

//
// Helpers
//

// saveTagResult maps an insert outcome to its HTTP status and body.
func saveTagResult(out domain.InsertOutcome) (int, SaveTagResponse) {
	switch o := out.(type) {
	case domain.Created:
		rem := o.Remaining
		return http.StatusCreated, SaveTagResponse{Success: true, Message: services.MsgTagSaved, Tag: o.Tag, Remaining: &rem}
	case domain.Duplicate:
		rem := o.Remaining
		return http.StatusOK, SaveTagResponse{Success: true, Message: services.MsgTagExists, Tag: o.Tag, Duplicate: true, Remaining: &rem}
	case domain.Invalid:
		return http.StatusBadRequest, SaveTagResponse{Message: services.MsgInvalidInput}
	case domain.RateLimited:
		return http.StatusTooManyRequests, SaveTagResponse{Message: o.Message, RateLimited: true}
	default:
		return http.StatusInternalServerError, SaveTagResponse{Message: services.MsgDatabaseError}
	}
}

// buildCloud splits each sampled "text|link" payload. Entries without a link
// point back at the homepage with the text preloaded and saving disabled; a
// relative "?..." link gets nosave=1 appended.
func buildCloud(sample []string) []CloudTag {
	out := make([]CloudTag, 0, len(sample))
	for _, raw := range sample {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		text, link := domain.SplitTagLink(raw)
		if text == "" {
			continue
		}
		switch {
		case link == "":
			link = services.TagURL("", text)
		case link[0] == '?':
			link += "&nosave=1"
		}
		out = append(out, CloudTag{Text: text, Link: link})
	}
	return out
}

// baseURL returns the configured homepage URL or scheme://host/ of the request.
// The request path is dropped: sitemap requests arrive on /sitemap.xml or /,
// and tag links always target the homepage at /. Deployments serving the
// homepage under another path set SITE_BASE_URL.
func (h *Handlers) baseURL(c *gin.Context) string {
	if h.opt.BaseURL != "" {
		return h.opt.BaseURL
	}
	return middleware.RequestScheme(c.Request) + "://" + c.Request.Host + "/"
}
