// Package services – SitemapService
//
// This file renders the sitemaps.org urlset for the site: the homepage entry
// followed by one entry per stored tag, newest first. Tag entries point at the
// homepage with the tag preloaded and saving disabled.
package services

import (
	"bytes"
	"context"
	"encoding/xml"
	"net/url"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-tag-backend/internal/domain"
	"github.com/tbourn/go-tag-backend/internal/observability"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// TagLister lists every stored tag, newest first.
type TagLister interface {
	ListAllTags(ctx context.Context) ([]domain.Tag, error)
}

// SitemapService exports the tag store as a sitemap document.
type SitemapService struct {
	Store TagLister
}

// NewSitemapService constructs a SitemapService.
func NewSitemapService(store TagLister) *SitemapService {
	return &SitemapService{Store: store}
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// TagURL is the homepage URL preloading text with saving disabled.
func TagURL(baseURL, text string) string {
	return baseURL + "?txt=" + url.QueryEscape(text) + "&nosave=1"
}

// Export renders the sitemap for baseURL (scheme, host and path, no query).
//
// When the store cannot be listed the document degrades to the homepage
// entry alone; the error is logged, not returned. The returned error covers
// encoding failures only.
func (s *SitemapService) Export(ctx context.Context, baseURL string) ([]byte, error) {
	ctx, span := observability.Tracer("services/SitemapService").Start(ctx, "Export")
	defer span.End()

	set := urlSet{
		XMLNS: sitemapNS,
		URLs: []sitemapURL{{
			Loc:        baseURL,
			ChangeFreq: "daily",
			Priority:   "1.0",
		}},
	}

	tags, err := s.Store.ListAllTags(ctx)
	if err != nil {
		loggerFrom(ctx).Error().Err(err).Msg("sitemap: list tags failed")
		span.RecordError(err)
		tags = nil
	}
	for _, t := range tags {
		u := sitemapURL{
			Loc:        TagURL(baseURL, t.Text),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		}
		if !t.CreatedAt.IsZero() {
			u.LastMod = t.CreatedAt.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}
	span.SetAttributes(attribute.Int("sitemap.urls", len(set.URLs)))

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
