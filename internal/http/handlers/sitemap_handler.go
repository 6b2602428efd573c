// Sitemap HTTP handler.
//
// GET /sitemap.xml (and GET /?sitemap, /?action=sitemap) serve the sitemaps.org
// document for the site. A weak ETag derived from the tag count, the newest
// creation time and the base URL lets crawlers revalidate with If-None-Match.
package handlers

import (
	"fmt"
	"hash/crc32"
	"net/http"

	"github.com/gin-gonic/gin"
)

const sitemapContentType = "application/xml; charset=UTF-8"

// Sitemap godoc
// @ID          sitemap
// @Summary     Sitemap
// @Description Sitemap listing the homepage and one preview URL per stored tag, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Sitemap
// @Produce     xml
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"  example(W/\"sitemap:20:1714564800:1a2b3c4d\")
// @Success     200  {string}  string  "Sitemap XML"
// @Header      200  {string}  ETag    "Weak ETag for the current tag set"
// @Success     304  {string}  string  "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse  "Encoding error"
// @Router      /sitemap.xml [get]
func (h *Handlers) Sitemap(c *gin.Context) {
	ctx := c.Request.Context()
	base := h.baseURL(c)

	// ETag pre-check (best effort).
	if h.stats != nil {
		count, newest, err := h.stats.TagsStats(ctx)
		if err == nil {
			var ts int64
			if newest != nil {
				ts = newest.Unix()
			}
			etag := fmt.Sprintf(`W/"sitemap:%d:%d:%08x"`, count, ts, crc32.ChecksumIEEE([]byte(base)))
			c.Header("ETag", etag)
			c.Header("Cache-Control", "no-cache")
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	doc, err := h.sitemap.Export(ctx, base)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeSitemapFailed, "sitemap generation failed")
		return
	}
	c.Data(http.StatusOK, sitemapContentType, doc)
}
