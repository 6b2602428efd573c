// Tag HTTP handlers.
//
// This file exposes the JSON API for tags:
//   - POST /tags          (save a tag; JSON or form body)
//   - GET  /tags/count    (number of stored tags)
//   - GET  /tags/cloud    (random sample for the tag cloud)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-tag-backend/internal/http/middleware"
	"github.com/tbourn/go-tag-backend/internal/utils"
)

const defaultCloudSize = 10

// SaveTag godoc
// @ID          saveTag
// @Summary     Save a tag
// @Description Trims and truncates the text to 30 characters and stores it once. Each accepted attempt, duplicates included, consumes one unit of the caller's quota (20 per minute).
// @Tags        Tags
// @Accept      json
// @Accept      x-www-form-urlencoded
// @Produce     json
//
// @Param       body  body  handlers.SaveTagRequest  true  "Tag payload"
//
// @Success     201  {object}  handlers.SaveTagResponse  "Created"
// @Success     200  {object}  handlers.SaveTagResponse  "Already exists"
// @Failure     400  {object}  handlers.SaveTagResponse  "Invalid input"
// @Failure     429  {object}  handlers.SaveTagResponse  "Quota exceeded"
// @Failure     500  {object}  handlers.SaveTagResponse  "Database error"
// @Router      /api/v1/tags [post]
func (h *Handlers) SaveTag(c *gin.Context) {
	var req SaveTagRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	out := h.tags.Insert(c.Request.Context(), req.Text, middleware.GetClientIdentity(c))
	status, body := saveTagResult(out)
	ok(c, status, body)
}

// CountTags godoc
// @ID          countTags
// @Summary     Count stored tags
// @Description Returns the number of stored tags; 0 while the store is unavailable.
// @Tags        Tags
// @Produce     json
// @Success     200  {object}  handlers.CountResponse
// @Router      /api/v1/tags/count [get]
func (h *Handlers) CountTags(c *gin.Context) {
	ok(c, http.StatusOK, CountResponse{Count: h.tags.Count(c.Request.Context())})
}

// TagCloud godoc
// @ID          tagCloud
// @Summary     Random tag sample
// @Description Returns up to n random tags with their links, plus the total tag count.
// @Tags        Tags
// @Produce     json
// @Param       n  query  int  false  "Sample size"  minimum(1) maximum(100) default(10)
// @Success     200  {object}  handlers.CloudResponse
// @Router      /api/v1/tags/cloud [get]
func (h *Handlers) TagCloud(c *gin.Context) {
	ok(c, http.StatusOK, h.cloud(c, utils.AtoiDefault(c.Query("n"), h.opt.CloudSize)))
}

func (h *Handlers) cloud(c *gin.Context, n int) CloudResponse {
	n = utils.ClampInt(n, 1, h.opt.CloudMax, h.opt.CloudSize)
	ctx := c.Request.Context()
	return CloudResponse{
		Tags:  buildCloud(h.tags.Sample(ctx, n)),
		Count: h.tags.Count(ctx),
	}
}
