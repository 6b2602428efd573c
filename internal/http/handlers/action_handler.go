// Homepage endpoints.
//
// The site root keeps the single-endpoint protocol existing pages use:
//   - POST / with form field action=save_tag (and text) or action=get_tag_count
//   - GET  /?sitemap or /?action=sitemap serves the sitemap
//   - GET  / otherwise returns the homepage data (tag cloud and count)
//
// Responses on POST / always use status 200; clients read the success and
// rate_limited fields instead.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-tag-backend/internal/http/middleware"
)

// Form action values accepted on POST /.
const (
	ActionSaveTag     = "save_tag"
	ActionGetTagCount = "get_tag_count"
	ActionSitemap     = "sitemap"
)

// Action godoc
// @ID          homeAction
// @Summary     Homepage action dispatch
// @Description Form-encoded actions used by the homepage: save_tag (with text) or get_tag_count. Known actions always answer 200.
// @Tags        Homepage
// @Accept      x-www-form-urlencoded
// @Produce     json
// @Param       action  formData  string  true   "save_tag or get_tag_count"  Enums(save_tag, get_tag_count)
// @Param       text    formData  string  false  "Tag text for save_tag"
// @Success     200  {object}  handlers.SaveTagResponse  "save_tag result; get_tag_count returns handlers.CountResponse"
// @Failure     400  {object}  handlers.ErrorResponse    "Missing or unknown action"
// @Router      / [post]
func (h *Handlers) Action(c *gin.Context) {
	switch action := c.PostForm("action"); action {
	case ActionSaveTag:
		out := h.tags.Insert(c.Request.Context(), c.PostForm("text"), middleware.GetClientIdentity(c))
		_, body := saveTagResult(out)
		ok(c, http.StatusOK, body)
	case ActionGetTagCount:
		ok(c, http.StatusOK, CountResponse{Count: h.tags.Count(c.Request.Context())})
	case "":
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "missing action")
	default:
		fail(c, http.StatusBadRequest, ErrCodeUnknownAction, "unknown action")
	}
}

// Home godoc
// @ID          home
// @Summary     Homepage data or sitemap
// @Description Returns the tag cloud and total count. With ?sitemap or ?action=sitemap, returns the sitemap XML instead.
// @Tags        Homepage
// @Produce     json
// @Produce     xml
// @Param       sitemap  query  string  false  "Any value selects the sitemap"
// @Param       action   query  string  false  "sitemap selects the sitemap"
// @Success     200  {object}  handlers.CloudResponse
// @Router      / [get]
func (h *Handlers) Home(c *gin.Context) {
	if _, has := c.GetQuery("sitemap"); has || c.Query("action") == ActionSitemap {
		h.Sitemap(c)
		return
	}
	ok(c, http.StatusOK, h.cloud(c, h.opt.CloudSize))
}
