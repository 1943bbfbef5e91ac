// internal/handlers/template.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/greenbourne277/zbwcloud/internal/services"
	"github.com/greenbourne277/zbwcloud/internal/utils"
)

type TemplateHandler struct {
	templateService *services.TemplateService
	bookmarkService *services.BookmarkService
}

type applyTemplatesRequest struct {
	RightIDs []string `json:"right_ids" validate:"required,min=1"`
	All      bool     `json:"all"`
}

type replaceBookmarksRequest struct {
	BookmarkIDs []int64 `json:"bookmark_ids"`
}

func NewTemplateHandler(templateService *services.TemplateService, bookmarkService *services.BookmarkService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		bookmarkService: bookmarkService,
	}
}

// POST /templates/:id/apply
func (h *TemplateHandler) ApplyTemplate(c *gin.Context) {
	result, err := h.templateService.ApplyTemplate(c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// POST /templates/apply
func (h *TemplateHandler) ApplyTemplates(c *gin.Context) {
	var req applyTemplatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid apply payload", err.Error())
		return
	}

	if req.All {
		results, err := h.templateService.ApplyAllTemplates()
		if err != nil {
			utils.ServiceErrorResponse(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"results": results})
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	results, err := h.templateService.ApplyTemplates(req.RightIDs)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"results": results})
}

// GET /templates/:id/bookmarks
func (h *TemplateHandler) GetTemplateBookmarks(c *gin.Context) {
	bs, err := h.bookmarkService.BookmarksByTemplate(c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"bookmarks": bs})
}

// PUT /templates/:id/bookmarks
func (h *TemplateHandler) ReplaceTemplateBookmarks(c *gin.Context) {
	var req replaceBookmarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid bookmark list", err.Error())
		return
	}

	if err := h.bookmarkService.ReplaceTemplateBookmarks(c.Param("id"), req.BookmarkIDs); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"right_id": c.Param("id"), "bookmark_ids": req.BookmarkIDs})
}

// POST /templates/:id/bookmarks/:bookmarkId
func (h *TemplateHandler) AttachBookmark(c *gin.Context) {
	bookmarkID, err := parseBookmarkID64(c, "bookmarkId")
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	if err := h.bookmarkService.AttachTemplate(bookmarkID, c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"right_id": c.Param("id"), "bookmark_id": bookmarkID})
}

// DELETE /templates/:id/bookmarks/:bookmarkId
func (h *TemplateHandler) DetachBookmark(c *gin.Context) {
	bookmarkID, err := parseBookmarkID64(c, "bookmarkId")
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	if err := h.bookmarkService.DetachTemplate(bookmarkID, c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"detached": true})
}
