// internal/handlers/bookmark.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/services"
	"github.com/greenbourne277/zbwcloud/internal/utils"
)

type BookmarkHandler struct {
	bookmarkService *services.BookmarkService
}

func NewBookmarkHandler(bookmarkService *services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarkService: bookmarkService}
}

// POST /bookmarks
func (h *BookmarkHandler) CreateBookmark(c *gin.Context) {
	var b models.Bookmark
	if err := c.ShouldBindJSON(&b); err != nil {
		utils.BadRequestResponse(c, "invalid bookmark payload", err.Error())
		return
	}

	id, err := h.bookmarkService.InsertBookmark(&b)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"bookmark_id": id, "bookmark": b})
}

// PUT /bookmarks/:id
func (h *BookmarkHandler) UpdateBookmark(c *gin.Context) {
	id, err := parseBookmarkID(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	var b models.Bookmark
	if err := c.ShouldBindJSON(&b); err != nil {
		utils.BadRequestResponse(c, "invalid bookmark payload", err.Error())
		return
	}
	b.BookmarkID = id

	if err := h.bookmarkService.UpdateBookmark(&b); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"bookmark": b})
}

// GET /bookmarks/:id
func (h *BookmarkHandler) GetBookmark(c *gin.Context) {
	id, err := parseBookmarkID(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	b, err := h.bookmarkService.GetBookmark(id)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"bookmark": b})
}

// GET /bookmarks
func (h *BookmarkHandler) ListBookmarks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	bs, err := h.bookmarkService.ListBookmarks(params.Limit, params.Offset())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"bookmarks": bs})
}

// DELETE /bookmarks/:id
func (h *BookmarkHandler) DeleteBookmark(c *gin.Context) {
	id, err := parseBookmarkID(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	if err := h.bookmarkService.DeleteBookmark(id); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": id})
}

func parseBookmarkID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
