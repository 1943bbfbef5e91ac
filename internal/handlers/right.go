// internal/handlers/right.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/services"
	"github.com/greenbourne277/zbwcloud/internal/utils"
)

type RightHandler struct {
	rightService *services.RightService
}

func NewRightHandler(rightService *services.RightService) *RightHandler {
	return &RightHandler{rightService: rightService}
}

// POST /rights
func (h *RightHandler) CreateRight(c *gin.Context) {
	var r models.ItemRight
	if err := c.ShouldBindJSON(&r); err != nil {
		utils.BadRequestResponse(c, "invalid right payload", err.Error())
		return
	}

	rightID, err := h.rightService.InsertRight(&r)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"right_id": rightID, "right": r})
}

// PUT /rights
func (h *RightHandler) UpsertRight(c *gin.Context) {
	var r models.ItemRight
	if err := c.ShouldBindJSON(&r); err != nil {
		utils.BadRequestResponse(c, "invalid right payload", err.Error())
		return
	}

	if err := h.rightService.UpsertRight(&r); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"right": r})
}

// GET /rights/:id
func (h *RightHandler) GetRight(c *gin.Context) {
	r, err := h.rightService.GetRight(c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"right": r})
}

// DELETE /rights/:id
func (h *RightHandler) DeleteRight(c *gin.Context) {
	if err := h.rightService.DeleteRight(c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": c.Param("id")})
}

// GET /templates
func (h *RightHandler) ListTemplates(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	ts, err := h.rightService.ListTemplates(params.Limit, params.Offset())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"templates": ts})
}
