// internal/handlers/item.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/greenbourne277/zbwcloud/internal/services"
	"github.com/greenbourne277/zbwcloud/internal/utils"
)

type ItemHandler struct {
	itemService *services.ItemService
}

type linkItemRequest struct {
	MetadataID            string `json:"metadata_id" validate:"required"`
	RightID               string `json:"right_id" validate:"required"`
	DeleteRightOnConflict bool   `json:"delete_right_on_conflict"`
}

func NewItemHandler(itemService *services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// POST /items
func (h *ItemHandler) LinkItem(c *gin.Context) {
	var req linkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid item payload", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.itemService.LinkItem(req.MetadataID, req.RightID, req.DeleteRightOnConflict); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"metadata_id": req.MetadataID,
		"right_id":    req.RightID,
	})
}

// GET /items/:metadataId
func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.itemService.GetItem(c.Param("metadataId"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"item": item})
}

// DELETE /items/:metadataId/:rightId
func (h *ItemHandler) UnlinkItem(c *gin.Context) {
	if err := h.itemService.UnlinkItem(c.Param("metadataId"), c.Param("rightId")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"unlinked": true})
}

// DELETE /items/metadata/:metadataId
func (h *ItemHandler) UnlinkByMetadata(c *gin.Context) {
	if err := h.itemService.UnlinkByMetadata(c.Param("metadataId")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"unlinked": true})
}

// DELETE /items/right/:rightId
func (h *ItemHandler) UnlinkByRight(c *gin.Context) {
	if err := h.itemService.UnlinkByRight(c.Param("rightId")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"unlinked": true})
}

// GET /items/right/:rightId/count
func (h *ItemHandler) CountByRight(c *gin.Context) {
	count, err := h.itemService.CountLinksByRight(c.Param("rightId"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"count": count})
}
