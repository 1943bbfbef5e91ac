// internal/handlers/metadata.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/services"
	"github.com/greenbourne277/zbwcloud/internal/utils"
)

type MetadataHandler struct {
	metadataService *services.MetadataService
}

func NewMetadataHandler(metadataService *services.MetadataService) *MetadataHandler {
	return &MetadataHandler{metadataService: metadataService}
}

// POST /metadata
func (h *MetadataHandler) CreateMetadata(c *gin.Context) {
	var m models.ItemMetadata
	if err := c.ShouldBindJSON(&m); err != nil {
		utils.BadRequestResponse(c, "invalid metadata payload", err.Error())
		return
	}

	if err := h.metadataService.InsertMetadata(&m); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"metadata": m})
}

// PUT /metadata
func (h *MetadataHandler) UpsertMetadata(c *gin.Context) {
	var m models.ItemMetadata
	if err := c.ShouldBindJSON(&m); err != nil {
		utils.BadRequestResponse(c, "invalid metadata payload", err.Error())
		return
	}

	if err := h.metadataService.UpsertMetadata(&m); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"metadata": m})
}

// PUT /metadata/batch
func (h *MetadataHandler) UpsertMetadataBatch(c *gin.Context) {
	var ms []models.ItemMetadata
	if err := c.ShouldBindJSON(&ms); err != nil {
		utils.BadRequestResponse(c, "invalid metadata payload", err.Error())
		return
	}

	if err := h.metadataService.UpsertMetadataBatch(ms); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"upserted": len(ms)})
}

// GET /metadata/:id
func (h *MetadataHandler) GetMetadata(c *gin.Context) {
	m, err := h.metadataService.GetMetadata(c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"metadata": m})
}

// GET /metadata
func (h *MetadataHandler) ListMetadata(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	ms, err := h.metadataService.ListMetadata(params.Limit, params.Offset())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	total, err := h.metadataService.CountMetadata()
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(ms, total, params))
}

// DELETE /metadata/:id
func (h *MetadataHandler) DeleteMetadata(c *gin.Context) {
	if err := h.metadataService.DeleteMetadata(c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": c.Param("id")})
}
