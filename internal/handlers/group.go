// internal/handlers/group.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/services"
	"github.com/greenbourne277/zbwcloud/internal/utils"
)

type GroupHandler struct {
	groupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// POST /groups
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var g models.RightGroup
	if err := c.ShouldBindJSON(&g); err != nil {
		utils.BadRequestResponse(c, "invalid group payload", err.Error())
		return
	}

	if err := h.groupService.InsertGroup(&g); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"group": g})
}

// PUT /groups/:id
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	var g models.RightGroup
	if err := c.ShouldBindJSON(&g); err != nil {
		utils.BadRequestResponse(c, "invalid group payload", err.Error())
		return
	}
	g.GroupID = c.Param("id")

	if err := h.groupService.UpdateGroup(&g); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"group": g})
}

// GET /groups/:id
func (h *GroupHandler) GetGroup(c *gin.Context) {
	g, err := h.groupService.GetGroup(c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"group": g})
}

// GET /groups
func (h *GroupHandler) ListGroups(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	gs, err := h.groupService.ListGroups(params.Limit, params.Offset())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"groups": gs})
}

// DELETE /groups/:id
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	if err := h.groupService.DeleteGroup(c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": c.Param("id")})
}
