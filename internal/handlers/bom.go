// internal/handlers/bom.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/services"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/utils"
)

type BOMHandler struct {
	bomService *services.BOMService
}

func NewBOMHandler(bomService *services.BOMService) *BOMHandler {
	return &BOMHandler{bomService: bomService}
}

// POST /api/bom
func (h *BOMHandler) Create(c *gin.Context) {
	var req services.CreateBOMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	bom, err := h.bomService.Create(&req, currentUserID(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "BOM created", bom)
}

// GET /api/bom
func (h *BOMHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	boms, total, err := h.bomService.List(params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "BOMs fetched", utils.CreatePaginationResult(boms, total, params))
}

// GET /api/bom/lookup?code=
func (h *BOMHandler) Lookup(c *gin.Context) {
	result, err := h.bomService.Lookup(c.Query("code"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "lookup resolved", result)
}

// GET /api/bom/:id
func (h *BOMHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid BOM id", nil)
		return
	}

	bom, err := h.bomService.Get(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "BOM fetched", bom)
}

// PUT /api/bom/:id
func (h *BOMHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid BOM id", nil)
		return
	}

	var req services.CreateBOMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	bom, err := h.bomService.Update(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "BOM updated", bom)
}

// DELETE /api/bom/:id
func (h *BOMHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid BOM id", nil)
		return
	}

	if err := h.bomService.Delete(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "BOM deleted", nil)
}

// currentUserID extracts the authenticated user's id set by the auth
// middleware. Nil when the route is unauthenticated.
func currentUserID(c *gin.Context) *uuid.UUID {
	raw, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
