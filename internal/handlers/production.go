// internal/handlers/production.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/services"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/utils"
)

type ProductionHandler struct {
	productionService   *services.ProductionService
	qualityCheckService *services.QualityCheckService
}

func NewProductionHandler(productionService *services.ProductionService, qualityCheckService *services.QualityCheckService) *ProductionHandler {
	return &ProductionHandler{
		productionService:   productionService,
		qualityCheckService: qualityCheckService,
	}
}

// POST /api/production
func (h *ProductionHandler) Create(c *gin.Context) {
	var req services.CreateProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	production, err := h.productionService.Create(&req, currentUserID(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "production created", production)
}

// GET /api/production
func (h *ProductionHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	productions, total, err := h.productionService.List(params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "productions fetched", utils.CreatePaginationResult(productions, total, params))
}

// GET /api/production/:id
func (h *ProductionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid production id", nil)
		return
	}

	production, err := h.productionService.Get(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "production fetched", production)
}

// PUT /api/production/:id
func (h *ProductionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid production id", nil)
		return
	}

	var req services.UpdateProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	production, err := h.productionService.Update(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "production updated", production)
}

// PATCH /api/production/:id/ready-for-qc
func (h *ProductionHandler) MarkReadyForQC(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid production id", nil)
		return
	}

	production, err := h.productionService.MarkReadyForQC(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "production marked ready for QC", production)
}

// PATCH /api/production/:id/approve
func (h *ProductionHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid production id", nil)
		return
	}

	var req services.QCDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	production, err := h.productionService.Approve(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "production approved", production)
}

// PATCH /api/production/:id/reject
func (h *ProductionHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid production id", nil)
		return
	}

	var req services.QCDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	production, err := h.productionService.Reject(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "production rejected", production)
}

// PATCH /api/production/:id/finish
func (h *ProductionHandler) Finish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid production id", nil)
		return
	}

	production, err := h.productionService.Finish(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "production finished", production)
}

// DELETE /api/production/:id
func (h *ProductionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid production id", nil)
		return
	}

	if err := h.productionService.Delete(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "production deleted", nil)
}

// DELETE /api/production/qc-history/:id
func (h *ProductionHandler) DeleteQCHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid quality check id", nil)
		return
	}

	if err := h.qualityCheckService.Delete(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "quality check removed and stock reverted", nil)
}
