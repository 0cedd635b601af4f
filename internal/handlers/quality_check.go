// internal/handlers/quality_check.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/services"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/utils"
)

type QualityCheckHandler struct {
	qualityCheckService *services.QualityCheckService
	storageService      *services.StorageService
}

func NewQualityCheckHandler(qualityCheckService *services.QualityCheckService, storageService *services.StorageService) *QualityCheckHandler {
	return &QualityCheckHandler{
		qualityCheckService: qualityCheckService,
		storageService:      storageService,
	}
}

// GET /api/quality-check
func (h *QualityCheckHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	checks, total, err := h.qualityCheckService.List(params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "quality checks fetched", utils.CreatePaginationResult(checks, total, params))
}

// GET /api/quality-check/available
func (h *QualityCheckHandler) Available(c *gin.Context) {
	items, err := h.qualityCheckService.Available()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "available items fetched", items)
}

// POST /api/quality-check
// Accepts multipart form data so the inspection report can ride along.
func (h *QualityCheckHandler) Create(c *gin.Context) {
	req, err := h.parseForm(c)
	if err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	if file, header, err := c.Request.FormFile("report"); err == nil {
		defer file.Close()
		result, uploadErr := h.storageService.UploadFile(file, header, services.UploadOptions{
			Folder:       "qc-reports",
			MaxSize:      10 << 20,
			AllowedTypes: []string{".pdf", ".png", ".jpg", ".jpeg"},
		})
		if uploadErr != nil {
			utils.BadRequestResponse(c, "report upload failed", uploadErr.Error())
			return
		}
		req.AttachedReport = result.URL
	}

	check, err := h.qualityCheckService.Create(req, currentUserID(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "quality check recorded", check)
}

// PUT /api/quality-check/:id
func (h *QualityCheckHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid quality check id", nil)
		return
	}

	var req services.UpdateQualityCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	check, err := h.qualityCheckService.Update(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "quality check updated", check)
}

func (h *QualityCheckHandler) parseForm(c *gin.Context) (*services.CreateQualityCheckRequest, error) {
	contentType := c.ContentType()
	if contentType == "application/json" {
		var req services.CreateQualityCheckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	gateEntryID, err := uuid.Parse(c.PostForm("gateman_entry_id"))
	if err != nil {
		return nil, err
	}
	itemID, err := uuid.Parse(c.PostForm("item_id"))
	if err != nil {
		return nil, err
	}
	approved, err := strconv.ParseFloat(c.DefaultPostForm("approved_quantity", "0"), 64)
	if err != nil {
		return nil, err
	}
	rejected, err := strconv.ParseFloat(c.DefaultPostForm("rejected_quantity", "0"), 64)
	if err != nil {
		return nil, err
	}

	return &services.CreateQualityCheckRequest{
		GateEntryID:      gateEntryID,
		ItemID:           itemID,
		ApprovedQuantity: approved,
		RejectedQuantity: rejected,
	}, nil
}
