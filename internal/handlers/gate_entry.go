// internal/handlers/gate_entry.go
package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/services"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/utils"
)

type GateEntryHandler struct {
	gateEntryService *services.GateEntryService
	storageService   *services.StorageService
}

func NewGateEntryHandler(gateEntryService *services.GateEntryService, storageService *services.StorageService) *GateEntryHandler {
	return &GateEntryHandler{gateEntryService: gateEntryService, storageService: storageService}
}

// POST /api/gate-entry
// Accepts multipart form data so the PO and invoice scans can ride along.
func (h *GateEntryHandler) Create(c *gin.Context) {
	req, err := h.parseForm(c)
	if err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	if url, err := h.uploadAttachment(c, "attached_po"); err != nil {
		utils.BadRequestResponse(c, "PO attachment upload failed", err.Error())
		return
	} else if url != "" {
		req.AttachedPO = url
	}
	if url, err := h.uploadAttachment(c, "attached_invoice"); err != nil {
		utils.BadRequestResponse(c, "invoice attachment upload failed", err.Error())
		return
	} else if url != "" {
		req.AttachedInvoice = url
	}

	entry, err := h.gateEntryService.Create(req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "gate entry created", entry)
}

func (h *GateEntryHandler) parseForm(c *gin.Context) (*services.CreateGateEntryRequest, error) {
	if c.ContentType() == "application/json" {
		var req services.CreateGateEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	req := &services.CreateGateEntryRequest{
		PONumber:        c.PostForm("po_number"),
		InvoiceNumber:   c.PostForm("invoice_number"),
		CompanyName:     c.PostForm("company_name"),
		AttachedPO:      c.PostForm("attached_po_url"),
		AttachedInvoice: c.PostForm("attached_invoice_url"),
	}
	if items := c.PostForm("items"); items != "" {
		if err := json.Unmarshal([]byte(items), &req.Items); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// uploadAttachment stores an optional multipart file and returns its URL.
// A missing form file is not an error.
func (h *GateEntryHandler) uploadAttachment(c *gin.Context, field string) (string, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return "", nil
	}
	defer file.Close()

	result, err := h.storageService.UploadFile(file, header, services.UploadOptions{
		Folder:       "gate-entries",
		MaxSize:      10 << 20,
		AllowedTypes: []string{".pdf", ".png", ".jpg", ".jpeg"},
	})
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

// GET /api/gate-entry
func (h *GateEntryHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	entries, total, err := h.gateEntryService.List(params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "gate entries fetched", utils.CreatePaginationResult(entries, total, params))
}

// GET /api/gate-entry/:id
func (h *GateEntryHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid gate entry id", nil)
		return
	}

	entry, err := h.gateEntryService.Get(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "gate entry fetched", entry)
}

// PATCH /api/gate-entry/:id/verify
func (h *GateEntryHandler) Verify(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid gate entry id", nil)
		return
	}

	entry, err := h.gateEntryService.Verify(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "gate entry verified", entry)
}

// PATCH /api/gate-entry/:id/reject
func (h *GateEntryHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid gate entry id", nil)
		return
	}

	entry, err := h.gateEntryService.Reject(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "gate entry rejected", entry)
}
