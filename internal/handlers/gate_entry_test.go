// internal/handlers/gate_entry_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/config"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/models"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/services"
)

func setupGateEntryRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Supplier{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.GateEntry{},
		&models.GateEntryItem{},
	))

	storage, err := services.NewStorageService(&config.Config{})
	require.NoError(t, err)

	h := NewGateEntryHandler(services.NewGateEntryService(db), storage)
	r := gin.New()
	r.POST("/gate-entry", h.Create)
	return r, db
}

func TestGateEntryCreateUploadsAttachments(t *testing.T) {
	r, db := setupGateEntryRouter(t)
	t.Cleanup(func() { os.RemoveAll("uploads") })

	supplier := &models.Supplier{SupplierCode: "SUP-001", Name: "Acme Rubber", Phone: "0"}
	require.NoError(t, db.Create(supplier).Error)
	po := &models.PurchaseOrder{
		PONumber:   "PO-0001",
		SupplierID: supplier.ID,
		Status:     models.PurchaseOrderStatusOpen,
		Products: []models.PurchaseOrderItem{
			{ItemName: "NR Bale", EstQuantity: 100, RemainQuantity: 100, Category: "raw"},
		},
	}
	require.NoError(t, db.Create(po).Error)

	items, err := json.Marshal([]services.GateEntryItemRequest{
		{ItemName: "NR Bale", ItemQuantity: 60},
	})
	require.NoError(t, err)

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	require.NoError(t, form.WriteField("po_number", "PO-0001"))
	require.NoError(t, form.WriteField("invoice_number", "INV-77"))
	require.NoError(t, form.WriteField("company_name", "Acme Rubber"))
	require.NoError(t, form.WriteField("items", string(items)))
	poFile, err := form.CreateFormFile("attached_po", "po.pdf")
	require.NoError(t, err)
	_, err = poFile.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	invFile, err := form.CreateFormFile("attached_invoice", "invoice.png")
	require.NoError(t, err)
	_, err = invFile.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/gate-entry", body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var entry models.GateEntry
	require.NoError(t, db.Preload("Items").First(&entry, "po_number = ?", "PO-0001").Error)
	assert.Contains(t, entry.AttachedPO, "gate-entries/")
	assert.Contains(t, entry.AttachedInvoice, "gate-entries/")
	require.Len(t, entry.Items, 1)
	assert.Equal(t, float64(60), entry.Items[0].ItemQuantity)
}

func TestGateEntryCreateRejectsOversizedAttachmentType(t *testing.T) {
	r, db := setupGateEntryRouter(t)
	t.Cleanup(func() { os.RemoveAll("uploads") })

	supplier := &models.Supplier{SupplierCode: "SUP-002", Name: "Acme Rubber", Phone: "0"}
	require.NoError(t, db.Create(supplier).Error)
	po := &models.PurchaseOrder{PONumber: "PO-0002", SupplierID: supplier.ID, Status: models.PurchaseOrderStatusOpen}
	require.NoError(t, db.Create(po).Error)

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	require.NoError(t, form.WriteField("po_number", "PO-0002"))
	require.NoError(t, form.WriteField("invoice_number", "INV-78"))
	require.NoError(t, form.WriteField("company_name", "Acme Rubber"))
	require.NoError(t, form.WriteField("items", `[{"item_name":"NR Bale","item_quantity":1}]`))
	bad, err := form.CreateFormFile("attached_po", "po.exe")
	require.NoError(t, err)
	_, err = bad.Write([]byte("MZ"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/gate-entry", body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.GateEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}
