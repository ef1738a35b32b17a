package handler

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nmanzi/partsdb/internal/config"
	"github.com/nmanzi/partsdb/internal/service"
)

type ExchangeHandler struct {
	svc *service.ExchangeService
	cfg config.ImportConfig
}

func NewExchangeHandler(svc *service.ExchangeService, cfg config.ImportConfig) *ExchangeHandler {
	return &ExchangeHandler{svc: svc, cfg: cfg}
}

// Import POST /api/parts/import — multipart upload, field "file", CSV only.
func (h *ExchangeHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		BadRequest(c, "only CSV files are supported")
		return
	}
	if h.cfg.MaxFileSize > 0 && fileHeader.Size > h.cfg.MaxFileSize {
		BadRequest(c, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	result, err := h.svc.Import(c.Request.Context(), data)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, result)
}

// Export GET /api/parts/export[?format=xlsx]
func (h *ExchangeHandler) Export(c *gin.Context) {
	if c.Query("format") == "xlsx" {
		h.exportXLSX(c)
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Export(&buf); err != nil {
		Fail(c, err)
		return
	}
	filename := "parts_export_" + time.Now().Format("20060102") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "text/csv", buf.Bytes())
}

func (h *ExchangeHandler) exportXLSX(c *gin.Context) {
	f, err := h.svc.ExportXLSX()
	if err != nil {
		Fail(c, err)
		return
	}
	defer f.Close()

	filename := "parts_export_" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, err.Error())
	}
}
