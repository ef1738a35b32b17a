package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nmanzi/partsdb/internal/entity"
	"github.com/nmanzi/partsdb/internal/service"
)

type BinHandler struct {
	svc *service.BinService
}

func NewBinHandler(svc *service.BinService) *BinHandler {
	return &BinHandler{svc: svc}
}

// List GET /api/bins?with_counts=true
func (h *BinHandler) List(c *gin.Context) {
	offset, limit := GetWindow(c)
	if c.Query("with_counts") == "true" {
		bins, err := h.svc.ListWithCounts(offset, limit)
		if err != nil {
			Fail(c, err)
			return
		}
		Success(c, bins)
		return
	}
	bins, err := h.svc.List(offset, limit)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, bins)
}

// Get GET /api/bins/:id
func (h *BinHandler) Get(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	bin, err := h.svc.Get(id)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, bin)
}

// Create POST /api/bins
func (h *BinHandler) Create(c *gin.Context) {
	var req service.BinCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	bin, err := h.svc.Create(req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, bin)
}

// Update PUT /api/bins/:id
func (h *BinHandler) Update(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var patch entity.BinPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		BadRequest(c, err.Error())
		return
	}
	bin, err := h.svc.Update(id, patch)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, bin)
}

// Delete DELETE /api/bins/:id
func (h *BinHandler) Delete(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	if _, err := h.svc.Delete(id); err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"message": "bin deleted"})
}
