package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nmanzi/partsdb/internal/entity"
	"github.com/nmanzi/partsdb/internal/service"
)

type CategoryHandler struct {
	svc *service.CategoryService
}

func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// List GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	offset, limit := GetWindow(c)
	cats, err := h.svc.List(offset, limit)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, cats)
}

// Get GET /api/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	cat, err := h.svc.Get(id)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, cat)
}

// Create POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req service.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	cat, err := h.svc.Create(req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, cat)
}

// Update PUT /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var patch entity.CategoryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		BadRequest(c, err.Error())
		return
	}
	cat, err := h.svc.Update(id, patch)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, cat)
}

// Delete DELETE /api/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	if _, err := h.svc.Delete(id); err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"message": "category deleted"})
}
