package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nmanzi/partsdb/internal/entity"
	"github.com/nmanzi/partsdb/internal/repository"
	"github.com/nmanzi/partsdb/internal/service"
)

type PartHandler struct {
	svc    *service.PartService
	search *service.SearchService
}

func NewPartHandler(svc *service.PartService, search *service.SearchService) *PartHandler {
	return &PartHandler{svc: svc, search: search}
}

// List GET /api/parts?bin_id=&category_id=&search=
//
// search overrides the referential filters when both are supplied.
func (h *PartHandler) List(c *gin.Context) {
	offset, limit := GetWindow(c)

	if query := c.Query("search"); query != "" {
		parts, err := h.search.Search(query, offset, limit)
		if err != nil {
			Fail(c, err)
			return
		}
		Success(c, parts)
		return
	}

	params := repository.PartListParams{Offset: offset, Limit: limit}
	if b := c.Query("bin_id"); b != "" {
		v, err := strconv.ParseUint(b, 10, 32)
		if err != nil {
			BadRequest(c, "invalid bin_id")
			return
		}
		params.BinID = uint(v)
	}
	for _, raw := range c.QueryArray("category_id") {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			BadRequest(c, "invalid category_id")
			return
		}
		params.CategoryIDs = append(params.CategoryIDs, uint(v))
	}

	parts, err := h.svc.List(params)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, parts)
}

// Get GET /api/parts/:id
func (h *PartHandler) Get(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	part, err := h.svc.Get(id)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, part)
}

// Create POST /api/parts
func (h *PartHandler) Create(c *gin.Context) {
	var req service.PartCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	part, err := h.svc.Create(req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, part)
}

// Update PUT /api/parts/:id
func (h *PartHandler) Update(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var patch entity.PartPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		BadRequest(c, err.Error())
		return
	}
	part, err := h.svc.Update(id, patch)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, part)
}

// Delete DELETE /api/parts/:id
func (h *PartHandler) Delete(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	if _, err := h.svc.Delete(id); err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"message": "part deleted"})
}
