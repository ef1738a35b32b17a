package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nmanzi/partsdb/internal/config"
	"github.com/nmanzi/partsdb/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Bin      *BinHandler
	Category *CategoryHandler
	Part     *PartHandler
	Exchange *ExchangeHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		Bin:      NewBinHandler(svc.Bin),
		Category: NewCategoryHandler(svc.Category),
		Part:     NewPartHandler(svc.Part, svc.Search),
		Exchange: NewExchangeHandler(svc.Exchange, cfg.Import),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{Code: 0, Message: "success", Data: data})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{Code: 0, Message: "success", Data: data})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{Code: code, Message: message})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Conflict 唯一键冲突响应
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// Fail maps a service error onto the response envelope: NotFound → 404,
// Conflict and reject-if-referenced → 409, referential and validation
// failures → 400, everything else → 500.
func Fail(c *gin.Context, err error) {
	var notFound *service.NotFoundError
	var conflict *service.ConflictError
	var referenced *service.ReferencedError
	var referential *service.ReferentialError
	var upstream *service.UpstreamError

	switch {
	case errors.As(err, &notFound):
		NotFound(c, err.Error())
	case errors.As(err, &conflict):
		Conflict(c, err.Error())
	case errors.As(err, &referenced):
		Conflict(c, err.Error())
	case errors.As(err, &referential):
		BadRequest(c, err.Error())
	case errors.As(err, &upstream):
		BadRequest(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetWindow reads the offset/limit pagination window from the query string.
func GetWindow(c *gin.Context) (offset, limit int) {
	offset = 0
	limit = 100

	if o := c.Query("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}
	return offset, limit
}

// ParamID parses the :id path segment.
func ParamID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}
