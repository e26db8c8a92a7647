package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/net/resp"
	"github.com/learnhub/learnhub/paging"
	"github.com/learnhub/learnhub/service"
)

// ProductHandler serves the demo catalog.
type ProductHandler struct {
	svc *service.CatalogService
	log *logger.Logger
}

// NewProductHandler creates a product handler.
func NewProductHandler(svc *service.CatalogService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, log: log}
}

// pageParams reads cursor and limit from the query string. An absent or
// unparseable limit falls back to the default; out-of-range values are
// clamped downstream rather than rejected.
func pageParams(c *gin.Context) paging.Params {
	params := paging.Params{
		Cursor: c.Query("cursor"),
		Limit:  paging.DefaultLimit,
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			params.Limit = n
		}
	}
	return params
}

// List returns one page of products.
func (h *ProductHandler) List(c *gin.Context) {
	page, err := h.svc.ListProducts(c.Request.Context(), pageParams(c))
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}
	resp.Success(c.Writer, page)
}

// Create adds a product. Admin only.
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	product, err := h.svc.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}
	resp.Success(c.Writer, product)
}

// Get returns a single product.
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		resp.Fail(c.Writer, resp.BadRequest("invalid product id"))
		return
	}

	product, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		resp.Fail(c.Writer, failure(c.Request.Context(), h.log, err))
		return
	}
	resp.Success(c.Writer, product)
}
