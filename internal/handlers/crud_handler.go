package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/school-api/internal/resource"
)

// Route is one method and path relative to the API prefix.
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	// Role, when set, is required of the caller once authentication is on.
	Role string
}

// CRUDHandler exposes a resource engine over HTTP.
type CRUDHandler[T any] struct {
	engine *resource.Engine[T]
	logger *zap.Logger
}

func NewCRUDHandler[T any](engine *resource.Engine[T], logger *zap.Logger) *CRUDHandler[T] {
	return &CRUDHandler[T]{engine: engine, logger: logger}
}

func (h *CRUDHandler[T]) Descriptor() resource.Descriptor { return h.engine.Descriptor() }

// Routes lists the six operations under /<kind>.
func (h *CRUDHandler[T]) Routes() []Route {
	d := h.engine.Descriptor()
	base := "/" + d.Kind
	return []Route{
		{Method: http.MethodGet, Path: base, Handler: h.List},
		{Method: http.MethodGet, Path: base + "/:id", Handler: h.Get},
		{Method: http.MethodGet, Path: base + "/search", Handler: h.Search},
		{Method: http.MethodPost, Path: base, Handler: h.Create, Role: d.WriteRole},
		{Method: http.MethodPut, Path: base + "/:id", Handler: h.Update, Role: d.WriteRole},
		{Method: http.MethodDelete, Path: base + "/:id", Handler: h.Delete, Role: d.WriteRole},
	}
}

func (h *CRUDHandler[T]) List(c *gin.Context) {
	items, err := h.engine.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CRUDHandler[T]) Search(c *gin.Context) {
	param := h.engine.Descriptor().SearchParam
	items, err := h.engine.Search(c.Request.Context(), c.Query(param))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CRUDHandler[T]) Get(c *gin.Context) {
	item, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CRUDHandler[T]) Create(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, h.logger, resource.InvalidInput("invalid request body"))
		return
	}
	item, err := h.engine.Create(c.Request.Context(), fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CRUDHandler[T]) Update(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, h.logger, resource.InvalidInput("invalid request body"))
		return
	}
	item, err := h.engine.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CRUDHandler[T]) Delete(c *gin.Context) {
	if err := h.engine.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
