package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hktplatform.app/api/internal/http/dto"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
)

type PropertyHandler struct {
	propertyService service.PropertyService
}

func NewPropertyHandler(propertyService service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

func (h *PropertyHandler) List(c *gin.Context) {
	var q dto.PropertyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	filter := model.PropertyFilter{Limit: q.Limit, Offset: q.Offset}
	if v := strings.TrimSpace(q.Location); v != "" {
		filter.Location = &v
	}
	if v := strings.TrimSpace(q.PropertyType); v != "" {
		filter.PropertyType = &v
	}
	if q.Guests > 0 {
		filter.Guests = &q.Guests
	}
	var ok bool
	if filter.MinPrice, ok = parsePrice(c, "min_price", q.MinPrice); !ok {
		return
	}
	if filter.MaxPrice, ok = parsePrice(c, "max_price", q.MaxPrice); !ok {
		return
	}

	properties, err := h.propertyService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "list properties")
		return
	}

	c.JSON(http.StatusOK, gin.H{"properties": dto.ToPropertyResponses(properties)})
}

// Get accepts either the numeric id or the slug.
func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.propertyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "get property")
		return
	}

	c.JSON(http.StatusOK, dto.ToPropertyResponse(property))
}

func (h *PropertyHandler) Create(c *gin.Context) {
	var req dto.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	property, err := h.propertyService.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, err, "create property")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPropertyResponse(property))
}

func (h *PropertyHandler) Update(c *gin.Context) {
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	property, err := h.propertyService.Update(c.Request.Context(), propertyID, req.ToInput())
	if err != nil {
		respondError(c, err, "update property")
		return
	}

	c.JSON(http.StatusOK, dto.ToPropertyResponse(property))
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), propertyID); err != nil {
		respondError(c, err, "delete property")
		return
	}

	c.Status(http.StatusNoContent)
}

func parsePrice(c *gin.Context, name, raw string) (*decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name, "code": "invalid_request"})
		return nil, false
	}
	return &d, true
}
