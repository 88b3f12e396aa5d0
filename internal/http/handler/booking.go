package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hktplatform.app/api/common/logger"
	"hktplatform.app/api/internal/http/dto"
	"hktplatform.app/api/internal/http/middleware"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func (h *BookingHandler) Quote(c *gin.Context) {
	req, ok := bindBookingRequest(c)
	if !ok {
		return
	}

	quote, err := h.bookingService.Quote(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "quote booking")
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (h *BookingHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	req, ok := bindBookingRequest(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.Create(ctx, middleware.GetUser(ctx).ID, req)
	if err != nil {
		respondError(c, err, "create booking")
		return
	}

	c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	ctx := c.Request.Context()

	bookings, err := h.bookingService.ListMine(ctx, middleware.GetUser(ctx).ID)
	if err != nil {
		respondError(c, err, "list bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": dto.ToBookingResponses(bookings)})
}

// Get returns the caller's booking, or any booking for admins.
func (h *BookingHandler) Get(c *gin.Context) {
	ctx, bookingID, ok := bookingContext(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.Get(ctx, middleware.GetUser(ctx), bookingID)
	if err != nil {
		respondError(c, err, "get booking")
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) Pay(c *gin.Context) {
	ctx, bookingID, ok := bookingContext(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.Pay(ctx, middleware.GetUser(ctx).ID, bookingID)
	if err != nil {
		respondError(c, err, "pay booking")
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	ctx, bookingID, ok := bookingContext(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.Cancel(ctx, middleware.GetUser(ctx), bookingID)
	if err != nil {
		respondError(c, err, "cancel booking")
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// List is admin only.
func (h *BookingHandler) List(c *gin.Context) {
	var q dto.BookingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	filter := model.BookingFilter{Limit: q.Limit, Offset: q.Offset}
	if q.Status != "" {
		status := model.BookingStatus(q.Status)
		filter.Status = &status
	}
	if q.PropertyID > 0 {
		filter.PropertyID = &q.PropertyID
	}

	bookings, err := h.bookingService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "list bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": dto.ToBookingResponses(bookings)})
}

func bindBookingRequest(c *gin.Context) (service.BookingRequest, bool) {
	var req dto.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return service.BookingRequest{}, false
	}

	// The binding already checked the layout.
	checkIn, _ := time.Parse(dto.DateLayout, req.CheckIn)
	checkOut, _ := time.Parse(dto.DateLayout, req.CheckOut)

	return service.BookingRequest{
		PropertyID: req.PropertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
		FreeWeek:   req.FreeWeek,
	}, true
}

func bookingContext(c *gin.Context) (ctx context.Context, bookingID int64, ok bool) {
	bookingID, ok = pathID(c, "id")
	if !ok {
		return nil, 0, false
	}
	ctx = logger.WithLogFields(c.Request.Context(), logger.LogFields{BookingID: &bookingID})
	c.Request = c.Request.WithContext(ctx)
	return ctx, bookingID, true
}
