package handlers

import (
	"errors"
	"net/http"

	"garagio/models"
	"garagio/remote"
	"garagio/services/booking"
	"garagio/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking workflow over the local HTTP facade.
type BookingHandler struct {
	Svc    booking.BookingSessionService
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingSessionService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// StartCheckout handles POST /api/booking/checkout. The body carries the
// chosen offering snapshot; the customer comes from the bearer credential.
func (h *BookingHandler) StartCheckout(c *gin.Context) {
	var input struct {
		Offering models.ServiceOffering `json:"offering" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	customerID := c.GetString("customerID")

	session, err := h.Svc.StartCheckout(c.Request.Context(), input.Offering, customerID)
	if err != nil {
		var kyc *booking.KycRequiredError
		if errors.As(err, &kyc) {
			// Redirect signal: the session exists, verification comes first.
			c.JSON(http.StatusOK, gin.H{"kycRequired": true, "session": session})
			return
		}
		var reservation *booking.ReservationError
		if errors.As(err, &reservation) {
			h.Logger.Error("StartCheckout: reservation failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not reserve a booking id", "message": err.Error()})
			return
		}
		h.Logger.Error("StartCheckout: failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start checkout", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kycRequired": false, "session": session})
}

// ConfirmKyc handles POST /api/booking/:bookingID/kyc.
func (h *BookingHandler) ConfirmKyc(c *gin.Context) {
	session, err := h.Svc.ConfirmKyc(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		var kyc *booking.KycRequiredError
		if errors.As(err, &kyc) {
			c.JSON(http.StatusOK, gin.H{"kycRequired": true, "session": session})
			return
		}
		h.respondError(c, "ConfirmKyc", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kycRequired": false, "session": session})
}

// SubmitDetails handles PUT /api/booking/:bookingID/details.
func (h *BookingHandler) SubmitDetails(c *gin.Context) {
	var details booking.CheckoutDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, checkout, err := h.Svc.SubmitDetails(c.Request.Context(), c.Param("bookingID"), details)
	if err != nil {
		var validation *booking.ValidationError
		if errors.As(err, &validation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": validation.Fields})
			return
		}
		var kyc *booking.KycRequiredError
		if errors.As(err, &kyc) {
			c.JSON(http.StatusConflict, gin.H{"kycRequired": true, "session": session})
			return
		}
		h.respondError(c, "SubmitDetails", err)
		return
	}

	resp := gin.H{"session": session}
	if checkout != nil {
		resp["checkout"] = checkout
	}
	c.JSON(http.StatusOK, resp)
}

// GatewayCallback handles POST /api/booking/:bookingID/gateway.
func (h *BookingHandler) GatewayCallback(c *gin.Context) {
	var result booking.GatewayResult
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	outcome, err := h.Svc.ResolveGateway(c.Request.Context(), c.Param("bookingID"), result)
	if err != nil {
		h.respondError(c, "GatewayCallback", err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// ResolveAddress handles GET /api/booking/address.
func (h *BookingHandler) ResolveAddress(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}
	addr, err := h.Svc.ResolveAddress(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, "ResolveAddress", err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

// GetSession handles GET /api/booking/:bookingID.
func (h *BookingHandler) GetSession(c *gin.Context) {
	session, err := h.Svc.GetSession(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		h.respondError(c, "GetSession", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// CloseSession handles DELETE /api/booking/:bookingID.
func (h *BookingHandler) CloseSession(c *gin.Context) {
	if err := h.Svc.Close(c.Request.Context(), c.Param("bookingID")); err != nil {
		h.respondError(c, "CloseSession", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": true})
}

// respondError maps the workflow error taxonomy onto HTTP responses.
func (h *BookingHandler) respondError(c *gin.Context, op string, err error) {
	var notFound *booking.SessionNotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking session not found or expired"})
		return
	}
	var state *booking.StateError
	if errors.As(err, &state) {
		c.JSON(http.StatusConflict, gin.H{"error": "operation not allowed", "details": err.Error()})
		return
	}
	if remote.IsNetworkError(err) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "network failure", "message": err.Error(), "retryable": true})
		return
	}
	if remote.IsServerRejection(err) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "request rejected", "message": err.Error(), "retryable": true})
		return
	}
	h.Logger.Error(op+": unexpected failure", zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
}
