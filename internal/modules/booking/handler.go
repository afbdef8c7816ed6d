package booking

import (
	"errors"
	"net/http"
	"strconv"

	"villagestay/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the traveler-facing endpoints (JWT required).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:packageId", h.CreateBooking)

	users := rg.Group("/users/:userId")
	{
		users.GET("/bookings/current", h.UserCurrentBookings)
		users.GET("/bookings/history", h.UserBookingHistory)
		users.GET("/bookings/:id", h.GetBooking)
		users.PUT("/bookings/:id/cancel", h.CancelBooking)
		users.DELETE("/bookings/:id", h.DeleteHistory)
	}
}

// RegisterAdminRoutes wires the global listing views (admin role required).
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings/current", h.AllCurrentBookings)
	rg.GET("/bookings/history", h.AllBookingHistory)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	packageID, err := strconv.ParseInt(c.Param("packageId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid package ID")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if req.BuyerID != c.GetInt64("user_id") {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only book for yourself")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), packageID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
		case errors.Is(err, ErrPackageNotFound):
			response.Error(c, http.StatusNotFound, "PACKAGE_NOT_FOUND", "Package not found")
		default:
			response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Failed to create booking")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"booking": b,
		"message": "Package booked, village funds distributed",
	})
}

func (h *Handler) AllCurrentBookings(c *gin.Context) {
	h.list(c, 0, true)
}

func (h *Handler) AllBookingHistory(c *gin.Context) {
	h.list(c, 0, false)
}

func (h *Handler) UserCurrentBookings(c *gin.Context) {
	userID, ok := h.ownUserID(c)
	if !ok {
		return
	}
	h.list(c, userID, true)
}

func (h *Handler) UserBookingHistory(c *gin.Context) {
	userID, ok := h.ownUserID(c)
	if !ok {
		return
	}
	h.list(c, userID, false)
}

func (h *Handler) list(c *gin.Context, buyerID int64, active bool) {
	searchTerm := c.Query("searchTerm")

	var (
		bookings interface{}
		err      error
	)
	if active {
		bookings, err = h.service.ListCurrentBookings(c.Request.Context(), buyerID, searchTerm)
	} else {
		bookings, err = h.service.ListHistory(c.Request.Context(), buyerID, searchTerm)
	}
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Failed to list bookings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) GetBooking(c *gin.Context) {
	userID, ok := h.ownUserID(c)
	if !ok {
		return
	}
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		h.writeError(c, err, "Failed to load booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	userID, ok := h.ownUserID(c)
	if !ok {
		return
	}
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), bookingID, userID); err != nil {
		h.writeError(c, err, "Failed to cancel booking")
		return
	}
	response.Message(c, http.StatusOK, "Booking cancelled, payment refunded")
}

func (h *Handler) DeleteHistory(c *gin.Context) {
	userID, ok := h.ownUserID(c)
	if !ok {
		return
	}
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	if err := h.service.DeleteHistory(c.Request.Context(), bookingID, userID); err != nil {
		h.writeError(c, err, "Failed to delete booking history")
		return
	}
	response.Message(c, http.StatusOK, "Booking history deleted")
}

// ownUserID parses the path-bound user id and checks it against the
// authenticated caller.
func (h *Handler) ownUserID(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	if userID != c.GetInt64("user_id") {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only access your own bookings")
		return 0, false
	}
	return userID, true
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this booking")
	case errors.Is(err, ErrAlreadyFinal):
		response.Error(c, http.StatusBadRequest, "INVALID_TRANSITION", "Booking is already completed or cancelled")
	case errors.Is(err, ErrActiveDelete):
		response.Error(c, http.StatusBadRequest, "ACTIVE_BOOKING", "Active bookings cannot be deleted")
	default:
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", fallback)
	}
}
