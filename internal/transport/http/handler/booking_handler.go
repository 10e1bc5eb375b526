package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"realestate3d/internal/service"
	httpez "realestate3d/internal/transport/http/ez"
)

type BookingHandler struct {
	svc *service.Bookings
	log *zap.Logger
}

func NewBookingHandler(svc *service.Bookings, log *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, log: log}
}

type createBookingIn struct {
	Email      string     `json:"email"       form:"email"       binding:"required"`
	PropertyID flexString `json:"property_id" form:"property_id" binding:"required"`
	Date       string     `json:"date"        form:"date"        binding:"required"`
	Time       string     `json:"time"        form:"time"        binding:"required"`
}

func (in *createBookingIn) Validate() error {
	return required(in.Email, in.PropertyID.String(), in.Date, in.Time)
}

type rescheduleIn struct {
	Email string `json:"email" form:"email" binding:"required"`
	Date  string `json:"date"  form:"date"  binding:"required"`
	Time  string `json:"time"  form:"time"  binding:"required"`
}

func (in *rescheduleIn) Validate() error { return required(in.Email, in.Date, in.Time) }

func (h *BookingHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, h.log, MapError)

	httpez.RegisterAction(ez, httpez.Action[emailQuery, []service.BookingView]{
		Method:  http.MethodGet,
		Path:    "/bookings/",
		Binder:  httpez.BindQuery,
		Missing: "Email query param required",
		Handler: func(c *gin.Context, in *emailQuery) ([]service.BookingView, error) {
			return h.svc.ListBookings(c.Request.Context(), origin(c), strings.TrimSpace(in.Email))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[createBookingIn, service.BookingView]{
		Method:  http.MethodPost,
		Path:    "/bookings/",
		Binder:  httpez.BindBody,
		Status:  http.StatusCreated,
		Missing: "Missing required fields",
		Handler: func(c *gin.Context, in *createBookingIn) (service.BookingView, error) {
			// 非数字的 property_id 不可能命中任何房源
			pid, ok := parseID(in.PropertyID.String())
			if !ok {
				return service.BookingView{}, httpez.NotFound("Property not found")
			}
			return h.svc.CreateBooking(c.Request.Context(), origin(c), strings.TrimSpace(in.Email), pid, in.Date, in.Time)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[rescheduleIn, service.BookingView]{
		Method:  http.MethodPut,
		Path:    "/bookings/:id/reschedule/",
		Binder:  httpez.BindBody,
		Missing: "Missing required fields",
		Handler: func(c *gin.Context, in *rescheduleIn) (service.BookingView, error) {
			id, ok := parseID(c.Param("id"))
			if !ok {
				return service.BookingView{}, httpez.NotFound("Booking not found or not owned by user")
			}
			return h.svc.RescheduleBooking(c.Request.Context(), origin(c), id, strings.TrimSpace(in.Email), in.Date, in.Time)
		},
	})
}
