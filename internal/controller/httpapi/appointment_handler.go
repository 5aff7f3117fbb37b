package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/Freeeeeet/staff_scheduler/internal/timerange"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	base
	bookings *service.BookingService
}

func NewAppointmentHandler(bookings *service.BookingService, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{base: base{logger: logger}, bookings: bookings}
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in service.BookAppointmentInput
	if !h.decode(w, r, "BookAppointment", &in) {
		return
	}

	appointment, err := h.bookings.BookAppointment(r.Context(), in)
	if err != nil {
		h.fail(w, r, "BookAppointment", err)
		return
	}
	h.created(w, r, "BookAppointment", appointment)
}

// PublicBook запись посетителя из публичной выдачи. Статус в теле не принимается.
func (h *AppointmentHandler) PublicBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in service.PublicBookingInput
	if !h.decode(w, r, "PublicBook", &in) {
		return
	}

	appointment, err := h.bookings.BookPublicAppointment(r.Context(), in)
	if err != nil {
		h.fail(w, r, "PublicBook", err)
		return
	}
	h.created(w, r, "PublicBook", appointment)
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.id(w, r, ps, "GetAppointment", "id")
	if !ok {
		return
	}

	appointment, err := h.bookings.GetAppointment(r.Context(), id)
	if err != nil {
		h.fail(w, r, "GetAppointment", err)
		return
	}
	h.ok(w, r, "GetAppointment", appointment)
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.id(w, r, ps, "UpdateAppointment", "id")
	if !ok {
		return
	}
	var in service.UpdateAppointmentInput
	if !h.decode(w, r, "UpdateAppointment", &in) {
		return
	}

	appointment, err := h.bookings.UpdateAppointment(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, "UpdateAppointment", err)
		return
	}
	h.ok(w, r, "UpdateAppointment", appointment)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.id(w, r, ps, "CancelAppointment", "id")
	if !ok {
		return
	}

	appointment, err := h.bookings.CancelAppointment(r.Context(), id)
	if err != nil {
		h.fail(w, r, "CancelAppointment", err)
		return
	}
	h.ok(w, r, "CancelAppointment", appointment)
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.id(w, r, ps, "DeleteAppointment", "id")
	if !ok {
		return
	}

	if err := h.bookings.DeleteAppointment(r.Context(), id); err != nil {
		h.fail(w, r, "DeleteAppointment", err)
		return
	}
	h.respond(w, r, "DeleteAppointment", http.StatusOK, SuccessResponse{Message: "Appointment deleted"})
}

func (h *AppointmentHandler) ListByStaff(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	staffID, ok := h.id(w, r, ps, "ListAppointmentsByStaff", "staff_id")
	if !ok {
		return
	}

	appointments, err := h.bookings.ListAppointmentsByStaff(r.Context(), staffID)
	if err != nil {
		h.fail(w, r, "ListAppointmentsByStaff", err)
		return
	}
	h.ok(w, r, "ListAppointmentsByStaff", appointments)
}

// Availability публичные свободные слоты сотрудника, начиная с ?from=YYYY-MM-DD или с сегодняшнего дня
func (h *AppointmentHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	staffID, ok := h.id(w, r, ps, "PublicAvailability", "staff_id")
	if !ok {
		return
	}

	var from time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		d, err := timerange.ParseDate(raw)
		if err != nil {
			h.fail(w, r, "PublicAvailability", apperrors.Invalid("from", "must be a date in YYYY-MM-DD format"))
			return
		}
		from = d
	}

	availability, err := h.bookings.ListPublicAvailability(r.Context(), staffID, from)
	if err != nil {
		h.fail(w, r, "PublicAvailability", err)
		return
	}
	h.ok(w, r, "PublicAvailability", availability)
}

func (h *AppointmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/appointments", h.Book)
	router.GET("/api/v1/appointments/:id", h.Get)
	router.PATCH("/api/v1/appointments/:id", h.Update)
	router.PATCH("/api/v1/appointments/:id/cancel", h.Cancel)
	router.DELETE("/api/v1/appointments/:id", h.Delete)
	router.GET("/api/v1/staff/:staff_id/appointments", h.ListByStaff)

	router.GET("/api/v1/public/staff/:staff_id/availability", h.Availability)
	router.POST("/api/v1/public/bookings", h.PublicBook)
}
