// Package httpapi REST-интерфейс поверх сервисов окон, слотов и записей.
package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Services сервисы, которые обслуживает API
type Services struct {
	Frames   *service.FrameService
	Slots    *service.SlotService
	Bookings *service.BookingService
}

// NewRouter собирает маршруты и оборачивает их в логирование и восстановление после паники
func NewRouter(svc Services, logger *zap.Logger) http.Handler {
	router := httprouter.New()

	NewFrameHandler(svc.Frames, svc.Slots, logger).RegisterRoutes(router)
	NewSlotHandler(svc.Slots, logger).RegisterRoutes(router)
	NewAppointmentHandler(svc.Bookings, logger).RegisterRoutes(router)

	router.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = writeJSON(w, http.StatusNotFound, ErrorResponse{Code: codeNotFound, Message: "Route not found"})
	})

	return Chain(router,
		RequestLogging(logger),
		Recovery(logger),
		MaxRequestSize(maxBodyBytes),
	)
}
