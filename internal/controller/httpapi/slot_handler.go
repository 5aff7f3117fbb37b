package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type SlotHandler struct {
	base
	slots *service.SlotService
}

func NewSlotHandler(slots *service.SlotService, logger *zap.Logger) *SlotHandler {
	return &SlotHandler{base: base{logger: logger}, slots: slots}
}

func (h *SlotHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in service.CreateSlotInput
	if !h.decode(w, r, "CreateSlot", &in) {
		return
	}

	slot, err := h.slots.CreateSlot(r.Context(), in)
	if err != nil {
		h.fail(w, r, "CreateSlot", err)
		return
	}
	h.created(w, r, "CreateSlot", slot)
}

func (h *SlotHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.id(w, r, ps, "GetSlot", "id")
	if !ok {
		return
	}

	slot, err := h.slots.GetSlot(r.Context(), id)
	if err != nil {
		h.fail(w, r, "GetSlot", err)
		return
	}
	h.ok(w, r, "GetSlot", slot)
}

func (h *SlotHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.id(w, r, ps, "UpdateSlot", "id")
	if !ok {
		return
	}
	var in service.UpdateSlotInput
	if !h.decode(w, r, "UpdateSlot", &in) {
		return
	}

	slot, err := h.slots.UpdateSlot(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, "UpdateSlot", err)
		return
	}
	h.ok(w, r, "UpdateSlot", slot)
}

// Delete отказывает с 400, если у слота есть запись
func (h *SlotHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.id(w, r, ps, "DeleteSlot", "id")
	if !ok {
		return
	}

	deleted, err := h.slots.DeleteSlot(r.Context(), id)
	if err != nil {
		h.fail(w, r, "DeleteSlot", err)
		return
	}
	if !deleted {
		h.fail(w, r, "DeleteSlot", apperrors.ErrSlotHasAppointment)
		return
	}
	h.respond(w, r, "DeleteSlot", http.StatusOK, SuccessResponse{Message: "Slot deleted"})
}

func (h *SlotHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/slots", h.Create)
	router.GET("/api/v1/slots/:id", h.Get)
	router.PATCH("/api/v1/slots/:id", h.Update)
	router.DELETE("/api/v1/slots/:id", h.Delete)
}
