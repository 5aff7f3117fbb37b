package httpapi

import (
	"fmt"
	"net/http"

	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type FrameHandler struct {
	base
	frames *service.FrameService
	slots  *service.SlotService
}

func NewFrameHandler(frames *service.FrameService, slots *service.SlotService, logger *zap.Logger) *FrameHandler {
	return &FrameHandler{
		base:   base{logger: logger},
		frames: frames,
		slots:  slots,
	}
}

func (h *FrameHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in service.CreateFrameInput
	if !h.decode(w, r, "CreateFrame", &in) {
		return
	}

	frame, err := h.frames.CreateFrame(r.Context(), in)
	if err != nil {
		h.fail(w, r, "CreateFrame", err)
		return
	}
	h.created(w, r, "CreateFrame", frame)
}

func (h *FrameHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.id(w, r, ps, "GetFrame", "id")
	if !ok {
		return
	}

	frame, err := h.frames.GetFrame(r.Context(), id)
	if err != nil {
		h.fail(w, r, "GetFrame", err)
		return
	}
	h.ok(w, r, "GetFrame", frame)
}

func (h *FrameHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.id(w, r, ps, "UpdateFrame", "id")
	if !ok {
		return
	}
	var in service.UpdateFrameInput
	if !h.decode(w, r, "UpdateFrame", &in) {
		return
	}

	frame, err := h.frames.UpdateFrame(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, "UpdateFrame", err)
		return
	}
	h.ok(w, r, "UpdateFrame", frame)
}

func (h *FrameHandler) Move(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.id(w, r, ps, "MoveFrame", "id")
	if !ok {
		return
	}
	var in service.MoveFrameInput
	if !h.decode(w, r, "MoveFrame", &in) {
		return
	}

	frame, err := h.frames.MoveFrame(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, "MoveFrame", err)
		return
	}
	h.ok(w, r, "MoveFrame", frame)
}

func (h *FrameHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.id(w, r, ps, "DeleteFrame", "id")
	if !ok {
		return
	}

	if err := h.frames.DeleteFrame(r.Context(), id); err != nil {
		h.fail(w, r, "DeleteFrame", err)
		return
	}
	h.respond(w, r, "DeleteFrame", http.StatusOK, SuccessResponse{Message: "Frame deleted"})
}

// DeleteGroup удаляет все окна группы повторов. Пустая группа отдаёт 404.
func (h *FrameHandler) DeleteGroup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	raw := ps.ByName("group_id")
	groupID, err := uuid.Parse(raw)
	if err != nil {
		h.fail(w, r, "DeleteFrameGroup", fmt.Errorf("%w: invalid group_id %q", errBadRequest, raw))
		return
	}

	deleted, err := h.frames.DeleteFramesByRepeatGroup(r.Context(), groupID)
	if err != nil {
		h.fail(w, r, "DeleteFrameGroup", err)
		return
	}
	if deleted == 0 {
		h.respond(w, r, "DeleteFrameGroup", http.StatusNotFound, ErrorResponse{
			Code:    codeNotFound,
			Message: "No frames found for repeat group",
		})
		return
	}
	h.respond(w, r, "DeleteFrameGroup", http.StatusOK, SuccessResponse{
		Message: fmt.Sprintf("Deleted %d frames", deleted),
		Data:    map[string]int64{"deleted": deleted},
	})
}

func (h *FrameHandler) ListByStaff(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	staffID, ok := h.id(w, r, ps, "ListFramesByStaff", "staff_id")
	if !ok {
		return
	}

	frames, err := h.frames.ListFramesByStaff(r.Context(), staffID)
	if err != nil {
		h.fail(w, r, "ListFramesByStaff", err)
		return
	}
	h.ok(w, r, "ListFramesByStaff", frames)
}

func (h *FrameHandler) ListSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := h.id(w, r, ps, "ListFrameSlots", "id")
	if !ok {
		return
	}

	slots, err := h.slots.ListSlotsByFrame(r.Context(), id)
	if err != nil {
		h.fail(w, r, "ListFrameSlots", err)
		return
	}
	h.ok(w, r, "ListFrameSlots", slots)
}

func (h *FrameHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/frames", h.Create)
	router.GET("/api/v1/frames/:id", h.Get)
	router.PATCH("/api/v1/frames/:id", h.Update)
	router.POST("/api/v1/frames/:id/move", h.Move)
	router.DELETE("/api/v1/frames/:id", h.Delete)
	router.GET("/api/v1/frames/:id/slots", h.ListSlots)
	router.DELETE("/api/v1/frame-groups/:group_id", h.DeleteGroup)
	router.GET("/api/v1/staff/:staff_id/frames", h.ListByStaff)
}
