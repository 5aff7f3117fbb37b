package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// base общие помощники обработчиков: разбор тела и параметров, запись ответа
type base struct {
	logger *zap.Logger
}

func (b base) decode(w http.ResponseWriter, r *http.Request, handler string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		b.respond(w, r, handler, http.StatusBadRequest, ErrorResponse{
			Code:    codeBadRequest,
			Message: "Invalid request body",
		})
		return false
	}
	return true
}

func (b base) id(w http.ResponseWriter, r *http.Request, ps httprouter.Params, handler, name string) (int64, bool) {
	raw := ps.ByName(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		b.fail(w, r, handler, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, raw))
		return 0, false
	}
	return id, true
}

func (b base) respond(w http.ResponseWriter, r *http.Request, handler string, status int, body any) {
	if err := writeJSON(w, status, body); err != nil {
		b.logger.Error("failed to write response",
			zap.String("handler", handler),
			zap.String("request_id", requestID(r.Context())),
			zap.Error(err),
		)
	}
}

func (b base) fail(w http.ResponseWriter, r *http.Request, handler string, err error) {
	status, body := errorStatus(err)
	if status == http.StatusInternalServerError {
		b.logger.Error("request failed",
			zap.String("handler", handler),
			zap.String("request_id", requestID(r.Context())),
			zap.Error(err),
		)
	}
	b.respond(w, r, handler, status, body)
}

func (b base) ok(w http.ResponseWriter, r *http.Request, handler string, data any) {
	b.respond(w, r, handler, http.StatusOK, SuccessResponse{Data: data})
}

func (b base) created(w http.ResponseWriter, r *http.Request, handler string, data any) {
	b.respond(w, r, handler, http.StatusCreated, SuccessResponse{Data: data})
}
