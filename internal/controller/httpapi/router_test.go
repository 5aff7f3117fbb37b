package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/controller/httpapi"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository/memstore"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/Freeeeeet/staff_scheduler/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

var today = time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
	Data    json.RawMessage `json:"data"`
}

func newServer(t *testing.T) http.Handler {
	t.Helper()

	store := memstore.New()
	store.AddStaff(&model.Staff{ID: 1, Name: "Dr. Lee"})
	store.AddStaff(&model.Staff{ID: 2, Name: "Ms. Tan"})

	logger := zaptest.NewLogger(t)
	v := validation.New()
	opts := service.Options{RecurrenceWeeks: 4, MinSlotDuration: 5, Now: func() time.Time { return today }}

	return httpapi.NewRouter(httpapi.Services{
		Frames:   service.NewFrameService(store, v, opts, logger),
		Slots:    service.NewSlotService(store, v, logger),
		Bookings: service.NewBookingService(store, v, opts, logger),
	}, logger)
}

func do(t *testing.T, h http.Handler, method, path string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func createFrame(t *testing.T, h http.Handler) model.Frame {
	t.Helper()

	status, env := do(t, h, http.MethodPost, "/api/v1/frames", map[string]any{
		"staff_id":   1,
		"date":       "2025-10-21",
		"title":      "Consultations",
		"start_time": "09:00",
		"end_time":   "10:00",
		"duration":   20,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	var frame model.Frame
	require.NoError(t, json.Unmarshal(env.Data, &frame))
	return frame
}

func booking(slotID int64) map[string]any {
	return map[string]any{
		"staff_id":             1,
		"availability_slot_id": slotID,
		"visitor_name":         "Alice",
		"phone_number":         "+6012345678",
		"email":                "alice@example.com",
		"purpose":              "Enrollment",
	}
}

func TestHealthz(t *testing.T) {
	h := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCreateFrameAndConflict(t *testing.T) {
	h := newServer(t)

	frame := createFrame(t, h)
	assert.Len(t, frame.Slots, 3)

	status, env := do(t, h, http.MethodPost, "/api/v1/frames", map[string]any{
		"staff_id":   1,
		"date":       "2025-10-21",
		"title":      "Late",
		"start_time": "09:30",
		"end_time":   "11:00",
		"duration":   30,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "overlap_conflict", env.Code)
	assert.Contains(t, env.Message, "Consultations (09:00:00 - 10:00:00)")
}

func TestCreateFrameErrors(t *testing.T) {
	h := newServer(t)

	t.Run("malformed body", func(t *testing.T) {
		status, env := do(t, h, http.MethodPost, "/api/v1/frames", "{")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid request body", env.Message)
	})

	t.Run("validation", func(t *testing.T) {
		status, env := do(t, h, http.MethodPost, "/api/v1/frames", map[string]any{
			"staff_id":   1,
			"date":       "2025-10-21",
			"title":      "Bad",
			"start_time": "10:00",
			"end_time":   "09:00",
			"duration":   20,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, "validation_failed", env.Code)

		var fields []map[string]string
		require.NoError(t, json.Unmarshal(env.Details, &fields))
		assert.Contains(t, fields, map[string]string{"field": "end_time", "message": "must be after start_time"})
	})

	t.Run("unknown staff", func(t *testing.T) {
		status, env := do(t, h, http.MethodPost, "/api/v1/frames", map[string]any{
			"staff_id":   99,
			"date":       "2025-10-21",
			"title":      "Ghost",
			"start_time": "09:00",
			"end_time":   "10:00",
			"duration":   20,
		})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "not_found", env.Code)
	})
}

func TestGetFrameBadID(t *testing.T) {
	h := newServer(t)

	status, env := do(t, h, http.MethodGet, "/api/v1/frames/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "bad_request", env.Code)

	status, _ = do(t, h, http.MethodGet, "/api/v1/frames/42", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPublicBookingFlow(t *testing.T) {
	h := newServer(t)
	frame := createFrame(t, h)
	slotID := frame.Slots[0].ID

	status, env := do(t, h, http.MethodPost, "/api/v1/public/bookings", booking(slotID))
	require.Equal(t, http.StatusCreated, status, env.Message)

	var appointment model.Appointment
	require.NoError(t, json.Unmarshal(env.Data, &appointment))
	assert.Equal(t, model.AppointmentStatusPending, appointment.Status)

	status, env = do(t, h, http.MethodPost, "/api/v1/appointments", booking(slotID))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "slot_unavailable", env.Code)

	mismatch := booking(frame.Slots[1].ID)
	mismatch["staff_id"] = 2
	status, env = do(t, h, http.MethodPost, "/api/v1/appointments", mismatch)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "staff_mismatch", env.Code)

	status, env = do(t, h, http.MethodGet, "/api/v1/public/staff/1/availability?from=2025-10-20", nil)
	require.Equal(t, http.StatusOK, status)

	var availability model.StaffAvailability
	require.NoError(t, json.Unmarshal(env.Data, &availability))
	require.Len(t, availability.Days, 1)
	assert.Equal(t, "2025-10-21", availability.Days[0].Date)
	assert.Len(t, availability.Days[0].Slots, 2)

	status, _ = do(t, h, http.MethodDelete, "/api/v1/slots/"+itoa(slotID), nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, h, http.MethodPatch, "/api/v1/appointments/"+itoa(appointment.ID)+"/cancel", nil)
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = do(t, h, http.MethodGet, "/api/v1/slots/"+itoa(slotID), nil)
	require.Equal(t, http.StatusOK, status)
	var slot model.Slot
	require.NoError(t, json.Unmarshal(env.Data, &slot))
	assert.Equal(t, model.SlotStatusAvailable, slot.Status)
}

func TestAvailabilityBadDate(t *testing.T) {
	h := newServer(t)

	status, env := do(t, h, http.MethodGet, "/api/v1/public/staff/1/availability?from=21-10-2025", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "validation_failed", env.Code)
}

func TestDeleteFrameGroup(t *testing.T) {
	h := newServer(t)

	status, env := do(t, h, http.MethodPost, "/api/v1/frames", map[string]any{
		"staff_id":     1,
		"date":         "2025-10-22",
		"title":        "Weekly",
		"start_time":   "14:00",
		"end_time":     "15:00",
		"duration":     30,
		"is_recurring": true,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var frame model.Frame
	require.NoError(t, json.Unmarshal(env.Data, &frame))
	require.NotNil(t, frame.RepeatGroupID)

	status, env = do(t, h, http.MethodDelete, "/api/v1/frame-groups/"+frame.RepeatGroupID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"deleted":5}`, string(env.Data))

	status, _ = do(t, h, http.MethodDelete, "/api/v1/frame-groups/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, h, http.MethodDelete, "/api/v1/frame-groups/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRecoveryMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	h := httpapi.Chain(panicking, httpapi.Recovery(zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code":"internal_error","message":"Internal server error"}`, rec.Body.String())
}

func TestPublicBookingIgnoresStatus(t *testing.T) {
	h := newServer(t)
	frame := createFrame(t, h)

	body := booking(frame.Slots[0].ID)
	body["status"] = "approved"

	status, env := do(t, h, http.MethodPost, "/api/v1/public/bookings", body)
	require.Equal(t, http.StatusCreated, status, env.Message)

	var appointment model.Appointment
	require.NoError(t, json.Unmarshal(env.Data, &appointment))
	assert.Equal(t, model.AppointmentStatusPending, appointment.Status)
}

func TestPublicBookingRejectsHiddenFrames(t *testing.T) {
	h := newServer(t)

	cases := []struct {
		name  string
		frame map[string]any
	}{
		{"private", map[string]any{"date": "2025-10-22", "visibility": "private"}},
		{"inactive", map[string]any{"date": "2025-10-23", "status": "inactive"}},
		{"past", map[string]any{"date": "2025-10-01"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := map[string]any{
				"staff_id":   1,
				"title":      "Hidden",
				"start_time": "13:00",
				"end_time":   "14:00",
				"duration":   30,
			}
			for k, v := range tc.frame {
				in[k] = v
			}
			status, env := do(t, h, http.MethodPost, "/api/v1/frames", in)
			require.Equal(t, http.StatusCreated, status, env.Message)
			var frame model.Frame
			require.NoError(t, json.Unmarshal(env.Data, &frame))

			status, env = do(t, h, http.MethodPost, "/api/v1/public/bookings", booking(frame.Slots[0].ID))
			assert.Equal(t, http.StatusConflict, status)
			assert.Equal(t, "slot_unavailable", env.Code)

			// сотрудник по-прежнему может записать посетителя сам
			status, env = do(t, h, http.MethodPost, "/api/v1/appointments", booking(frame.Slots[0].ID))
			assert.Equal(t, http.StatusCreated, status, env.Message)
		})
	}
}
