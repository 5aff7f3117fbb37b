package slotstate_test

import (
	"testing"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/slotstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    model.SlotStatus
		event   slotstate.Event
		want    model.SlotStatus
		wantErr error
	}{
		{"book available", model.SlotStatusAvailable, slotstate.Book, model.SlotStatusBooked, nil},
		{"book booked", model.SlotStatusBooked, slotstate.Book, model.SlotStatusBooked, apperrors.ErrSlotUnavailable},
		{"book unavailable", model.SlotStatusUnavailable, slotstate.Book, model.SlotStatusUnavailable, apperrors.ErrSlotUnavailable},
		{"release booked", model.SlotStatusBooked, slotstate.Release, model.SlotStatusAvailable, nil},
		{"release unavailable", model.SlotStatusUnavailable, slotstate.Release, model.SlotStatusAvailable, nil},
		{"close available", model.SlotStatusAvailable, slotstate.MarkUnavailable, model.SlotStatusUnavailable, nil},
		{"close booked", model.SlotStatusBooked, slotstate.MarkUnavailable, model.SlotStatusBooked, apperrors.ErrInvalidTransition},
		{"open unavailable", model.SlotStatusUnavailable, slotstate.MarkAvailable, model.SlotStatusAvailable, nil},
		{"open booked", model.SlotStatusBooked, slotstate.MarkAvailable, model.SlotStatusBooked, apperrors.ErrInvalidTransition},
		{"unknown event", model.SlotStatusAvailable, slotstate.Event("nope"), model.SlotStatusAvailable, apperrors.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := slotstate.Transition(tt.from, tt.event)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestManual(t *testing.T) {
	got, err := slotstate.Manual(model.SlotStatusAvailable, model.SlotStatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusAvailable, got)

	got, err = slotstate.Manual(model.SlotStatusAvailable, model.SlotStatusUnavailable)
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusUnavailable, got)

	_, err = slotstate.Manual(model.SlotStatusAvailable, model.SlotStatusBooked)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = slotstate.Manual(model.SlotStatusBooked, model.SlotStatusAvailable)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestCanDelete(t *testing.T) {
	assert.True(t, slotstate.CanDelete(false))
	assert.False(t, slotstate.CanDelete(true))
}
