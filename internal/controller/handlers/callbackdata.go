package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Форматы callback data
const (
	BookSlot     = "book_slot:"    // book_slot:staff_id:slot_id
	CancelDialog = "cancel_dialog" // отмена диалога записи
)

var errBadCallback = errors.New("malformed callback data")

// BookSlotData callback data кнопки записи на слот
func BookSlotData(staffID, slotID int64) string {
	return fmt.Sprintf("%s%d:%d", BookSlot, staffID, slotID)
}

// ParseBookSlot разбирает book_slot:staff_id:slot_id
func ParseBookSlot(data string) (staffID, slotID int64, err error) {
	rest, ok := strings.CutPrefix(data, BookSlot)
	if !ok {
		return 0, 0, errBadCallback
	}
	rawStaff, rawSlot, ok := strings.Cut(rest, ":")
	if !ok {
		return 0, 0, errBadCallback
	}
	if staffID, err = strconv.ParseInt(rawStaff, 10, 64); err != nil || staffID <= 0 {
		return 0, 0, errBadCallback
	}
	if slotID, err = strconv.ParseInt(rawSlot, 10, 64); err != nil || slotID <= 0 {
		return 0, 0, errBadCallback
	}
	return staffID, slotID, nil
}

// ParseSlotsCommand достаёт staff_id из "/slots 12"
func ParseSlotsCommand(text string) (int64, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, errors.New("usage: /slots <staff_id>")
	}
	staffID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || staffID <= 0 {
		return 0, fmt.Errorf("invalid staff id %q", fields[1])
	}
	return staffID, nil
}
