package handlers

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/keyboard"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// maxSlotButtons ограничение на число кнопок в одном сообщении
const maxSlotButtons = 40

const helpText = "Доступные команды:\n" +
	"/slots <id сотрудника> - Свободные слоты для записи\n" +
	"/cancel - Прервать запись\n" +
	"/help - Справка"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendText(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"👋 Привет, %s!\n\nЗдесь можно записаться на приём к сотруднику.\n\n%s",
		update.Message.From.FirstName, helpText,
	))
}

func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendText(ctx, b, update.Message.Chat.ID, "📚 "+helpText)
}

// HandleSlots показывает свободные слоты сотрудника по датам с кнопками записи
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	staffID, err := ParseSlotsCommand(update.Message.Text)
	if err != nil {
		h.sendText(ctx, b, chatID, "❌ Укажите id сотрудника: /slots 12")
		return
	}

	h.logger.Info("Availability requested",
		zap.Int64("chat_id", chatID),
		zap.Int64("staff_id", staffID))

	availability, err := h.bookingService.ListPublicAvailability(ctx, staffID, time.Time{})
	if err != nil {
		h.sendText(ctx, b, chatID, errorText(err))
		return
	}

	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      formatting.FormatAvailability(escapeStaff(availability)),
		ParseMode: models.ParseModeHTML,
	}
	if len(availability.Days) > 0 {
		params.ReplyMarkup = slotsKeyboard(availability)
	}
	h.send(ctx, b, params)
}

// HandleCancel прерывает диалог записи
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if !h.stateManager.Clear(chatID) {
		h.sendText(ctx, b, chatID, "Нет активной записи")
		return
	}
	h.sendText(ctx, b, chatID, "❌ Запись отменена")
}

func slotsKeyboard(a *model.StaffAvailability) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, maxSlotButtons)
outer:
	for _, day := range a.Days {
		label := formatting.FormatDay(day.Date)
		for _, slot := range day.Slots {
			if len(buttons) == maxSlotButtons {
				break outer
			}
			buttons = append(buttons, keyboard.Button(
				fmt.Sprintf("%s %s", label, slot.StartTime.Short()),
				BookSlotData(a.Staff.ID, slot.ID),
			))
		}
	}
	return keyboard.NewBuilder().Grid(2, buttons...).Build()
}

func escapeStaff(a *model.StaffAvailability) *model.StaffAvailability {
	staff := *a.Staff
	staff.Name = html.EscapeString(staff.Name)
	staff.Position = html.EscapeString(staff.Position)
	staff.Department = html.EscapeString(staff.Department)

	days := make([]model.DayAvailability, len(a.Days))
	for i, day := range a.Days {
		slots := make([]model.PublicSlot, len(day.Slots))
		for j, slot := range day.Slots {
			slot.FrameTitle = html.EscapeString(slot.FrameTitle)
			slots[j] = slot
		}
		days[i] = model.DayAvailability{Date: day.Date, Slots: slots}
	}
	return &model.StaffAvailability{Staff: &staff, Days: days}
}
