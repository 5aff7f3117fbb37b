package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/keyboard"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/state"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// answerRule проверка ответа на шаге диалога и его запись в черновик
type answerRule struct {
	field  string
	tag    string
	set    func(d *state.BookingDraft, answer string)
	prompt string // вопрос следующего шага
}

var answerRules = map[state.Step]answerRule{
	state.StepName: {
		field: "visitor_name", tag: "required,max=255",
		set:    func(d *state.BookingDraft, v string) { d.VisitorName = v },
		prompt: "Шаг 2 из 4: Ваш номер телефона?",
	},
	state.StepPhone: {
		field: "phone_number", tag: "required,max=20",
		set:    func(d *state.BookingDraft, v string) { d.PhoneNumber = v },
		prompt: "Шаг 3 из 4: Ваш email?",
	},
	state.StepEmail: {
		field: "email", tag: "required,email,max=255",
		set:    func(d *state.BookingDraft, v string) { d.Email = v },
		prompt: "Шаг 4 из 4: Цель визита?",
	},
	state.StepPurpose: {
		field: "purpose", tag: "required,max=1000",
	},
}

func cancelKeyboard() *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().Row(keyboard.Button("❌ Отменить", CancelDialog)).Build()
}

// HandleTextMessage продвигает диалог записи. Сообщения вне диалога игнорируются.
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || strings.HasPrefix(update.Message.Text, "/") {
		return
	}
	chatID := update.Message.Chat.ID
	current := h.stateManager.Step(chatID)

	rule, ok := answerRules[current]
	if !ok {
		return
	}

	answer := strings.TrimSpace(update.Message.Text)
	if err := h.validator.Var(rule.field, answer, rule.tag); err != nil {
		h.sendText(ctx, b, chatID, errorText(err)+"\n\nПопробуйте ещё раз или /cancel")
		return
	}

	var apply func(*state.BookingDraft)
	if rule.set != nil {
		apply = func(d *state.BookingDraft) { rule.set(d, answer) }
	}
	next, draft, ok := h.stateManager.Advance(chatID, current, apply)
	if !ok {
		// диалог уже сменился другим сообщением или истёк
		return
	}
	if next != state.StepNone {
		h.send(ctx, b, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        rule.prompt,
			ReplyMarkup: cancelKeyboard(),
		})
		return
	}

	in := publicBookingInput(draft, answer)
	appointment, err := h.bookingService.BookPublicAppointment(ctx, in)
	if err != nil {
		h.logger.Info("Booking rejected",
			zap.Int64("chat_id", chatID),
			zap.Int64("slot_id", in.SlotID),
			zap.Error(err))
		h.sendText(ctx, b, chatID, errorText(err))
		return
	}

	h.logger.Info("Appointment booked via bot",
		zap.Int64("chat_id", chatID),
		zap.Int64("appointment_id", appointment.ID),
		zap.Int64("slot_id", appointment.SlotID))

	h.sendText(ctx, b, chatID, formatting.FormatBookingSummary(appointment))
}

// HandleCallbackQuery обрабатывает нажатия inline-кнопок
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}
	chatID := callbackChatID(callback)

	h.logger.Debug("Routing callback",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case callback.Data == CancelDialog:
		h.stateManager.Clear(chatID)
		h.answerCallback(ctx, b, callback.ID, "Запись отменена")

	case strings.HasPrefix(callback.Data, BookSlot):
		staffID, slotID, err := ParseBookSlot(callback.Data)
		if err != nil {
			h.answerCallback(ctx, b, callback.ID, "❌ Некорректная кнопка")
			return
		}
		h.stateManager.Begin(chatID, staffID, slotID)
		h.answerCallback(ctx, b, callback.ID, "")
		h.send(ctx, b, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        "📝 Запись на приём\n\nШаг 1 из 4: Как вас зовут?",
			ReplyMarkup: cancelKeyboard(),
		})

	default:
		h.answerCallback(ctx, b, callback.ID, "")
	}
}

// publicBookingInput запрос на запись из черновика диалога и цели визита
func publicBookingInput(d state.BookingDraft, purpose string) service.PublicBookingInput {
	return service.PublicBookingInput{
		StaffID:     d.StaffID,
		SlotID:      d.SlotID,
		VisitorName: d.VisitorName,
		PhoneNumber: d.PhoneNumber,
		Email:       d.Email,
		Purpose:     purpose,
	}
}

// errorText сообщение посетителю по ошибке сервиса
func errorText(err error) string {
	var (
		validationErr *apperrors.ValidationError
		notFoundErr   *apperrors.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		lines := make([]string, 0, len(validationErr.Fields))
		for _, f := range validationErr.Fields {
			lines = append(lines, "• "+f.Field+": "+f.Message)
		}
		return "❌ Проверьте данные:\n" + strings.Join(lines, "\n")
	case errors.As(err, &notFoundErr):
		return "❌ Не найдено: " + notFoundErr.Error()
	case errors.Is(err, apperrors.ErrSlotUnavailable):
		return "❌ Этот слот недоступен, выберите другой через /slots"
	case errors.Is(err, apperrors.ErrStaffMismatch):
		return "❌ Слот не принадлежит выбранному сотруднику"
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}
