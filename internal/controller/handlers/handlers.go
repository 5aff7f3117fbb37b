// Package handlers обработчики команд, диалога записи и нажатий inline-кнопок бота.
package handlers

import (
	"context"

	"github.com/Freeeeeet/staff_scheduler/internal/controller/state"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/Freeeeeet/staff_scheduler/internal/validation"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handlers зависимости обработчиков бота
type Handlers struct {
	bookingService *service.BookingService
	validator      *validation.Validator
	stateManager   *state.Manager
	logger         *zap.Logger
}

func NewHandlers(
	bookingService *service.BookingService,
	validator *validation.Validator,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		bookingService: bookingService,
		validator:      validator,
		stateManager:   stateManager,
		logger:         logger,
	}
}

func (h *Handlers) send(ctx context.Context, b *bot.Bot, params *bot.SendMessageParams) {
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Any("chat_id", params.ChatID),
			zap.Error(err))
	}
}

func (h *Handlers) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: text})
}

func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string) {
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	}); err != nil {
		h.logger.Warn("Failed to answer callback", zap.Error(err))
	}
}

// callbackChatID чат, в котором нажата кнопка
func callbackChatID(callback *models.CallbackQuery) int64 {
	if callback.Message.Message != nil {
		return callback.Message.Message.Chat.ID
	}
	return callback.From.ID
}
