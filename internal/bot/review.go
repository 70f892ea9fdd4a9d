package bot

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/minerx-cloud/minerx/internal/service"
)

// handleCallbackQuery dispatches inline-button actions. Review actions are
// idempotent downstream: a second press on an already-resolved transaction
// surfaces as "already processed" and changes nothing.
func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	if !b.isAdmin(chatID) {
		b.answerCallback(callback.ID, "Not authorized")
		return
	}

	action, target, ok := strings.Cut(callback.Data, ":")
	if !ok {
		b.answerCallback(callback.ID, "")
		return
	}

	// Drop the buttons so the message reflects a handled request.
	clear := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := b.API.Send(clear); err != nil {
		b.logger.Debugf("failed to clear inline keyboard: %v", err)
	}

	switch action {
	case "approve_tx":
		b.reviewTransaction(ctx, callback, chatID, target, service.DecisionApprove)
	case "reject_tx":
		b.reviewTransaction(ctx, callback, chatID, target, service.DecisionReject)
	case "approve_kyc":
		b.reviewKyc(ctx, callback, chatID, target, service.DecisionApprove)
	case "reject_kyc":
		b.reviewKyc(ctx, callback, chatID, target, service.DecisionReject)
	default:
		b.answerCallback(callback.ID, "")
	}
}

func (b *Bot) reviewTransaction(ctx context.Context, callback *tgbotapi.CallbackQuery, chatID int64, txID string, decision service.Decision) {
	err := b.service.ReviewTransaction(ctx, txID, decision)
	switch {
	case errors.Is(err, service.ErrInvalidTransition):
		b.answerCallback(callback.ID, "Already processed")
		b.sendMessage(chatID, "ℹ️ Transaction `"+txID+"` was already processed.", nil)
	case errors.Is(err, service.ErrNotFound):
		b.answerCallback(callback.ID, "Not found")
		b.sendMessage(chatID, "❌ Transaction `"+txID+"` not found.", nil)
	case err != nil:
		b.logger.Errorf("review of %s failed: %v", txID, err)
		b.answerCallback(callback.ID, "Error")
		b.sendMessage(chatID, "❌ Review failed, see logs.", nil)
	default:
		b.answerCallback(callback.ID, "Done")
		verb := "approved"
		if decision == service.DecisionReject {
			verb = "rejected"
		}
		b.sendMessage(chatID, "✅ Transaction `"+txID+"` "+verb+".", nil)
	}
}

func (b *Bot) reviewKyc(ctx context.Context, callback *tgbotapi.CallbackQuery, chatID int64, userID string, decision service.Decision) {
	if err := b.service.ReviewKyc(ctx, userID, decision); err != nil {
		b.logger.Errorf("kyc review for %s failed: %v", userID, err)
		b.answerCallback(callback.ID, "Error")
		b.sendMessage(chatID, "❌ KYC review failed, see logs.", nil)
		return
	}
	b.answerCallback(callback.ID, "Done")
	verb := "verified"
	if decision == service.DecisionReject {
		verb = "rejected"
	}
	b.sendMessage(chatID, "✅ KYC for `"+userID+"` "+verb+".", nil)
}
