package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/minerx-cloud/minerx/config"
	"github.com/minerx-cloud/minerx/internal/service"
	"github.com/minerx-cloud/minerx/utils"
)

// Bot is the admin review surface: pending deposit and withdrawal queues with
// inline approve/reject, the KYC queue, user and activity listings, and plan
// price edits.
type Bot struct {
	API     *tgbotapi.BotAPI
	service *service.Service
	logger  *utils.Logger
	config  *config.Config

	userStates map[int64]string
	stateMutex sync.Mutex
}

func NewBot(
	api *tgbotapi.BotAPI,
	svc *service.Service,
	logger *utils.Logger,
	cfg *config.Config,
) *Bot {
	return &Bot{
		API:        api,
		service:    svc,
		logger:     logger,
		config:     cfg,
		userStates: make(map[int64]string),
	}
}

func (b *Bot) Start(ctx context.Context) {
	b.logger.Info("starting admin bot...")
	go b.watchEvents(ctx)

	updates := b.API.GetUpdatesChan(tgbotapi.NewUpdate(0))
	for {
		select {
		case <-ctx.Done():
			b.API.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.CallbackQuery != nil {
				b.handleCallbackQuery(ctx, update.CallbackQuery)
				continue
			}
			if update.Message != nil {
				b.handleMessage(ctx, update.Message)
			}
		}
	}
}

func mainMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("📥 Pending Deposits"),
			tgbotapi.NewKeyboardButton("📤 Pending Withdrawals"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🪪 KYC Queue"),
			tgbotapi.NewKeyboardButton("👥 Users"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("📒 Activity"),
			tgbotapi.NewKeyboardButton("🧾 Ledger"),
		),
	)
}

func (b *Bot) sendMessage(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.API.Send(msg); err != nil {
		b.logger.Errorf("failed to send message: %v", err)
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.API.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.logger.Errorf("failed to answer callback: %v", err)
	}
}
