package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/minerx-cloud/minerx/internal/models"
)

func (b *Bot) isAdmin(chatID int64) bool {
	return chatID == b.config.AdminChatID
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.isAdmin(chatID) {
		b.sendMessage(chatID, "This bot is for MinerX administrators only.", nil)
		return
	}

	if b.getState(chatID) == stateAwaitingPlanPrice {
		b.handlePlanPriceInput(ctx, chatID, msg.Text)
		return
	}

	switch msg.Text {
	case "/start":
		b.sendMessage(chatID, "MinerX admin console. Pick a queue below.", mainMenu())
	case "📥 Pending Deposits":
		b.sendPendingQueue(ctx, chatID, models.TxDeposit)
	case "📤 Pending Withdrawals":
		b.sendPendingQueue(ctx, chatID, models.TxWithdrawal)
	case "🪪 KYC Queue":
		b.sendKycQueue(ctx, chatID)
	case "👥 Users":
		b.sendUserList(ctx, chatID)
	case "📒 Activity":
		b.sendActivity(ctx, chatID)
	case "🧾 Ledger":
		b.sendLedger(ctx, chatID)
	case "/setprice":
		b.setState(chatID, stateAwaitingPlanPrice)
		b.sendMessage(chatID, "Send `<plan_id> <new_price>`:", tgbotapi.NewRemoveKeyboard(true))
	default:
		b.sendMessage(chatID, "Unknown command. Use the menu.", mainMenu())
	}
}

func (b *Bot) sendPendingQueue(ctx context.Context, chatID int64, txType models.TransactionType) {
	pending, err := b.service.ListPendingByType(ctx, txType)
	if err != nil {
		b.logger.Errorf("failed to list pending %s transactions: %v", txType, err)
		b.sendMessage(chatID, "❌ Failed to load the queue.", nil)
		return
	}
	if len(pending) == 0 {
		b.sendMessage(chatID, fmt.Sprintf("No pending %s requests.", txType), nil)
		return
	}
	for _, tx := range pending {
		text := fmt.Sprintf(
			"🆕 %s request `%s`\n\n👤 User: `%s`\n💰 Amount: `%.8f %s`\n🏷 Address: `%s`\n🕑 %s",
			capitalize(string(tx.Type)), tx.ID, tx.UserID, tx.Amount,
			strings.ToUpper(tx.Currency), tx.Address, tx.Date.Format("2006-01-02 15:04"),
		)
		markup := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Approve", "approve_tx:"+tx.ID),
				tgbotapi.NewInlineKeyboardButtonData("❌ Reject", "reject_tx:"+tx.ID),
			),
		)
		b.sendMessage(chatID, text, markup)
	}
}

func (b *Bot) sendKycQueue(ctx context.Context, chatID int64) {
	users, err := b.service.ListUsers(ctx)
	if err != nil {
		b.logger.Errorf("failed to list users: %v", err)
		b.sendMessage(chatID, "❌ Failed to load the KYC queue.", nil)
		return
	}
	var any bool
	for _, user := range users {
		if user.KycStatus != models.KycPending {
			continue
		}
		any = true
		text := fmt.Sprintf("🪪 KYC review for `%s` (%s)", user.Username, user.Email)
		markup := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Verify", "approve_kyc:"+user.ID),
				tgbotapi.NewInlineKeyboardButtonData("❌ Reject", "reject_kyc:"+user.ID),
			),
		)
		b.sendMessage(chatID, text, markup)
	}
	if !any {
		b.sendMessage(chatID, "No KYC submissions awaiting review.", nil)
	}
}

func (b *Bot) sendUserList(ctx context.Context, chatID int64) {
	users, err := b.service.ListUsers(ctx)
	if err != nil {
		b.logger.Errorf("failed to list users: %v", err)
		b.sendMessage(chatID, "❌ Failed to load users.", nil)
		return
	}
	var sb strings.Builder
	for _, user := range users {
		value, err := b.service.TotalUSDValue(ctx, user.ID)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "👤 `%s` %s — $%.2f, kyc: %s\n", user.ID, user.Email, value, user.KycStatus)
	}
	if sb.Len() == 0 {
		b.sendMessage(chatID, "No registered users.", nil)
		return
	}
	b.sendMessage(chatID, sb.String(), nil)
}

func (b *Bot) sendActivity(ctx context.Context, chatID int64) {
	entries, err := b.service.ListActivity(ctx)
	if err != nil {
		b.logger.Errorf("failed to list activity: %v", err)
		b.sendMessage(chatID, "❌ Failed to load activity.", nil)
		return
	}
	if len(entries) == 0 {
		b.sendMessage(chatID, "No recent activity.", nil)
		return
	}
	const pageSize = 20
	if len(entries) > pageSize {
		entries = entries[:pageSize]
	}
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s [%s] %s\n", e.Time.Format("01-02 15:04"), e.Kind, e.Message)
	}
	b.sendMessage(chatID, sb.String(), nil)
}

func (b *Bot) sendLedger(ctx context.Context, chatID int64) {
	txs, err := b.service.ListAllTransactions(ctx)
	if err != nil {
		b.logger.Errorf("failed to list transactions: %v", err)
		b.sendMessage(chatID, "❌ Failed to load the ledger.", nil)
		return
	}
	if len(txs) == 0 {
		b.sendMessage(chatID, "The ledger is empty.", nil)
		return
	}
	const pageSize = 20
	if len(txs) > pageSize {
		txs = txs[:pageSize]
	}
	var sb strings.Builder
	for _, tx := range txs {
		fmt.Fprintf(&sb, "%s %s %.8f %s [%s] `%s`\n",
			tx.Date.Format("01-02 15:04"), tx.Type, tx.Amount,
			strings.ToUpper(tx.Currency), tx.Status, tx.UserID)
	}
	b.sendMessage(chatID, sb.String(), nil)
}

func (b *Bot) handlePlanPriceInput(ctx context.Context, chatID int64, text string) {
	b.setState(chatID, stateDefault)
	fields := strings.Fields(text)
	if len(fields) != 2 {
		b.sendMessage(chatID, "❌ Expected `<plan_id> <new_price>`.", mainMenu())
		return
	}
	price, err := strconv.ParseFloat(strings.Replace(fields[1], ",", ".", -1), 64)
	if err != nil {
		b.sendMessage(chatID, "❌ Invalid price.", mainMenu())
		return
	}
	if err := b.service.SetPlanPrice(ctx, fields[0], price); err != nil {
		b.sendMessage(chatID, "❌ "+err.Error(), mainMenu())
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("✅ Plan `%s` price set to $%.2f.", fields[0], price), mainMenu())
}
