package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/minerx-cloud/minerx/internal/models"
	"github.com/minerx-cloud/minerx/internal/service"
)

// watchEvents pushes new pending deposit/withdrawal requests to the admin
// chat as they are created, so review does not depend on polling the queues.
func (b *Bot) watchEvents(ctx context.Context) {
	events := b.service.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			if event.Kind != service.EventTransactionsUpdated || event.TxID == "" {
				continue
			}
			b.notifyNewRequest(ctx, event.TxID)
		}
	}
}

func (b *Bot) notifyNewRequest(ctx context.Context, txID string) {
	tx, err := b.service.GetTransaction(ctx, txID)
	if err != nil {
		b.logger.Debugf("notification lookup for %s failed: %v", txID, err)
		return
	}
	if tx.Status != models.StatusPending {
		return
	}
	if tx.Type != models.TxDeposit && tx.Type != models.TxWithdrawal {
		return
	}
	text := fmt.Sprintf(
		"🔔 New %s request `%s`\n👤 User: `%s`\n💰 `%.8f %s`",
		tx.Type, tx.ID, tx.UserID, tx.Amount, strings.ToUpper(tx.Currency),
	)
	b.sendMessage(b.config.AdminChatID, text, nil)
}
