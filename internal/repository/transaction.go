package repository

import (
	"context"
	"sort"

	"github.com/minerx-cloud/minerx/internal/models"
)

func (r *Repository) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	found, err := r.store.Get(txKey(id), &tx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &tx, nil
}

// CreateTransaction assigns the insertion sequence and persists the record,
// together with the owning user when the creation carries a balance change
// (withdrawal hold, purchase debit).
func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction, user *models.User) error {
	tx.Seq = r.nextSeq()
	entries := map[string]any{txKey(tx.ID): tx}
	if user != nil {
		entries[userKey(user.ID)] = user
	}
	return r.store.SetBatch(entries)
}

func (r *Repository) listTransactions(filter func(*models.Transaction) bool) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	err := r.store.List(txPrefix, func(key string, value []byte) error {
		var tx models.Transaction
		if err := decode(key, value, &tx); err != nil {
			return err
		}
		if filter == nil || filter(&tx) {
			txs = append(txs, &tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Newest first; insertion order breaks date ties.
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].Seq > txs[j].Seq
	})
	return txs, nil
}

func (r *Repository) ListTransactionsByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return r.listTransactions(func(tx *models.Transaction) bool {
		return tx.UserID == userID
	})
}

func (r *Repository) ListPendingByType(ctx context.Context, txType models.TransactionType) ([]*models.Transaction, error) {
	return r.listTransactions(func(tx *models.Transaction) bool {
		return tx.Type == txType && tx.Status == models.StatusPending
	})
}

func (r *Repository) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	return r.listTransactions(nil)
}
