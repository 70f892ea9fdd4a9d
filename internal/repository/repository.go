package repository

import (
	"strings"
	"sync/atomic"

	"github.com/minerx-cloud/minerx/internal/models"
	"github.com/minerx-cloud/minerx/utils"
)

const (
	userPrefix  = "users/"
	emailPrefix = "users_by_email/"
	txPrefix    = "transactions/"
	planPrefix  = "plans/"
	activityKey = "activity_log"
)

type Repository struct {
	store  Store
	logger *utils.Logger
	seq    atomic.Uint64
}

func NewRepository(store Store, logger *utils.Logger) (*Repository, error) {
	r := &Repository{store: store, logger: logger}

	// Recover the insertion counter so transaction ordering survives restarts.
	var last uint64
	err := store.List(txPrefix, func(key string, value []byte) error {
		var tx models.Transaction
		if err := decode(key, value, &tx); err != nil {
			return err
		}
		if tx.Seq > last {
			last = tx.Seq
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.seq.Store(last)
	return r, nil
}

func (r *Repository) nextSeq() uint64 {
	return r.seq.Add(1)
}

func userKey(id string) string    { return userPrefix + id }
func emailKey(email string) string {
	return emailPrefix + strings.ToLower(email)
}
func txKey(id string) string   { return txPrefix + id }
func planKey(id string) string { return planPrefix + id }
