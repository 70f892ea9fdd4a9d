package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/minerx-cloud/minerx/internal/models"
)

func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	found, err := r.store.Get(userKey(id), &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var id string
	found, err := r.store.Get(emailKey(email), &id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return r.GetUser(ctx, id)
}

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	existing, err := r.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("user with email %s already exists", user.Email)
	}
	return r.store.SetBatch(map[string]any{
		userKey(user.ID):      user,
		emailKey(user.Email): user.ID,
	})
}

func (r *Repository) UpdateUser(ctx context.Context, user *models.User) error {
	return r.store.Set(userKey(user.ID), user)
}

// SaveUserAndTransaction persists both records in one write. Every status
// change that carries a balance delta goes through here.
func (r *Repository) SaveUserAndTransaction(ctx context.Context, user *models.User, tx *models.Transaction) error {
	return r.store.SetBatch(map[string]any{
		userKey(user.ID): user,
		txKey(tx.ID):     tx,
	})
}

func (r *Repository) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.store.List(userPrefix, func(key string, value []byte) error {
		var user models.User
		if err := decode(key, value, &user); err != nil {
			return err
		}
		users = append(users, &user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}
