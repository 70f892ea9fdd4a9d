package service

import (
	"context"
	"sync"
	"time"

	"github.com/minerx-cloud/minerx/config"
	"github.com/minerx-cloud/minerx/internal/models"
	"github.com/minerx-cloud/minerx/utils"
)

type Repository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	SaveUserAndTransaction(ctx context.Context, user *models.User, tx *models.Transaction) error
	ListUsers(ctx context.Context) ([]*models.User, error)

	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, tx *models.Transaction, user *models.User) error
	ListTransactionsByUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	ListPendingByType(ctx context.Context, txType models.TransactionType) ([]*models.Transaction, error)
	ListTransactions(ctx context.Context) ([]*models.Transaction, error)

	GetPlan(ctx context.Context, id string) (*models.Plan, error)
	SavePlan(ctx context.Context, plan *models.Plan) error
	ListPlans(ctx context.Context) ([]*models.Plan, error)

	AppendActivity(ctx context.Context, entry models.ActivityEntry) error
	ListActivity(ctx context.Context) ([]models.ActivityEntry, error)
}

// RateSource supplies the current currency->USD snapshot for valuation.
type RateSource interface {
	Snapshot() models.Rates
}

type Service struct {
	repo   Repository
	rates  RateSource
	logger *utils.Logger
	config *config.Config
	events broadcaster

	// One mutex serializes every balance-mutating operation so a status
	// change and its paired balance delta are never interleaved with another
	// writer.
	mu sync.Mutex

	now func() time.Time
}

func NewService(repo Repository, rates RateSource, cfg *config.Config, logger *utils.Logger) *Service {
	return &Service{
		repo:   repo,
		rates:  rates,
		logger: logger,
		config: cfg,
		now:    time.Now,
	}
}

// Subscribe exposes the mutation broadcast to presentation layers.
func (s *Service) Subscribe() <-chan Event {
	return s.events.Subscribe()
}

func (s *Service) activity(ctx context.Context, userID, kind, message string) {
	entry := models.ActivityEntry{
		Time:    s.now(),
		UserID:  userID,
		Kind:    kind,
		Message: message,
	}
	if err := s.repo.AppendActivity(ctx, entry); err != nil {
		s.logger.Warnf("failed to append activity entry: %v", err)
	}
}
