package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minerx-cloud/minerx/internal/models"
)

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Register creates an account with zero balances and no contracts.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("username and a valid email are required: %w", ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", ErrValidation)
	}

	user := &models.User{
		ID:           "user_" + uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hashPassword(password),
		KycStatus:    models.KycNotVerified,
		Balances:     models.NewBalances(),
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.events.publish(Event{Kind: EventAccountUpdated, UserID: user.ID})
	s.activity(ctx, user.ID, "auth", fmt.Sprintf("account registered for %s", email))
	s.logger.Infof("registered account %s (%s)", user.ID, email)
	return user, nil
}

// EnsureAdmin creates the administrator account on first run.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	admin, err := s.Register(ctx, "Admin", email, password)
	if err != nil {
		return err
	}
	admin.IsAdmin = true
	admin.KycStatus = models.KycVerified
	if err := s.repo.UpdateUser(ctx, admin); err != nil {
		return err
	}
	s.logger.Infof("admin account %s created", admin.ID)
	return nil
}

// Authenticate checks credentials and returns the account id. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	supplied := hashPassword(password)
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(user.PasswordHash)) != 1 {
		return "", ErrInvalidCredentials
	}
	s.activity(ctx, user.ID, "auth", "signed in")
	return user.ID, nil
}
