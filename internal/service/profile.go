package service

import (
	"context"
	"errors"

	"github.com/anonto42/nano-midea/accounts/internal/apperrors"
	"github.com/anonto42/nano-midea/accounts/internal/models"
	"github.com/anonto42/nano-midea/accounts/internal/repositories"
)

// GetProfile returns the account with its posts expanded.
func (s *AccountService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	account, err := s.accounts.GetAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.GetPostsByIDs(ctx, account.Posts)
	if err != nil {
		return nil, err
	}
	return &models.Profile{Account: account, Posts: posts}, nil
}

// UpdateProfile applies the non-empty fields of req. Moving to an email held
// by another account is rejected.
func (s *AccountService) UpdateProfile(ctx context.Context, callerID string, req models.UpdateProfileRequest) (*models.Account, error) {
	account, err := s.accounts.GetAccountByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		account.Name = req.Name
	}
	if email := normalizeEmail(req.Email); email != "" && email != account.Email {
		other, err := s.accounts.GetAccountByEmail(ctx, email)
		switch {
		case err == nil && other.ID != account.ID:
			return nil, repositories.ErrEmailTaken
		case err != nil && !errors.Is(err, apperrors.ErrNotFound):
			return nil, err
		}
		account.Email = email
	}

	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ListAccounts returns every account, unpaginated.
func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.accounts.GetAccounts(ctx)
}
