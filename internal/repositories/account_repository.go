package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/accounts/internal/apperrors"
	"github.com/anonto42/nano-midea/accounts/internal/models"
)

var (
	ErrAccountNotFound = apperrors.NotFound("User does not exist")
	ErrEmailTaken      = apperrors.Conflict("User already exists")
)

// AccountRepository defines the interface for account data operations.
// Lookups that match nothing return ErrAccountNotFound; writes that collide on
// email return ErrEmailTaken.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByFirebaseUID(ctx context.Context, uid string) (*models.Account, error)
	// GetAccountByResetToken finds the account holding tokenHash whose reset
	// window is still open at now.
	GetAccountByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.Account, error)
	GetAccounts(ctx context.Context) ([]models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, id string) error
}

func prepareNew(account *models.Account, id string) {
	account.ID = id
	account.CreatedAt = time.Now()
	if account.Posts == nil {
		account.Posts = []string{}
	}
	if account.Followers == nil {
		account.Followers = []string{}
	}
	if account.Following == nil {
		account.Following = []string{}
	}
}
