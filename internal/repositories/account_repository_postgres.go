package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/nano-midea/accounts/internal/models"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// accountRow is the relational shape of an account. The reference lists are
// Postgres text[] columns.
type accountRow struct {
	ID                  string         `gorm:"primaryKey;size:24"`
	Name                string         `gorm:"not null"`
	Email               string         `gorm:"uniqueIndex;not null"`
	Password            string         `gorm:"not null"`
	FirebaseUID         *string        `gorm:"uniqueIndex"`
	AvatarPublicID      string
	AvatarURL           string
	Posts               pq.StringArray `gorm:"type:text[]"`
	Followers           pq.StringArray `gorm:"type:text[]"`
	Following           pq.StringArray `gorm:"type:text[]"`
	ResetPasswordToken  string         `gorm:"index"`
	ResetPasswordExpire *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (accountRow) TableName() string { return "accounts" }

func toRow(a *models.Account) *accountRow {
	return &accountRow{
		ID:                  a.ID,
		Name:                a.Name,
		Email:               a.Email,
		Password:            a.Password,
		FirebaseUID:         nullable(a.FirebaseUID),
		AvatarPublicID:      a.Avatar.PublicID,
		AvatarURL:           a.Avatar.URL,
		Posts:               pq.StringArray(a.Posts),
		Followers:           pq.StringArray(a.Followers),
		Following:           pq.StringArray(a.Following),
		ResetPasswordToken:  a.ResetPasswordToken,
		ResetPasswordExpire: a.ResetPasswordExpire,
		CreatedAt:           a.CreatedAt,
	}
}

func (row *accountRow) toModel() *models.Account {
	return &models.Account{
		ID:                  row.ID,
		Name:                row.Name,
		Email:               row.Email,
		Password:            row.Password,
		FirebaseUID:         deref(row.FirebaseUID),
		Avatar:              models.Image{PublicID: row.AvatarPublicID, URL: row.AvatarURL},
		Posts:               nonNil(row.Posts),
		Followers:           nonNil(row.Followers),
		Following:           nonNil(row.Following),
		ResetPasswordToken:  row.ResetPasswordToken,
		ResetPasswordExpire: row.ResetPasswordExpire,
		CreatedAt:           row.CreatedAt,
	}
}

// nullable keeps unlinked accounts NULL so the unique index ignores them.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(ids pq.StringArray) []string {
	if ids == nil {
		return []string{}
	}
	return []string(ids)
}

// PostgresAccountRepository implements AccountRepository for PostgreSQL
type PostgresAccountRepository struct {
	db *gorm.DB
}

// NewPostgresAccountRepository creates a new PostgresAccountRepository
func NewPostgresAccountRepository(db *gorm.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// Migrate creates or updates the accounts table.
func (r *PostgresAccountRepository) Migrate() error {
	return r.db.AutoMigrate(&accountRow{})
}

// CreateAccount creates a new account in PostgreSQL
func (r *PostgresAccountRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	prepareNew(account, primitive.NewObjectID().Hex())
	if err := r.db.WithContext(ctx).Create(toRow(account)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// GetAccountByID retrieves an account by ID from PostgreSQL
func (r *PostgresAccountRepository) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return r.first(ctx, "id = ?", id)
}

// GetAccountByEmail retrieves an account by email from PostgreSQL
func (r *PostgresAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *PostgresAccountRepository) GetAccountByFirebaseUID(ctx context.Context, uid string) (*models.Account, error) {
	if uid == "" {
		return nil, ErrAccountNotFound
	}
	return r.first(ctx, "firebase_uid = ?", uid)
}

func (r *PostgresAccountRepository) GetAccountByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.Account, error) {
	return r.first(ctx, "reset_password_token = ? AND reset_password_expire > ?", tokenHash, now)
}

// GetAccounts retrieves all accounts from PostgreSQL
func (r *PostgresAccountRepository) GetAccounts(ctx context.Context) ([]models.Account, error) {
	var rows []accountRow
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	accounts := make([]models.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, *rows[i].toModel())
	}
	return accounts, nil
}

// UpdateAccount writes every column of account, zero values included.
func (r *PostgresAccountRepository) UpdateAccount(ctx context.Context, account *models.Account) error {
	res := r.db.WithContext(ctx).Model(&accountRow{}).
		Where("id = ?", account.ID).
		Select("*").Omit("id", "created_at").
		Updates(toRow(account))
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// DeleteAccount deletes an account by ID from PostgreSQL
func (r *PostgresAccountRepository) DeleteAccount(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&accountRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) first(ctx context.Context, query string, args ...any) (*models.Account, error) {
	var row accountRow
	if err := r.db.WithContext(ctx).Where(query, args...).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}
