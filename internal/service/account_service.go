// Package service implements the account operations: registration, sessions,
// profiles, the follow graph and password reset.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anonto42/nano-midea/accounts/internal/apperrors"
	"github.com/anonto42/nano-midea/accounts/internal/auth"
	"github.com/anonto42/nano-midea/accounts/internal/mailer"
	"github.com/anonto42/nano-midea/accounts/internal/models"
	"github.com/anonto42/nano-midea/accounts/internal/repositories"
	"github.com/sirupsen/logrus"
)

const minPasswordLength = 6

var errInvalidCredentials = apperrors.Unauthorized("Invalid email or password")

// Session is an authenticated account together with its freshly issued token.
type Session struct {
	Account *models.Account
	Token   string
}

type Options struct {
	ResetTokenTTL time.Duration
	Logger        logrus.FieldLogger
}

// AccountService orchestrates the credential store, the content store and the
// mail sender. Multi-document operations run sequentially without a transaction.
type AccountService struct {
	accounts repositories.AccountRepository
	posts    repositories.PostRepository
	sender   mailer.Sender
	tokens   *auth.TokenManager
	resetTTL time.Duration
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewAccountService(
	accounts repositories.AccountRepository,
	posts repositories.PostRepository,
	sender mailer.Sender,
	tokens *auth.TokenManager,
	opts Options,
) *AccountService {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	ttl := opts.ResetTokenTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &AccountService{
		accounts: accounts,
		posts:    posts,
		sender:   sender,
		tokens:   tokens,
		resetTTL: ttl,
		log:      log,
		now:      time.Now,
	}
}

// Register creates an account with the default avatar and starts a session.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*Session, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.accounts.GetAccountByEmail(ctx, email); err == nil {
		return nil, repositories.ErrEmailTaken
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	account := &models.Account{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashed,
		Avatar:   models.DefaultAvatar,
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.log.WithField("account_id", account.ID).Info("account registered")
	return s.startSession(account)
}

// Login checks the credentials. An unknown email and a wrong password fail
// with the same error.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(account.Password, password) {
		return nil, errInvalidCredentials
	}
	return s.startSession(account)
}

var errUnverifiedIdentity = apperrors.Unauthorized("Email address is not verified")

// LoginWithIdentity starts a session for a user proven by an external identity
// provider. Accounts are matched by provider UID first. An account found by
// email is linked to the UID only when the provider has verified that email
// and the account is not already linked elsewhere. New accounts get a random
// password and can set a real one via password reset.
func (s *AccountService) LoginWithIdentity(ctx context.Context, id models.Identity) (*Session, error) {
	if id.UID == "" {
		return nil, apperrors.Validation("Identity token carries no user id")
	}

	account, err := s.accounts.GetAccountByFirebaseUID(ctx, id.UID)
	if err == nil {
		return s.startSession(account)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	email := normalizeEmail(id.Email)
	if email == "" {
		return nil, apperrors.Validation("Identity token carries no email")
	}
	if !id.EmailVerified {
		return nil, errUnverifiedIdentity
	}

	account, err = s.accounts.GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		if account.FirebaseUID != "" {
			return nil, apperrors.Unauthorized("Account is linked to another identity")
		}
		account.FirebaseUID = id.UID
		if err := s.accounts.UpdateAccount(ctx, account); err != nil {
			return nil, err
		}
		s.log.WithField("account_id", account.ID).Info("account linked to identity provider")
		return s.startSession(account)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	random, _, err := auth.NewResetToken()
	if err != nil {
		return nil, err
	}
	hashed, err := auth.HashPassword(random)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(id.Name)
	if name == "" {
		name = email[:strings.Index(email+"@", "@")]
	}
	account = &models.Account{
		Name:        name,
		Email:       email,
		Password:    hashed,
		FirebaseUID: id.UID,
		Avatar:      models.DefaultAvatar,
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	s.log.WithField("account_id", account.ID).Info("account registered through identity provider")
	return s.startSession(account)
}

// UpdatePassword replaces the caller's password after checking the old one.
func (s *AccountService) UpdatePassword(ctx context.Context, callerID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apperrors.Validation("Please provide old and new password")
	}
	if err := checkPasswordLength(newPassword); err != nil {
		return err
	}

	account, err := s.accounts.GetAccountByID(ctx, callerID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(account.Password, oldPassword) {
		return apperrors.Unauthorized("Incorrect old password")
	}

	if account.Password, err = auth.HashPassword(newPassword); err != nil {
		return err
	}
	return s.accounts.UpdateAccount(ctx, account)
}

// SessionTTL is the lifetime of issued session tokens.
func (s *AccountService) SessionTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *AccountService) startSession(account *models.Account) (*Session, error) {
	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}
	return &Session{Account: account, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkPasswordLength(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.Validation("Password must be at least 6 characters")
	}
	return nil
}
