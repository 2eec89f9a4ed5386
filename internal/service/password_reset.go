package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/nano-midea/accounts/internal/apperrors"
	"github.com/anonto42/nano-midea/accounts/internal/auth"
	"github.com/anonto42/nano-midea/accounts/internal/mailer"
)

const resetMailTemplate = "You are receiving this email because you (or someone else) have requested the reset of a password. " +
	"Please make a PUT request with the url below. If you did not request this, please ignore this email and your password will remain unchanged.\n\n%s"

var errInvalidResetToken = apperrors.Unauthorized("Password reset token is invalid or has expired")

// ForgotPassword stores the hash of a fresh reset token and mails the plaintext
// token as part of resetBaseURL, returning the stored address it was sent to.
// If the mail cannot be handed off the token is withdrawn again before the
// error is returned.
func (s *AccountService) ForgotPassword(ctx context.Context, email, resetBaseURL string) (string, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}

	plain, hash, err := auth.NewResetToken()
	if err != nil {
		return "", err
	}
	expires := s.now().Add(s.resetTTL)
	account.ResetPasswordToken = hash
	account.ResetPasswordExpire = &expires
	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		return "", err
	}

	resetURL := strings.TrimSuffix(resetBaseURL, "/") + "/" + plain
	msg := mailer.Message{
		To:      account.Email,
		Subject: "Reset Password",
		Body:    fmt.Sprintf(resetMailTemplate, resetURL),
	}
	if sendErr := s.sender.Send(ctx, msg); sendErr != nil {
		log := s.log.WithField("account_id", account.ID).WithError(sendErr)
		log.Error("reset mail could not be sent")
		account.ClearResetToken()
		if err := s.accounts.UpdateAccount(ctx, account); err != nil {
			log.WithField("cleanup_error", err).Error("could not withdraw reset token")
		}
		return "", sendErr
	}
	return account.Email, nil
}

// ResetPassword sets newPassword on the account holding an unexpired token.
// The token is single use.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return apperrors.Validation("Please provide a new password")
	}
	if err := checkPasswordLength(newPassword); err != nil {
		return err
	}
	if token == "" {
		return errInvalidResetToken
	}

	account, err := s.accounts.GetAccountByResetToken(ctx, auth.HashResetToken(token), s.now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return errInvalidResetToken
		}
		return err
	}

	if account.Password, err = auth.HashPassword(newPassword); err != nil {
		return err
	}
	account.ClearResetToken()
	return s.accounts.UpdateAccount(ctx, account)
}
