package service

import (
	"context"
	"errors"

	"github.com/anonto42/nano-midea/accounts/internal/apperrors"
)

type FollowResult string

const (
	Followed   FollowResult = "Followed"
	Unfollowed FollowResult = "Unfollowed"
)

// ToggleFollow makes callerID follow targetID, or unfollow it when it already
// does. Both sides of the edge are written, one after the other.
func (s *AccountService) ToggleFollow(ctx context.Context, targetID, callerID string) (FollowResult, error) {
	if targetID == callerID {
		return "", apperrors.Validation("You cannot follow yourself")
	}

	target, err := s.accounts.GetAccountByID(ctx, targetID)
	if err != nil {
		return "", err
	}
	caller, err := s.accounts.GetAccountByID(ctx, callerID)
	if err != nil {
		return "", err
	}

	if caller.IsFollowing(target.ID) {
		caller.Unfollow(target.ID)
		target.RemoveFollower(caller.ID)

		if err := s.accounts.UpdateAccount(ctx, target); err != nil {
			return "", err
		}
		if err := s.accounts.UpdateAccount(ctx, caller); err != nil {
			return "", err
		}
		return Unfollowed, nil
	}

	caller.Follow(target.ID)
	target.AddFollower(caller.ID)

	if err := s.accounts.UpdateAccount(ctx, caller); err != nil {
		return "", err
	}
	if err := s.accounts.UpdateAccount(ctx, target); err != nil {
		return "", err
	}
	return Followed, nil
}

// DeleteAccount removes the caller's posts, strips the caller from every
// follower's following list and every followee's followers list, and deletes
// the account last. Each step is idempotent and a failure leaves the account in
// place, so a failed delete can simply be retried.
func (s *AccountService) DeleteAccount(ctx context.Context, callerID string) error {
	account, err := s.accounts.GetAccountByID(ctx, callerID)
	if err != nil {
		return err
	}
	log := s.log.WithField("account_id", account.ID)

	for _, postID := range account.Posts {
		if err := s.posts.DeletePost(ctx, postID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				log.WithField("post_id", postID).Warn("skipping missing post during account delete")
				continue
			}
			return apperrors.Wrapf(err, "delete post %s", postID)
		}
	}

	for _, followerID := range account.Followers {
		follower, err := s.accounts.GetAccountByID(ctx, followerID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				log.WithField("follower_id", followerID).Warn("skipping missing follower during account delete")
				continue
			}
			return apperrors.Wrapf(err, "load follower %s", followerID)
		}
		follower.Unfollow(account.ID)
		if err := s.accounts.UpdateAccount(ctx, follower); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Wrapf(err, "update follower %s", followerID)
		}
	}

	for _, followingID := range account.Following {
		followee, err := s.accounts.GetAccountByID(ctx, followingID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				log.WithField("following_id", followingID).Warn("skipping missing followee during account delete")
				continue
			}
			return apperrors.Wrapf(err, "load followee %s", followingID)
		}
		followee.RemoveFollower(account.ID)
		if err := s.accounts.UpdateAccount(ctx, followee); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Wrapf(err, "update followee %s", followingID)
		}
	}

	if err := s.accounts.DeleteAccount(ctx, account.ID); err != nil {
		return err
	}
	log.Info("account deleted")
	return nil
}
