package service

import (
	"context"

	"github.com/anonto42/nano-midea/accounts/internal/apperrors"
	"github.com/anonto42/nano-midea/accounts/internal/models"
)

// CreatePost stores a post owned by the caller and records it on the account.
func (s *AccountService) CreatePost(ctx context.Context, callerID string, req models.CreatePostRequest) (*models.Post, error) {
	owner, err := s.accounts.GetAccountByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Caption: req.Caption,
		Image:   models.Image{URL: req.ImageURL},
		Owner:   owner.ID,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	owner.AddPost(post.ID.Hex())
	if err := s.accounts.UpdateAccount(ctx, owner); err != nil {
		if delErr := s.posts.DeletePost(ctx, post.ID.Hex()); delErr != nil {
			s.log.WithError(delErr).WithField("post_id", post.ID.Hex()).Error("orphaned post left behind")
		}
		return nil, err
	}
	return post, nil
}

func (s *AccountService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.GetPostByID(ctx, id)
}

// DeletePost removes a post the caller owns.
func (s *AccountService) DeletePost(ctx context.Context, callerID, postID string) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.Owner != callerID {
		return apperrors.Unauthorized("Unauthorized")
	}
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return err
	}

	owner, err := s.accounts.GetAccountByID(ctx, callerID)
	if err != nil {
		return err
	}
	owner.RemovePost(postID)
	return s.accounts.UpdateAccount(ctx, owner)
}
