package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/accounts/internal/apperrors"
	"github.com/anonto42/nano-midea/accounts/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAccountRepository_CreateAssignsIDAndEmptyLists(t *testing.T) {
	repo := NewMemoryAccountRepository()
	a := &models.Account{Name: "Alice", Email: "a@x.com"}

	require.NoError(t, repo.CreateAccount(context.Background(), a))

	assert.NotEmpty(t, a.ID)
	assert.NotNil(t, a.Followers)
	assert.NotNil(t, a.Following)
	assert.NotNil(t, a.Posts)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestMemoryAccountRepository_DuplicateEmail(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()
	require.NoError(t, repo.CreateAccount(ctx, &models.Account{Email: "a@x.com"}))

	err := repo.CreateAccount(ctx, &models.Account{Email: "a@x.com"})

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMemoryAccountRepository_UpdateRejectsTakenEmail(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()
	a := &models.Account{Email: "a@x.com"}
	b := &models.Account{Email: "b@x.com"}
	require.NoError(t, repo.CreateAccount(ctx, a))
	require.NoError(t, repo.CreateAccount(ctx, b))

	b.Email = "a@x.com"
	assert.ErrorIs(t, repo.UpdateAccount(ctx, b), ErrEmailTaken)

	a.Name = "Alice"
	assert.NoError(t, repo.UpdateAccount(ctx, a))
}

func TestMemoryAccountRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()
	a := &models.Account{Email: "a@x.com"}
	require.NoError(t, repo.CreateAccount(ctx, a))

	loaded, err := repo.GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	loaded.Follow("someone")

	again, err := repo.GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Following)
}

func TestMemoryAccountRepository_ResetTokenHonoursExpiry(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()
	now := time.Now()
	exp := now.Add(time.Minute)
	a := &models.Account{Email: "a@x.com", ResetPasswordToken: "hash", ResetPasswordExpire: &exp}
	require.NoError(t, repo.CreateAccount(ctx, a))

	found, err := repo.GetAccountByResetToken(ctx, "hash", now)
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)

	_, err = repo.GetAccountByResetToken(ctx, "hash", now.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = repo.GetAccountByResetToken(ctx, "other", now)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestMemoryAccountRepository_FirebaseUID(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()
	linked := &models.Account{Email: "a@x.com", FirebaseUID: "fb-1"}
	require.NoError(t, repo.CreateAccount(ctx, linked))
	require.NoError(t, repo.CreateAccount(ctx, &models.Account{Email: "b@x.com"}))

	found, err := repo.GetAccountByFirebaseUID(ctx, "fb-1")
	require.NoError(t, err)
	assert.Equal(t, linked.ID, found.ID)

	_, err = repo.GetAccountByFirebaseUID(ctx, "")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestMemoryAccountRepository_Delete(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()
	a := &models.Account{Email: "a@x.com"}
	require.NoError(t, repo.CreateAccount(ctx, a))

	require.NoError(t, repo.DeleteAccount(ctx, a.ID))
	assert.ErrorIs(t, repo.DeleteAccount(ctx, a.ID), ErrAccountNotFound)

	_, err := repo.GetAccountByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryAccountRepository_CancelledContext(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetAccounts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryPostRepository_GetPostsByIDsKeepsOrderAndSkipsMissing(t *testing.T) {
	repo := NewMemoryPostRepository()
	ctx := context.Background()
	first := &models.Post{Caption: "first", Owner: "a"}
	second := &models.Post{Caption: "second", Owner: "a"}
	require.NoError(t, repo.CreatePost(ctx, first))
	require.NoError(t, repo.CreatePost(ctx, second))

	posts, err := repo.GetPostsByIDs(ctx, []string{second.ID.Hex(), "missing", first.ID.Hex()})
	require.NoError(t, err)

	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Caption)
	assert.Equal(t, "first", posts[1].Caption)
}

func TestMemoryPostRepository_Delete(t *testing.T) {
	repo := NewMemoryPostRepository()
	ctx := context.Background()
	p := &models.Post{Caption: "bye", Owner: "a"}
	require.NoError(t, repo.CreatePost(ctx, p))

	require.NoError(t, repo.DeletePost(ctx, p.ID.Hex()))

	_, err := repo.GetPostByID(ctx, p.ID.Hex())
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, repo.DeletePost(ctx, p.ID.Hex()), ErrPostNotFound)
}

func TestOrderPosts(t *testing.T) {
	a := models.Post{Caption: "a"}
	b := models.Post{Caption: "b"}
	require.NoError(t, NewMemoryPostRepository().CreatePost(context.Background(), &a))
	require.NoError(t, NewMemoryPostRepository().CreatePost(context.Background(), &b))

	ordered := orderPosts([]string{b.ID.Hex(), a.ID.Hex()}, []models.Post{a, b})

	require.Len(t, ordered, 2)
	assert.Equal(t, "b", ordered[0].Caption)
}
