package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/nano-midea/accounts/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryAccountRepository keeps accounts in process memory. Values are copied
// on the way in and out so callers never share slices with the store.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: make(map[string]models.Account)}
}

func (r *MemoryAccountRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTakenLocked(account.Email, "") {
		return ErrEmailTaken
	}
	prepareNew(account, primitive.NewObjectID().Hex())
	r.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (r *MemoryAccountRepository) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return r.find(ctx, func(a *models.Account) bool { return a.ID == id })
}

func (r *MemoryAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.find(ctx, func(a *models.Account) bool { return a.Email == email })
}

func (r *MemoryAccountRepository) GetAccountByFirebaseUID(ctx context.Context, uid string) (*models.Account, error) {
	return r.find(ctx, func(a *models.Account) bool { return uid != "" && a.FirebaseUID == uid })
}

func (r *MemoryAccountRepository) GetAccountByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.Account, error) {
	return r.find(ctx, func(a *models.Account) bool {
		return tokenHash != "" && a.ResetPasswordToken == tokenHash &&
			a.ResetPasswordExpire != nil && a.ResetPasswordExpire.After(now)
	})
}

func (r *MemoryAccountRepository) GetAccounts(ctx context.Context) ([]models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	accounts := make([]models.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		accounts = append(accounts, cloneAccount(&a))
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].CreatedAt.Before(accounts[j].CreatedAt) })
	return accounts, nil
}

func (r *MemoryAccountRepository) UpdateAccount(ctx context.Context, account *models.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return ErrAccountNotFound
	}
	if r.emailTakenLocked(account.Email, account.ID) {
		return ErrEmailTaken
	}
	r.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (r *MemoryAccountRepository) DeleteAccount(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *MemoryAccountRepository) find(ctx context.Context, match func(*models.Account) bool) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if match(&a) {
			found := cloneAccount(&a)
			return &found, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *MemoryAccountRepository) emailTakenLocked(email, exceptID string) bool {
	for id, a := range r.accounts {
		if id != exceptID && a.Email == email {
			return true
		}
	}
	return false
}

func cloneAccount(a *models.Account) models.Account {
	c := *a
	c.Posts = append([]string{}, a.Posts...)
	c.Followers = append([]string{}, a.Followers...)
	c.Following = append([]string{}, a.Following...)
	if a.ResetPasswordExpire != nil {
		exp := *a.ResetPasswordExpire
		c.ResetPasswordExpire = &exp
	}
	return c
}

// MemoryPostRepository keeps posts in process memory.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string]models.Post
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: make(map[string]models.Post)}
}

func (r *MemoryPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []string{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID.Hex()] = clonePost(post)
	return nil
}

func (r *MemoryPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	found := clonePost(&p)
	return &found, nil
}

func (r *MemoryPostRepository) GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	posts := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.posts[id]; ok {
			posts = append(posts, clonePost(&p))
		}
	}
	return posts, nil
}

func (r *MemoryPostRepository) DeletePost(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func clonePost(p *models.Post) models.Post {
	c := *p
	c.Likes = append([]string{}, p.Likes...)
	return c
}
