package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/nano-midea/accounts/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAccountRepository implements AccountRepository for MongoDB
type MongoAccountRepository struct {
	collection *mongo.Collection
}

// NewMongoAccountRepository creates a new MongoAccountRepository
func NewMongoAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{collection: db.Collection("users")}
}

// EnsureIndexes creates the unique email and Firebase UID indexes and the reset
// token lookup index.
func (r *MongoAccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "firebase_uid", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "reset_password_token", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}

// CreateAccount inserts a new account document
func (r *MongoAccountRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	prepareNew(account, primitive.NewObjectID().Hex())
	_, err := r.collection.InsertOne(ctx, account)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	return err
}

// GetAccountByID retrieves an account by ID
func (r *MongoAccountRepository) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetAccountByEmail retrieves an account by email
func (r *MongoAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetAccountByFirebaseUID retrieves the account linked to a Firebase user
func (r *MongoAccountRepository) GetAccountByFirebaseUID(ctx context.Context, uid string) (*models.Account, error) {
	if uid == "" {
		return nil, ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"firebase_uid": uid})
}

func (r *MongoAccountRepository) GetAccountByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.Account, error) {
	return r.findOne(ctx, bson.M{
		"reset_password_token":  tokenHash,
		"reset_password_expire": bson.M{"$gt": now},
	})
}

// GetAccounts retrieves every account
func (r *MongoAccountRepository) GetAccounts(ctx context.Context) ([]models.Account, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	accounts := []models.Account{}
	if err = cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// UpdateAccount replaces the stored document with account. Cleared reset
// fields are omitted from the replacement and so disappear from the store.
func (r *MongoAccountRepository) UpdateAccount(ctx context.Context, account *models.Account) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": account.ID}, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// DeleteAccount deletes an account by ID
func (r *MongoAccountRepository) DeleteAccount(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var account models.Account
	err := r.collection.FindOne(ctx, filter).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}
