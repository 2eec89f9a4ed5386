package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Caption   string             `json:"caption" bson:"caption"`
	Image     Image              `json:"image" bson:"image"`
	Owner     string             `json:"owner" bson:"owner"` // account ID of the author
	Likes     []string           `json:"likes" bson:"likes"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Caption  string `json:"caption" validate:"required,min=1,max=2200"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}
