package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Image is a reference to an uploaded media object.
type Image struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url" bson:"url"`
}

// DefaultAvatar is assigned to every newly registered account.
var DefaultAvatar = Image{PublicID: "sample_id", URL: "sampleurl"}

// Account is a registered user. Followers and Following hold account IDs and
// never contain duplicates; Following never contains the account's own ID.
type Account struct {
	ID                  string     `json:"id" bson:"_id"`
	Name                string     `json:"name" bson:"name"`
	Email               string     `json:"email" bson:"email"`
	Password            string     `json:"-" bson:"password"`
	FirebaseUID         string     `json:"-" bson:"firebase_uid,omitempty"`
	Avatar              Image      `json:"avatar" bson:"avatar"`
	Posts               []string   `json:"posts" bson:"posts"`
	Followers           []string   `json:"followers" bson:"followers"`
	Following           []string   `json:"following" bson:"following"`
	ResetPasswordToken  string     `json:"-" bson:"reset_password_token,omitempty"`
	ResetPasswordExpire *time.Time `json:"-" bson:"reset_password_expire,omitempty"`
	CreatedAt           time.Time  `json:"created_at" bson:"created_at"`
}

// IsFollowing reports whether the account follows id.
func (a *Account) IsFollowing(id string) bool {
	return indexOf(a.Following, id) >= 0
}

// Follow adds id to Following unless it is already there.
func (a *Account) Follow(id string) {
	if !a.IsFollowing(id) {
		a.Following = append(a.Following, id)
	}
}

// Unfollow removes id from Following.
func (a *Account) Unfollow(id string) {
	a.Following = removeID(a.Following, id)
}

// AddFollower adds id to Followers unless it is already there.
func (a *Account) AddFollower(id string) {
	if indexOf(a.Followers, id) < 0 {
		a.Followers = append(a.Followers, id)
	}
}

// RemoveFollower removes id from Followers.
func (a *Account) RemoveFollower(id string) {
	a.Followers = removeID(a.Followers, id)
}

// AddPost appends a post reference.
func (a *Account) AddPost(id string) {
	if indexOf(a.Posts, id) < 0 {
		a.Posts = append(a.Posts, id)
	}
}

// RemovePost drops a post reference.
func (a *Account) RemovePost(id string) {
	a.Posts = removeID(a.Posts, id)
}

// ClearResetToken forgets any pending password reset.
func (a *Account) ClearResetToken() {
	a.ResetPasswordToken = ""
	a.ResetPasswordExpire = nil
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// removeID drops every occurrence of id, so lists left with duplicates by an
// earlier race still end up clean.
func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Profile is an account with its post references expanded.
type Profile struct {
	*Account
	Posts []Post `json:"posts"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest is checked by the service, which owns the error messages.
type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// Identity is the verified outcome of an external identity token.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
}

type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
