package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account owning beekeeping records.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password,omitempty" json:"-"`
	GoogleID     string             `bson:"googleId,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// HasPassword reports whether the account can sign in locally.
func (u *User) HasPassword() bool {
	return u != nil && u.PasswordHash != ""
}

// Identity is an assertion returned by a federated identity provider.
type Identity struct {
	Provider      string
	Subject       string
	Email         string
	Name          string
	// EmailVerified is set when the provider vouches for Email.
	EmailVerified bool
}
