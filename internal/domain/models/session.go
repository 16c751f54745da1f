package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string `bson:"level" json:"level"`
	Message string `bson:"message" json:"message"`
}

// SessionRecord is the server-side state behind a session cookie.
type SessionRecord struct {
	ID         string             `bson:"_id"`
	UserID     primitive.ObjectID `bson:"userId,omitempty"`
	Flashes    []Flash            `bson:"flashes,omitempty"`
	OAuthState string             `bson:"oauthState,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
	ExpiresAt  time.Time          `bson:"expiresAt"`
}
