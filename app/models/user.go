package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCollection is the MongoDB collection holding users.
const UserCollection = "users"

// User is an account that can obtain bearer tokens.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"      json:"_id"`
	Email    string             `bson:"email"              json:"email"`
	Password string             `bson:"password"           json:"-"` // bcrypt hash, never serialised
	Username string             `bson:"username,omitempty" json:"username,omitempty"`
	JoinedAt time.Time          `bson:"joinedAt"           json:"joinedAt"`
}
