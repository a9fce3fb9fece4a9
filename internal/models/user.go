package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthMethod identifies how an identity was established
type AuthMethod string

const (
	AuthMethodPhone  AuthMethod = "phone"
	AuthMethodGoogle AuthMethod = "google"
)

// User represents an authenticated identity record
type User struct {
	ID             primitive.ObjectID `json:"user_id" bson:"_id,omitempty"`
	AuthMethod     AuthMethod         `json:"auth_method" bson:"auth_method"`
	PhoneNumber    *string            `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	GoogleID       *string            `json:"-" bson:"google_id,omitempty"`
	Email          *string            `json:"email,omitempty" bson:"email,omitempty"`
	FullName       *string            `json:"full_name,omitempty" bson:"full_name,omitempty"`
	ProfilePicture *string            `json:"profile_picture,omitempty" bson:"profile_picture,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	LastLoginAt    time.Time          `json:"last_login_at" bson:"last_login_at"`
}
