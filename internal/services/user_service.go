package services

import (
	"context"
	"fmt"
	"time"

	"github.com/edtech-scanner/app-auth/internal/logging"
	"github.com/edtech-scanner/app-auth/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// IdentityAttributes carries the optional profile fields known at
// sign-in time. Nil fields are left untouched on existing records.
type IdentityAttributes struct {
	Email          *string
	FullName       *string
	ProfilePicture *string
}

// IdentityResolver resolves or creates the identity record bound to an
// authentication key (a phone number or an external account ID)
type IdentityResolver interface {
	ResolveOrCreate(ctx context.Context, method models.AuthMethod, key string, attrs IdentityAttributes) (*models.User, error)
}

// UserService resolves identities against the user collection
type UserService struct {
	users  *mongo.Collection
	logger *logging.SafeLogger
}

// NewUserService creates an identity resolver backed by MongoDB
func NewUserService(db *mongo.Database, collection string) *UserService {
	return &UserService{
		users:  db.Collection(collection),
		logger: logging.Logger,
	}
}

// ResolveOrCreate finds the user record keyed by the authentication
// method, creating it on first sign-in. last_login_at is refreshed on
// every call; created_at and auth_method are written only on insert.
func (u *UserService) ResolveOrCreate(ctx context.Context, method models.AuthMethod, key string, attrs IdentityAttributes) (*models.User, error) {
	var filter bson.M
	switch method {
	case models.AuthMethodPhone:
		filter = bson.M{"phone_number": key}
	case models.AuthMethodGoogle:
		filter = bson.M{"google_id": key}
	default:
		return nil, fmt.Errorf("unknown auth method: %s", method)
	}

	now := time.Now().UTC()
	set := bson.M{"last_login_at": now}
	if attrs.Email != nil {
		set["email"] = *attrs.Email
	}
	if attrs.FullName != nil {
		set["full_name"] = *attrs.FullName
	}
	if attrs.ProfilePicture != nil {
		set["profile_picture"] = *attrs.ProfilePicture
	}

	// The filter's equality field is carried into the inserted document
	// by the upsert itself
	setOnInsert := bson.M{
		"auth_method": method,
		"created_at":  now,
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": setOnInsert,
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user models.User
	if err := u.users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}

	u.logger.Debug("identity resolved",
		zap.String("user_id", user.ID.Hex()),
		zap.String("auth_method", string(user.AuthMethod)))
	return &user, nil
}
