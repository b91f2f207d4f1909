package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Defaults applied when a user registers without optional profile fields.
const (
	DefaultBio            = "This user has not submitted a bio"
	DefaultProfilePicture = "https://riverlegacy.org/wp-content/uploads/2021/07/blank-profile-photo.jpeg"

	MaxBioLen = 100
)

// User is a document in the users collection. Username and email are
// unique across the collection. PasswordHash is never serialized.
type User struct {
	ID             primitive.ObjectID `json:"id"              bson:"_id,omitempty"`
	Username       string             `json:"username"        bson:"username"`
	Email          string             `json:"email"           bson:"email"`
	PasswordHash   string             `json:"-"               bson:"password_hash"`
	Bio            string             `json:"bio"             bson:"bio"`
	ProfilePicture string             `json:"profile_picture" bson:"profile_picture"`
}

// RegisterRequest is the JSON body for POST /users.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is the JSON body for PUT /users/{id}.
type UpdateUserRequest struct {
	Username       string `json:"username"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
}
