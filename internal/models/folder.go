package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultFolderName = "New folder"

	MaxFolderNameLen = 120
	MaxTagLen        = 30
)

// Folder is a document in the folders collection. Creator holds the owning
// user's username, not their id; the user-update handler keeps it in sync
// when a username changes.
type Folder struct {
	ID          primitive.ObjectID `json:"id"           bson:"_id,omitempty"`
	Name        string             `json:"name"         bson:"name"`
	Creator     string             `json:"creator"      bson:"creator"`
	Tags        []string           `json:"tags"         bson:"tags"`
	IsPublished bool               `json:"is_published" bson:"is_published"`
	DateCreated time.Time          `json:"date_created" bson:"date_created"`
}

// CreateFolderRequest is the JSON body for POST /folder.
type CreateFolderRequest struct {
	Username string `json:"username"`
}

// RenameFolderRequest is the JSON body for PUT /folder/{id}.
type RenameFolderRequest struct {
	Name string `json:"name"`
}
