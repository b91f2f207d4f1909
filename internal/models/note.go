package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultNoteName        = "New note"
	DefaultNoteDescription = "This user has not created a description"

	MaxNoteNameLen = 144
)

// Note is a document in the notes collection. FolderID is the hex id of the
// containing folder; it is not validated against the folders collection at
// create time, only the deletion cascades keep it consistent.
type Note struct {
	ID          primitive.ObjectID `json:"id"           bson:"_id,omitempty"`
	Name        string             `json:"name"         bson:"name"`
	Creator     string             `json:"creator"      bson:"creator"`
	Description string             `json:"description"  bson:"description"`
	Content     string             `json:"content"      bson:"content"`
	DateCreated time.Time          `json:"date_created" bson:"date_created"`
	FolderID    string             `json:"folder_id"    bson:"folder_id"`
}

// CreateNoteRequest is the JSON body for POST /folder/{folder_id}/note.
type CreateNoteRequest struct {
	Username string `json:"username"`
}

// UpdateNoteRequest is the JSON body for PUT /note/{id}.
type UpdateNoteRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateContentRequest is the JSON body for PUT /note/{id}/content.
type UpdateContentRequest struct {
	Edit string `json:"edit"`
}
