package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iarchive/backend/internal/models"
)

// NoteStore handles note CRUD in MongoDB.
type NoteStore struct {
	col *mongo.Collection
}

func NewNoteStore(db *mongo.Database) *NoteStore {
	return &NoteStore{col: db.Collection(notesCollection)}
}

func (s *NoteStore) Insert(ctx context.Context, note *models.Note) (string, error) {
	if note.ID.IsZero() {
		note.ID = primitive.NewObjectID()
	}
	if note.DateCreated.IsZero() {
		note.DateCreated = time.Now()
	}
	if _, err := s.col.InsertOne(ctx, note); err != nil {
		return "", fmt.Errorf("insert note: %w", err)
	}
	return note.ID.Hex(), nil
}

// ListByCreatorAndFolder returns the creator's notes inside one folder.
func (s *NoteStore) ListByCreatorAndFolder(ctx context.Context, creator, folderID string) ([]models.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_created", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"creator": creator, "folder_id": folderID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var notes []models.Note
	if err := cur.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// UpdateMeta sets name and description and returns the matched count.
func (s *NoteStore) UpdateMeta(ctx context.Context, id, name, description string) (int64, error) {
	return s.updateByID(ctx, id, bson.M{"name": name, "description": description})
}

// UpdateContent replaces the note body and returns the matched count.
func (s *NoteStore) UpdateContent(ctx context.Context, id, content string) (int64, error) {
	return s.updateByID(ctx, id, bson.M{"content": content})
}

func (s *NoteStore) updateByID(ctx context.Context, id string, set bson.M) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("invalid note id: %w", err)
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteByID removes the note and returns the number of deleted documents.
func (s *NoteStore) DeleteByID(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("invalid note id: %w", err)
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByFolder removes every note inside the folder.
func (s *NoteStore) DeleteByFolder(ctx context.Context, folderID string) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"folder_id": folderID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
