package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iarchive/backend/internal/models"
)

// FolderStore handles folder CRUD in MongoDB.
type FolderStore struct {
	col *mongo.Collection
}

func NewFolderStore(db *mongo.Database) *FolderStore {
	return &FolderStore{col: db.Collection(foldersCollection)}
}

func (s *FolderStore) Insert(ctx context.Context, folder *models.Folder) (string, error) {
	if folder.ID.IsZero() {
		folder.ID = primitive.NewObjectID()
	}
	if folder.DateCreated.IsZero() {
		folder.DateCreated = time.Now()
	}
	if _, err := s.col.InsertOne(ctx, folder); err != nil {
		return "", fmt.Errorf("insert folder: %w", err)
	}
	return folder.ID.Hex(), nil
}

func (s *FolderStore) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid folder id: %w", err)
	}
	var f models.Folder
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (s *FolderStore) ListByCreator(ctx context.Context, creator string) ([]models.Folder, error) {
	return s.find(ctx, bson.M{"creator": creator})
}

func (s *FolderStore) ListPublished(ctx context.Context) ([]models.Folder, error) {
	return s.find(ctx, bson.M{"is_published": true})
}

func (s *FolderStore) find(ctx context.Context, filter bson.M) ([]models.Folder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_created", Value: -1}})
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var folders []models.Folder
	if err := cur.All(ctx, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// Rename sets the folder's name and returns the number of matched documents.
func (s *FolderStore) Rename(ctx context.Context, id, name string) (int64, error) {
	return s.updateByID(ctx, id, bson.M{"name": name})
}

// Publish marks the folder as published. There is no unpublish operation.
func (s *FolderStore) Publish(ctx context.Context, id string) (int64, error) {
	return s.updateByID(ctx, id, bson.M{"is_published": true})
}

func (s *FolderStore) updateByID(ctx context.Context, id string, set bson.M) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("invalid folder id: %w", err)
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// UpdateCreator rewrites the denormalized creator username on every folder
// owned by oldUsername and returns the number of matched documents.
func (s *FolderStore) UpdateCreator(ctx context.Context, oldUsername, newUsername string) (int64, error) {
	res, err := s.col.UpdateMany(ctx,
		bson.M{"creator": oldUsername},
		bson.M{"$set": bson.M{"creator": newUsername}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteByID removes the folder and returns the number of deleted documents.
// Zero deleted is not an error; the folder may already be gone.
func (s *FolderStore) DeleteByID(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("invalid folder id: %w", err)
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByCreator removes every folder owned by the username.
func (s *FolderStore) DeleteByCreator(ctx context.Context, creator string) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"creator": creator})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
