// Package folders implements the /folder and /folders/public resources.
package folders

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/iarchive/backend/internal/api"
	"github.com/iarchive/backend/internal/auth"
	"github.com/iarchive/backend/internal/models"
)

// FolderStore defines the interface for folder persistence.
type FolderStore interface {
	Insert(ctx context.Context, folder *models.Folder) (string, error)
	ListByCreator(ctx context.Context, creator string) ([]models.Folder, error)
	ListPublished(ctx context.Context) ([]models.Folder, error)
	Rename(ctx context.Context, id, name string) (int64, error)
	Publish(ctx context.Context, id string) (int64, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
}

// UserStore is the slice of user persistence the folder listing needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// NoteStore is the slice of note persistence the folder cascade needs.
type NoteStore interface {
	DeleteByFolder(ctx context.Context, folderID string) (int64, error)
}

// Handler holds folder resource HTTP handlers.
type Handler struct {
	folders FolderStore
	users   UserStore
	notes   NoteStore
	log     *zap.Logger
}

func NewHandler(folders FolderStore, users UserStore, notes NoteStore, log *zap.Logger) *Handler {
	return &Handler{folders: folders, users: users, notes: notes, log: log}
}

// Create inserts a folder attributed to the username in the body. There is
// no ownership check against the session; any caller may create a folder
// for any username.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		api.Error(w, http.StatusUnauthorized, "Could not create new folder with given credentials")
		return
	}

	folder := &models.Folder{
		Name:    models.DefaultFolderName,
		Creator: req.Username,
		Tags:    []string{},
	}
	if _, err := h.folders.Insert(r.Context(), folder); err != nil {
		h.log.Error("insert folder", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "Could not create new folder with given credentials")
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Successfully created new folder",
		"folder":  folder,
	})
}

// ListMine returns the folders owned by the session's user. The session's
// user id is resolved to a username first; folders are keyed by creator
// username, not user id.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		api.Message(w, http.StatusUnauthorized, "Could not get user")
		return
	}

	folders, err := h.folders.ListByCreator(r.Context(), user.Username)
	if err != nil {
		h.log.Error("list folders", zap.String("creator", user.Username), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not list folders")
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Successfully found current user's folders",
		"folders": folders,
	})
}

// ListPublic returns every published folder. No authentication required.
func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	folders, err := h.folders.ListPublished(r.Context())
	if err != nil {
		h.log.Error("list published folders", zap.Error(err))
		api.Message(w, http.StatusUnauthorized, "Could not get published folders")
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Successfully got all public folders",
		"folders": folders,
	})
}

// Rename updates the folder's name.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folder_id")

	var req models.RenameFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		api.Message(w, http.StatusUnauthorized, "Edit fields cannot be blank")
		return
	}
	if len(req.Name) > models.MaxFolderNameLen {
		api.Message(w, http.StatusUnauthorized, "Folder name cannot exceed 120 characters")
		return
	}

	matched, err := h.folders.Rename(r.Context(), folderID, req.Name)
	if err != nil || matched == 0 {
		if err != nil {
			h.log.Error("rename folder", zap.String("folder_id", folderID), zap.Error(err))
		}
		api.Message(w, http.StatusUnauthorized, "Folder name could not be changed")
		return
	}

	api.Message(w, http.StatusOK, "Successfully updated folder name")
}

// Publish marks the folder as published, making it visible in the public
// listing. Publishing is one-way; there is no unpublish endpoint.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folder_id")

	matched, err := h.folders.Publish(r.Context(), folderID)
	if err != nil || matched == 0 {
		if err != nil {
			h.log.Error("publish folder", zap.String("folder_id", folderID), zap.Error(err))
		}
		api.Message(w, http.StatusUnauthorized, "Could not publish folder")
		return
	}

	api.Message(w, http.StatusOK, "Successfully published folder")
}

// Delete removes the folder and every note inside it. Zero matched documents
// is success for both steps; deleting an already-deleted folder is a no-op,
// only an operation error fails the request.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folder_id")

	if _, err := h.folders.DeleteByID(r.Context(), folderID); err != nil {
		h.log.Error("delete folder", zap.String("folder_id", folderID), zap.Error(err))
		api.Message(w, http.StatusUnauthorized, "Could not delete folder with given id")
		return
	}

	if _, err := h.notes.DeleteByFolder(r.Context(), folderID); err != nil {
		h.log.Error("delete folder notes", zap.String("folder_id", folderID), zap.Error(err))
		api.Message(w, http.StatusUnauthorized, "Could not delete given folders notes")
		return
	}

	api.Message(w, http.StatusOK, "Successfully deleted folder")
}
