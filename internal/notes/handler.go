// Package notes implements the /folder/{folder_id}/note and /note/{id}
// resources.
package notes

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/iarchive/backend/internal/api"
	"github.com/iarchive/backend/internal/models"
)

// NoteStore defines the interface for note persistence.
type NoteStore interface {
	Insert(ctx context.Context, note *models.Note) (string, error)
	ListByCreatorAndFolder(ctx context.Context, creator, folderID string) ([]models.Note, error)
	UpdateMeta(ctx context.Context, id, name, description string) (int64, error)
	UpdateContent(ctx context.Context, id, content string) (int64, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
}

// FolderStore is the slice of folder persistence the note listing needs.
type FolderStore interface {
	GetByID(ctx context.Context, id string) (*models.Folder, error)
}

// UserStore is the slice of user persistence the note listing needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Handler holds note resource HTTP handlers.
type Handler struct {
	notes   NoteStore
	folders FolderStore
	users   UserStore
	log     *zap.Logger
}

func NewHandler(notes NoteStore, folders FolderStore, users UserStore, log *zap.Logger) *Handler {
	return &Handler{notes: notes, folders: folders, users: users, log: log}
}

// List returns the notes inside a folder. The folder's creator username is
// resolved to a user document first; the user only gates on presence and is
// not matched against the session.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folder_id")

	folder, err := h.folders.GetByID(r.Context(), folderID)
	if err != nil {
		api.Message(w, http.StatusUnauthorized, "Could not find folder")
		return
	}

	if _, err := h.users.GetByUsername(r.Context(), folder.Creator); err != nil {
		api.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notes, err := h.notes.ListByCreatorAndFolder(r.Context(), folder.Creator, folderID)
	if err != nil {
		h.log.Error("list notes", zap.String("folder_id", folderID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not list notes")
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Successfully found notes",
		"notes":   notes,
	})
}

// Create inserts a note under the folder for the username in the body.
// Neither the folder's existence nor the caller's ownership is verified.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folder_id")

	var req models.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		api.Error(w, http.StatusUnauthorized, "Could not create new note with given credentials")
		return
	}

	note := &models.Note{
		Name:        models.DefaultNoteName,
		Creator:     req.Username,
		Description: models.DefaultNoteDescription,
		FolderID:    folderID,
	}
	id, err := h.notes.Insert(r.Context(), note)
	if err != nil {
		h.log.Error("insert note", zap.String("folder_id", folderID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "Could not create new note with given credentials")
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Successfully created new note",
		"id":      id,
	})
}

// Update sets the note's name and description.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")

	var req models.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Description == "" {
		api.Message(w, http.StatusUnauthorized, "Edit fields cannot be blank")
		return
	}
	if len(req.Name) > models.MaxNoteNameLen {
		api.Message(w, http.StatusUnauthorized, "Note name cannot exceed 144 characters")
		return
	}

	matched, err := h.notes.UpdateMeta(r.Context(), noteID, req.Name, req.Description)
	if err != nil || matched == 0 {
		if err != nil {
			h.log.Error("update note", zap.String("note_id", noteID), zap.Error(err))
		}
		api.Message(w, http.StatusUnauthorized, "Could not edit note with specified values")
		return
	}

	api.Message(w, http.StatusOK, "Successful edit")
}

// UpdateContent replaces the note body.
func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")

	var req models.UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Edit == "" {
		api.Message(w, http.StatusUnauthorized, "content's edit field cannot be blank")
		return
	}

	matched, err := h.notes.UpdateContent(r.Context(), noteID, req.Edit)
	if err != nil || matched == 0 {
		if err != nil {
			h.log.Error("update note content", zap.String("note_id", noteID), zap.Error(err))
		}
		api.Message(w, http.StatusUnauthorized, "Could not edit note content")
		return
	}

	api.Message(w, http.StatusOK, "Successfully edited note content")
}

// Delete removes the note by id. Zero matched documents is success; only an
// operation error fails the request.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")

	if _, err := h.notes.DeleteByID(r.Context(), noteID); err != nil {
		h.log.Error("delete note", zap.String("note_id", noteID), zap.Error(err))
		api.Message(w, http.StatusUnauthorized, "Could not delete note with given id")
		return
	}

	api.Message(w, http.StatusOK, "Successfully deleted note")
}
