// Package users implements the /users/{id} resource: account deletion with
// its folder/note cascade, profile edits with creator re-denormalization,
// username lookup, and logout.
package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/iarchive/backend/internal/api"
	"github.com/iarchive/backend/internal/auth"
	"github.com/iarchive/backend/internal/models"
	"github.com/iarchive/backend/internal/store"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, username, bio, profilePicture string) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// FolderStore is the slice of folder persistence the user cascade needs.
type FolderStore interface {
	ListByCreator(ctx context.Context, creator string) ([]models.Folder, error)
	UpdateCreator(ctx context.Context, oldUsername, newUsername string) (int64, error)
	DeleteByCreator(ctx context.Context, creator string) (int64, error)
}

// NoteStore is the slice of note persistence the user cascade needs.
type NoteStore interface {
	DeleteByFolder(ctx context.Context, folderID string) (int64, error)
}

// Handler holds user resource HTTP handlers.
type Handler struct {
	users    UserStore
	folders  FolderStore
	notes    NoteStore
	sessions auth.Sessions
	log      *zap.Logger
}

func NewHandler(users UserStore, folders FolderStore, notes NoteStore, sessions auth.Sessions, log *zap.Logger) *Handler {
	return &Handler{users: users, folders: folders, notes: notes, sessions: sessions, log: log}
}

// Delete removes the caller's own account and cascades to their folders and
// those folders' notes. The path id must match the session's bound user id.
//
// The cascade is not atomic: a failure between steps can leave orphaned
// folders or notes. Accepted property of the design.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	cookie, err := r.Cookie(auth.SessionCookie)
	if err != nil {
		api.Message(w, http.StatusUnauthorized, "Could not delete user")
		return
	}
	sessionUserID, err := h.sessions.Get(r.Context(), cookie.Value)
	if err != nil || sessionUserID != userID {
		api.Message(w, http.StatusUnauthorized, "Could not delete user")
		return
	}

	// Capture the username before the document goes away; the cascade
	// filters folders by it.
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		api.Message(w, http.StatusUnauthorized, "Could not delete user with given id")
		return
	}
	username := user.Username

	if _, err := h.users.Delete(r.Context(), userID); err != nil {
		h.log.Error("delete user", zap.String("user_id", userID), zap.Error(err))
		api.Message(w, http.StatusUnauthorized, "Could not delete user with given id")
		return
	}

	if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
		h.log.Warn("delete session", zap.Error(err))
	}
	auth.ClearSessionCookie(w)

	userFolders, err := h.folders.ListByCreator(r.Context(), username)
	if err != nil {
		h.log.Error("list folders for cascade", zap.String("creator", username), zap.Error(err))
		api.Message(w, http.StatusUnauthorized, "Could not delete folder with given id")
		return
	}
	if len(userFolders) == 0 {
		api.Message(w, http.StatusOK, "Successfully deleted user")
		return
	}

	folderIDs := make([]string, 0, len(userFolders))
	for _, f := range userFolders {
		folderIDs = append(folderIDs, f.ID.Hex())
	}

	if _, err := h.folders.DeleteByCreator(r.Context(), username); err != nil {
		h.log.Error("delete folders for cascade", zap.String("creator", username), zap.Error(err))
		api.Message(w, http.StatusUnauthorized, "Could not delete folder with given id")
		return
	}

	// Every collected folder gets its notes deleted. A deleted-note count of
	// zero just means the folder was empty.
	for _, folderID := range folderIDs {
		if _, err := h.notes.DeleteByFolder(r.Context(), folderID); err != nil {
			h.log.Error("delete notes for cascade", zap.String("folder_id", folderID), zap.Error(err))
			api.Message(w, http.StatusUnauthorized, "Could not delete given folders notes")
			return
		}
	}

	api.Message(w, http.StatusOK, "Successfully deleted user's account and its subcontent")
}

// Update edits username, bio, and profile picture. Folders owned by the user
// have their denormalized creator field rewritten to the new username first.
// Notes keep the old creator value; see DESIGN.md.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Bio == "" || req.ProfilePicture == "" {
		api.Message(w, http.StatusUnauthorized, "Edit fields cannot be blank")
		return
	}
	if len(req.Bio) > models.MaxBioLen {
		api.Message(w, http.StatusUnauthorized, "Bio cannot exceed 100 characters")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		api.Message(w, http.StatusUnauthorized, "Could not edit user with specified values")
		return
	}

	if _, err := h.folders.UpdateCreator(r.Context(), user.Username, req.Username); err != nil {
		h.log.Error("update folder creators", zap.String("creator", user.Username), zap.Error(err))
		api.Message(w, http.StatusUnauthorized, "Couldn't update with given username")
		return
	}

	matched, err := h.users.UpdateProfile(r.Context(), userID, req.Username, req.Bio, req.ProfilePicture)
	if err != nil || matched == 0 {
		if err != nil {
			h.log.Error("update user profile", zap.String("user_id", userID), zap.Error(err))
		}
		api.Message(w, http.StatusUnauthorized, "Could not edit user with specified values")
		return
	}

	api.Message(w, http.StatusOK, "Successful edit")
}

// Get looks a user up by username. The path segment is a username, not an
// id; the route shape is historical.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "id")

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Error("lookup user by username", zap.String("username", username), zap.Error(err))
		}
		api.Message(w, http.StatusUnauthorized, "Could not get user")
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Successfully got user",
		"user":    user,
	})
}

// Logout clears the caller's session. The path id is ignored; any caller
// with a session cookie is logged out, and the call always succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.log.Warn("delete session", zap.Error(err))
		}
	}
	auth.ClearSessionCookie(w)

	api.Message(w, http.StatusOK, "Successfully logged user out")
}
