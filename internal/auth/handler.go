package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/iarchive/backend/internal/api"
	"github.com/iarchive/backend/internal/models"
	"github.com/iarchive/backend/internal/store"
)

type contextKey string

const userIDKey contextKey = "user_id"

// ContextWithUserID binds the authenticated user id to the context.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// UserStore defines the interface for user persistence.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (string, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users    UserStore
	sessions Sessions
	log      *zap.Logger
}

func NewHandler(users UserStore, sessions Sessions, log *zap.Logger) *Handler {
	return &Handler{users: users, sessions: sessions, log: log}
}

// Register creates a new user. It does not establish a session; the caller
// must authenticate separately.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		api.Error(w, http.StatusBadRequest, "username, email, and password are required")
		return
	}

	// Email is checked before username; the conflict response names the
	// colliding field.
	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		api.Error(w, http.StatusConflict, fmt.Sprintf("email %q is already in use", req.Email))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.log.Error("lookup user by email", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if _, err := h.users.GetByUsername(r.Context(), req.Username); err == nil {
		api.Error(w, http.StatusConflict, fmt.Sprintf("username %q is already in use", req.Username))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.log.Error("lookup user by username", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		h.log.Error("hash password", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHash:   hashed,
		Bio:            models.DefaultBio,
		ProfilePicture: models.DefaultProfilePicture,
	}
	if _, err := h.users.Create(r.Context(), user); err != nil {
		h.log.Error("create user", zap.Error(err))
		api.Error(w, http.StatusConflict, "user already exists or database error")
		return
	}

	api.Message(w, http.StatusOK, "Successfully added new user")
}

// Login authenticates a user by email and creates a session. Unknown email
// and wrong password produce the same response body.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Error("lookup user by email", zap.Error(err))
		}
		api.Error(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !VerifyPassword(req.Password, user.PasswordHash) {
		api.Error(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	sid, err := h.sessions.Create(r.Context(), user.ID.Hex())
	if err != nil {
		h.log.Error("create session", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "session creation failed")
		return
	}
	SetSessionCookie(w, sid)

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login was successful",
		"user":    user,
	})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		api.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Error("lookup user by id", zap.Error(err))
		}
		api.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"user":    user,
	})
}
