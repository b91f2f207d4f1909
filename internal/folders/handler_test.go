package folders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/iarchive/backend/internal/auth"
	"github.com/iarchive/backend/internal/models"
	"github.com/iarchive/backend/internal/store"
)

type fakeFolders struct {
	folders []*models.Folder
}

func (f *fakeFolders) Insert(_ context.Context, folder *models.Folder) (string, error) {
	folder.ID = primitive.NewObjectID()
	f.folders = append(f.folders, folder)
	return folder.ID.Hex(), nil
}

func (f *fakeFolders) ListByCreator(_ context.Context, creator string) ([]models.Folder, error) {
	var out []models.Folder
	for _, fl := range f.folders {
		if fl.Creator == creator {
			out = append(out, *fl)
		}
	}
	return out, nil
}

func (f *fakeFolders) ListPublished(_ context.Context) ([]models.Folder, error) {
	var out []models.Folder
	for _, fl := range f.folders {
		if fl.IsPublished {
			out = append(out, *fl)
		}
	}
	return out, nil
}

func (f *fakeFolders) Rename(_ context.Context, id, name string) (int64, error) {
	for _, fl := range f.folders {
		if fl.ID.Hex() == id {
			fl.Name = name
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeFolders) Publish(_ context.Context, id string) (int64, error) {
	for _, fl := range f.folders {
		if fl.ID.Hex() == id {
			fl.IsPublished = true
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeFolders) DeleteByID(_ context.Context, id string) (int64, error) {
	for i, fl := range f.folders {
		if fl.ID.Hex() == id {
			f.folders = append(f.folders[:i], f.folders[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeUsers struct {
	users []*models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeNotes struct {
	deletedFolders []string
}

func (f *fakeNotes) DeleteByFolder(_ context.Context, folderID string) (int64, error) {
	f.deletedFolders = append(f.deletedFolders, folderID)
	return 0, nil
}

type fixture struct {
	folders *fakeFolders
	users   *fakeUsers
	notes   *fakeNotes
	handler *Handler
	router  *chi.Mux
}

func newFixture() *fixture {
	f := &fixture{
		folders: &fakeFolders{},
		users:   &fakeUsers{},
		notes:   &fakeNotes{},
	}
	f.handler = NewHandler(f.folders, f.users, f.notes, zap.NewNop())

	f.router = chi.NewRouter()
	f.router.Post("/folder", f.handler.Create)
	f.router.Get("/folders/public", f.handler.ListPublic)
	f.router.Route("/folder/{folder_id}", func(r chi.Router) {
		r.Put("/", f.handler.Rename)
		r.Post("/", f.handler.Publish)
		r.Delete("/", f.handler.Delete)
	})
	return f
}

func (f *fixture) addFolder(creator string, published bool) *models.Folder {
	fl := &models.Folder{
		ID:          primitive.NewObjectID(),
		Name:        models.DefaultFolderName,
		Creator:     creator,
		IsPublished: published,
	}
	f.folders.folders = append(f.folders.folders, fl)
	return fl
}

func TestCreateFolderDefaults(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest("POST", "/folder", strings.NewReader(`{"username":"ann"}`))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(f.folders.folders) != 1 {
		t.Fatalf("expected 1 stored folder, got %d", len(f.folders.folders))
	}
	created := f.folders.folders[0]
	if created.Name != models.DefaultFolderName {
		t.Errorf("expected default name, got %q", created.Name)
	}
	if created.Creator != "ann" {
		t.Errorf("expected creator ann, got %q", created.Creator)
	}
	if created.IsPublished {
		t.Error("new folder must start unpublished")
	}

	var resp struct {
		Folder models.Folder `json:"folder"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Folder.ID != created.ID {
		t.Error("response folder does not carry the stored id")
	}
}

func TestCreateFolderBlankUsername(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest("POST", "/folder", strings.NewReader(`{"username":""}`))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if len(f.folders.folders) != 0 {
		t.Error("folder stored despite failed validation")
	}
}

func TestListMine(t *testing.T) {
	f := newFixture()
	ann := &models.User{ID: primitive.NewObjectID(), Username: "ann"}
	f.users.users = append(f.users.users, ann)
	f.addFolder("ann", false)
	f.addFolder("ann", true)
	f.addFolder("bob", false)

	req := httptest.NewRequest("GET", "/folder", nil)
	req = req.WithContext(auth.ContextWithUserID(req.Context(), ann.ID.Hex()))
	w := httptest.NewRecorder()
	f.handler.ListMine(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Folders []models.Folder `json:"folders"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Folders) != 2 {
		t.Errorf("expected 2 folders for ann, got %d", len(resp.Folders))
	}
	for _, fl := range resp.Folders {
		if fl.Creator != "ann" {
			t.Errorf("listing leaked a folder owned by %q", fl.Creator)
		}
	}
}

func TestListMineWithoutSession(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest("GET", "/folder", nil)
	w := httptest.NewRecorder()
	f.handler.ListMine(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestListPublicOnlyPublished(t *testing.T) {
	f := newFixture()
	pub := f.addFolder("ann", true)
	f.addFolder("ann", false)
	f.addFolder("bob", false)

	req := httptest.NewRequest("GET", "/folders/public", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Folders []models.Folder `json:"folders"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Folders) != 1 || resp.Folders[0].ID != pub.ID {
		t.Errorf("expected only the published folder, got %d folders", len(resp.Folders))
	}
}

func TestRenameFolder(t *testing.T) {
	f := newFixture()
	fl := f.addFolder("ann", false)

	// Blank name rejected
	req := httptest.NewRequest("PUT", "/folder/"+fl.ID.Hex(), strings.NewReader(`{"name":""}`))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("blank name: expected 401, got %d", w.Code)
	}
	if fl.Name != models.DefaultFolderName {
		t.Error("folder renamed despite failed validation")
	}

	// Oversized name rejected
	long := strings.Repeat("x", models.MaxFolderNameLen+1)
	req = httptest.NewRequest("PUT", "/folder/"+fl.ID.Hex(), strings.NewReader(`{"name":"`+long+`"}`))
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("oversized name: expected 401, got %d", w.Code)
	}

	// Valid rename is reflected
	req = httptest.NewRequest("PUT", "/folder/"+fl.ID.Hex(), strings.NewReader(`{"name":"notion notes"}`))
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("rename: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if fl.Name != "notion notes" {
		t.Errorf("expected renamed folder, got %q", fl.Name)
	}
}

func TestRenameMissingFolder(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest("PUT", "/folder/"+primitive.NewObjectID().Hex(),
		strings.NewReader(`{"name":"anything"}`))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestPublishFolder(t *testing.T) {
	f := newFixture()
	fl := f.addFolder("ann", false)

	req := httptest.NewRequest("POST", "/folder/"+fl.ID.Hex(), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !fl.IsPublished {
		t.Error("folder not marked published")
	}

	// Publishing again is a no-op success
	req = httptest.NewRequest("POST", "/folder/"+fl.ID.Hex(), nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("republish: expected 200, got %d", w.Code)
	}
}

func TestDeleteFolderCascadesNotes(t *testing.T) {
	f := newFixture()
	fl := f.addFolder("ann", false)

	req := httptest.NewRequest("DELETE", "/folder/"+fl.ID.Hex(), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(f.folders.folders) != 0 {
		t.Error("folder survived deletion")
	}
	if len(f.notes.deletedFolders) != 1 || f.notes.deletedFolders[0] != fl.ID.Hex() {
		t.Errorf("expected note cascade for %s, got %v", fl.ID.Hex(), f.notes.deletedFolders)
	}
}

// Deleting a folder that is already gone is success, not failure: zero
// matched documents is distinguished from an operation error.
func TestDeleteMissingFolderSucceeds(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest("DELETE", "/folder/"+primitive.NewObjectID().Hex(), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for already-deleted folder, got %d", w.Code)
	}
}
