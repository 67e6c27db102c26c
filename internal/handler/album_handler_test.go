package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/woodbine/internal/model"
)

// mockAlbumService はAlbumServiceInterfaceのモック実装。
type mockAlbumService struct {
	listFn     func(ctx context.Context) []model.Album
	getFn      func(ctx context.Context, id string) (model.Album, error)
	addFn      func(ctx context.Context, title string) (model.Album, error)
	addPhotoFn func(ctx context.Context, albumID string, source model.ImageSource) (model.Album, bool, error)
}

func (m *mockAlbumService) List(ctx context.Context) []model.Album {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Album{}
}

func (m *mockAlbumService) Get(ctx context.Context, id string) (model.Album, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return model.Album{}, model.NewAlbumNotFoundError(id)
}

func (m *mockAlbumService) AddAlbum(ctx context.Context, title string) (model.Album, error) {
	if m.addFn != nil {
		return m.addFn(ctx, title)
	}
	return model.Album{}, nil
}

func (m *mockAlbumService) AddPhotoFromSource(ctx context.Context, albumID string, source model.ImageSource) (model.Album, bool, error) {
	if m.addPhotoFn != nil {
		return m.addPhotoFn(ctx, albumID, source)
	}
	return model.Album{}, false, nil
}

func TestAlbumHandler_AddAlbum_Success(t *testing.T) {
	svc := &mockAlbumService{
		addFn: func(ctx context.Context, title string) (model.Album, error) {
			return model.NewAlbum("1700000000000", title)
		},
	}
	h := NewAlbumHandler(svc)

	w := httptest.NewRecorder()
	h.AddAlbum(w, httptest.NewRequest(http.MethodPost, "/api/albums", bytes.NewBufferString(`{"title":"Summer"}`)))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"photos":[]`)) {
		t.Errorf("body = %s, want photos as empty array", w.Body.String())
	}
}

func TestAlbumHandler_GetAlbum_NotFound(t *testing.T) {
	h := NewAlbumHandler(&mockAlbumService{})

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/albums/nope", nil), "id", "nope")
	w := httptest.NewRecorder()
	h.GetAlbum(w, req)

	assertErrorCode(t, w, http.StatusNotFound, model.ErrCodeAlbumNotFound)
}

func TestAlbumHandler_AddPhoto_PickedImage(t *testing.T) {
	svc := &mockAlbumService{
		addPhotoFn: func(ctx context.Context, albumID string, source model.ImageSource) (model.Album, bool, error) {
			uri, err := source.PickImage(ctx)
			if err != nil {
				t.Fatalf("PickImage returned error: %v", err)
			}
			if uri != "content://media/7" {
				t.Errorf("uri = %q, want %q", uri, "content://media/7")
			}
			return model.Album{ID: albumID, Title: "Party", Photos: []string{uri}}, true, nil
		},
	}
	h := NewAlbumHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/albums/1/photos", bytes.NewBufferString(`{"uri":" content://media/7 "}`))
	w := httptest.NewRecorder()
	h.AddPhoto(w, withChiURLParam(req, "id", "1"))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	var resp addPhotoResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Added {
		t.Error("added = false, want true")
	}
	if len(resp.Album.Photos) != 1 {
		t.Errorf("photos = %v, want 1 entry", resp.Album.Photos)
	}
}

func TestAlbumHandler_AddPhoto_CancelledPick(t *testing.T) {
	svc := &mockAlbumService{
		addPhotoFn: func(ctx context.Context, albumID string, source model.ImageSource) (model.Album, bool, error) {
			if _, err := source.PickImage(ctx); !errors.Is(err, model.ErrImagePickCancelled) {
				t.Errorf("PickImage error = %v, want ErrImagePickCancelled", err)
			}
			return model.Album{ID: albumID, Title: "Party", Photos: []string{}}, false, nil
		},
	}
	h := NewAlbumHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/albums/1/photos", bytes.NewBufferString(`{"cancelled":true}`))
	w := httptest.NewRecorder()
	h.AddPhoto(w, withChiURLParam(req, "id", "1"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp addPhotoResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Added {
		t.Error("added = true, want false")
	}
}

func TestAlbumHandler_AddPhoto_UnknownAlbum(t *testing.T) {
	svc := &mockAlbumService{
		addPhotoFn: func(ctx context.Context, albumID string, source model.ImageSource) (model.Album, bool, error) {
			return model.Album{}, false, model.NewAlbumNotFoundError(albumID)
		},
	}
	h := NewAlbumHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/albums/x/photos", bytes.NewBufferString(`{"uri":"uri"}`))
	w := httptest.NewRecorder()
	h.AddPhoto(w, withChiURLParam(req, "id", "x"))

	assertErrorCode(t, w, http.StatusNotFound, model.ErrCodeAlbumNotFound)
}
