package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/woodbine/internal/model"
)

// AlbumServiceInterface はアルバムハンドラーが必要とするサービスインターフェース。
type AlbumServiceInterface interface {
	List(ctx context.Context) []model.Album
	Get(ctx context.Context, id string) (model.Album, error)
	AddAlbum(ctx context.Context, title string) (model.Album, error)
	AddPhotoFromSource(ctx context.Context, albumID string, source model.ImageSource) (model.Album, bool, error)
}

// AlbumHandler はアルバム管理のHTTPハンドラー。
type AlbumHandler struct {
	service AlbumServiceInterface
}

// NewAlbumHandler はAlbumHandlerを生成する。
func NewAlbumHandler(service AlbumServiceInterface) *AlbumHandler {
	return &AlbumHandler{service: service}
}

type addAlbumRequest struct {
	Title string `json:"title"`
}

// addPhotoRequest はアプリシェルの画像ピッカーの結果を表す。
type addPhotoRequest struct {
	URI       string `json:"uri"`
	Cancelled bool   `json:"cancelled"`
}

type addPhotoResponse struct {
	Album model.Album `json:"album"`
	Added bool        `json:"added"`
}

// pickedImage はリクエストで受け取ったピッカー結果をImageSourceとして扱う。
type pickedImage addPhotoRequest

// PickImage はmodel.ImageSourceを実装する。
func (p pickedImage) PickImage(ctx context.Context) (string, error) {
	if p.Cancelled {
		return "", model.ErrImagePickCancelled
	}
	return strings.TrimSpace(p.URI), nil
}

// ListAlbums はアルバム一覧を返す。
// GET /api/albums
func (h *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.List(r.Context()))
}

// AddAlbum は空のアルバムを追加する。
// POST /api/albums
func (h *AlbumHandler) AddAlbum(w http.ResponseWriter, r *http.Request) {
	var req addAlbumRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.service.AddAlbum(r.Context(), req.Title)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// GetAlbum はアルバム詳細を返す。
// GET /api/albums/{id}
func (h *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// AddPhoto は選択された画像をアルバムに追加する。
// キャンセルされた場合はアルバムを変更せず、added=falseで200を返す。
// POST /api/albums/{id}/photos
func (h *AlbumHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	var req addPhotoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, added, err := h.service.AddPhotoFromSource(r.Context(), chi.URLParam(r, "id"), pickedImage(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, addPhotoResponse{Album: a, Added: added})
}
