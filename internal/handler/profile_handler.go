package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hitoshi/woodbine/internal/model"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	Get(ctx context.Context) model.Profile
	Update(ctx context.Context, p model.Profile) (model.Profile, error)
	UpdateAvatar(ctx context.Context, uri string) (model.Profile, error)
	ClearAll(ctx context.Context, confirmed bool) error
	Logout(ctx context.Context)
}

// ProfileHandler はプロフィールとストレージ全削除のHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type updateAvatarRequest struct {
	URI string `json:"uri"`
}

// GetProfile はプロフィールを返す。未保存の項目は空文字列になる。
// GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Get(r.Context()))
}

// UpdateProfile はname、email、avatarを保存する。
// PUT /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.Profile
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.service.Update(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateAvatar はアバター画像だけを保存する。
// PUT /api/profile/avatar
func (h *ProfileHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	var req updateAvatarRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.service.UpdateAvatar(r.Context(), req.URI)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Logout はログアウト要求を受け付ける。保存データには触れない。
// POST /api/profile/logout
func (h *ProfileHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ClearStorage はイベントとアルバムを含むストレージの全データを削除する。
// confirm=trueが無い場合は何も削除せず400を返す。
// DELETE /api/storage?confirm=true
func (h *ProfileHandler) ClearStorage(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	if err := h.service.ClearAll(r.Context(), confirmed); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
