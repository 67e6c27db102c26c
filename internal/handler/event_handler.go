package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/woodbine/internal/event"
	"github.com/hitoshi/woodbine/internal/model"
)

// EventServiceInterface はイベントハンドラーが必要とするサービスインターフェース。
type EventServiceInterface interface {
	FilterByTitle(ctx context.Context, query string) []model.Event
	Get(ctx context.Context, id string) (model.Event, error)
	AddEvent(ctx context.Context, title, date, imageRef string) (model.Event, error)
	Book(ctx context.Context, id string) (event.Booking, error)
}

// EventHandler はイベント一覧と予約のHTTPハンドラー。
type EventHandler struct {
	service EventServiceInterface
}

// NewEventHandler はEventHandlerを生成する。
func NewEventHandler(service EventServiceInterface) *EventHandler {
	return &EventHandler{service: service}
}

type addEventRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Image string `json:"image"`
}

// eventResponse はイベントのレスポンス表現。
// BundledImageがtrueの場合、アプリはImageを同梱アセット名として解決する。
type eventResponse struct {
	model.Event
	BundledImage bool `json:"bundled_image"`
}

func newEventResponse(ev model.Event) eventResponse {
	return eventResponse{Event: ev, BundledImage: ev.HasBundledImage()}
}

func newEventListResponse(events []model.Event) []eventResponse {
	resp := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		resp = append(resp, newEventResponse(ev))
	}
	return resp
}

// ListEvents はイベント一覧を返す。qを指定するとタイトルで絞り込む。
// GET /api/events?q=
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events := h.service.FilterByTitle(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, newEventListResponse(events))
}

// AddEvent はイベントを追加する。
// POST /api/events
func (h *EventHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	var req addEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ev, err := h.service.AddEvent(r.Context(), req.Title, req.Date, req.Image)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEventResponse(ev))
}

// GetEvent はイベント詳細を返す。詳細画面への遷移で使われる。
// GET /api/events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEventResponse(ev))
}

// BookEvent はイベントを予約し、確認メッセージを返す。
// POST /api/events/{id}/booking
func (h *EventHandler) BookEvent(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.Book(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}
