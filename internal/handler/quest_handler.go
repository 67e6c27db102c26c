package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/woodbine/internal/quiz"
)

// QuestSessionManager はクエストハンドラーが必要とするセッション管理インターフェース。
type QuestSessionManager interface {
	Create() (string, *quiz.Session)
	Session(id string) (*quiz.Session, error)
	Delete(id string) error
}

// QuestHandler はクエスト一覧とクエストセッションのHTTPハンドラー。
type QuestHandler struct {
	sessions QuestSessionManager
}

// NewQuestHandler はQuestHandlerを生成する。
func NewQuestHandler(sessions QuestSessionManager) *QuestHandler {
	return &QuestHandler{sessions: sessions}
}

type selectQuestRequest struct {
	Kind quiz.Kind `json:"kind"`
}

type answerQuestRequest struct {
	Kind  quiz.Kind `json:"kind"`
	Input string    `json:"input"`
}

type questSessionResponse struct {
	ID       string        `json:"id"`
	Snapshot quiz.Snapshot `json:"snapshot"`
}

// ListQuests は全クエストを表示順で返す。
// GET /api/quests
func (h *QuestHandler) ListQuests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, quiz.Catalog())
}

// CreateSession は未選択状態のクエストセッションを開始する。
// POST /api/quest-sessions
func (h *QuestHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, s := h.sessions.Create()
	writeJSON(w, http.StatusCreated, questSessionResponse{ID: id, Snapshot: s.Snapshot()})
}

// GetSession はセッションの現在状態を返す。記憶テストの表示終了や連打カウントの確認に使う。
// GET /api/quest-sessions/{id}
func (h *QuestHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *quiz.Session) (quiz.Snapshot, error) {
		return s.Snapshot(), nil
	})
}

// DeleteSession はセッションのタイマーを止めて破棄する。
// DELETE /api/quest-sessions/{id}
func (h *QuestHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectQuest はクエストを選択する。
// POST /api/quest-sessions/{id}/select
func (h *QuestHandler) SelectQuest(w http.ResponseWriter, r *http.Request) {
	var req selectQuestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.withSession(w, r, func(s *quiz.Session) (quiz.Snapshot, error) {
		return s.Select(req.Kind)
	})
}

// SubmitAnswer は選択中のクエストに回答する。
// POST /api/quest-sessions/{id}/answer
func (h *QuestHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerQuestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.withSession(w, r, func(s *quiz.Session) (quiz.Snapshot, error) {
		return s.Submit(req.Kind, req.Input)
	})
}

// StartSpeedTap は連打チャレンジのカウントを開始する。
// POST /api/quest-sessions/{id}/speed-tap
func (h *QuestHandler) StartSpeedTap(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *quiz.Session) (quiz.Snapshot, error) {
		return s.StartSpeedTap()
	})
}

// ResetSession は選択と結果をクリアして未選択状態に戻す。
// POST /api/quest-sessions/{id}/reset
func (h *QuestHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *quiz.Session) (quiz.Snapshot, error) {
		return s.Reset(), nil
	})
}

func (h *QuestHandler) withSession(w http.ResponseWriter, r *http.Request, op func(*quiz.Session) (quiz.Snapshot, error)) {
	id := chi.URLParam(r, "id")
	s, err := h.sessions.Session(id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	snap, err := op(s)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questSessionResponse{ID: id, Snapshot: snap})
}
