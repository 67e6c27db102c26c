package quiz

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/woodbine/internal/model"
)

// MetricsRecorder はクエストエンジンが記録するメトリクスのインターフェース。
type MetricsRecorder interface {
	RecordQuestAnswer(kind, verdict string)
	SetActiveQuestSessions(count int)
	RecordQuestSessionsExpired(count int)
}

type managedSession struct {
	session    *Session
	lastAccess time.Time
}

// Manager はクエストセッションをUUIDで管理するレジストリ。
// アクセスのたびに最終アクセス時刻を更新し、SweepIdleで放置されたセッションを破棄する。
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*managedSession
	clock    Clock
	settings Settings
	metrics  MetricsRecorder
	logger   *slog.Logger
	newID    func() string
}

// NewManager はManagerを生成する。metricsはnilでもよい。
func NewManager(clock Clock, settings Settings, metrics MetricsRecorder, logger *slog.Logger) *Manager {
	if clock == nil {
		clock = RealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sessions: make(map[string]*managedSession),
		clock:    clock,
		settings: settings.withDefaults(),
		metrics:  metrics,
		logger:   logger,
		newID:    func() string { return uuid.New().String() },
	}
}

// Create は新しいセッションを登録し、そのIDとセッションを返す。
func (m *Manager) Create() (string, *Session) {
	s := NewSession(m.clock, m.settings)
	if m.metrics != nil {
		s.SetAnswerHook(func(kind Kind, verdict Verdict) {
			m.metrics.RecordQuestAnswer(string(kind), string(verdict))
		})
	}

	m.mu.Lock()
	id := m.newID()
	m.sessions[id] = &managedSession{session: s, lastAccess: m.clock.Now()}
	count := len(m.sessions)
	m.mu.Unlock()

	m.reportActive(count)
	m.logger.Debug("クエストセッションを作成しました", slog.String("session_id", id))
	return id, s
}

// Session は指定IDのセッションを返し、最終アクセス時刻を更新する。
// 見つからない場合はQUEST_SESSION_NOT_FOUNDを返す。
func (m *Manager) Session(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms, ok := m.sessions[id]
	if !ok {
		return nil, model.NewQuestSessionNotFoundError(id)
	}
	ms.lastAccess = m.clock.Now()
	return ms.session, nil
}

// Delete は指定IDのセッションのタイマーを停止して削除する。
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return model.NewQuestSessionNotFoundError(id)
	}
	ms.session.Close()
	m.reportActive(count)
	return nil
}

// Count は登録中のセッション数を返す。
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// SweepIdle は最終アクセスからttl以上経過したセッションを破棄し、破棄した件数を返す。
func (m *Manager) SweepIdle(ctx context.Context, ttl time.Duration) int {
	cutoff := m.clock.Now().Add(-ttl)

	m.mu.Lock()
	var expired []*Session
	for id, ms := range m.sessions {
		if ctx.Err() != nil {
			break
		}
		if !ms.lastAccess.After(cutoff) {
			expired = append(expired, ms.session)
			delete(m.sessions, id)
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 && m.metrics != nil {
		m.metrics.RecordQuestSessionsExpired(len(expired))
	}
	m.reportActive(count)
	return len(expired)
}

// CloseAll は全セッションを破棄する。シャットダウン時に使用する。
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*managedSession)
	m.mu.Unlock()

	for _, ms := range sessions {
		ms.session.Close()
	}
	m.reportActive(0)
}

func (m *Manager) reportActive(count int) {
	if m.metrics != nil {
		m.metrics.SetActiveQuestSessions(count)
	}
}
