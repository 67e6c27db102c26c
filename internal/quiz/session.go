package quiz

import (
	"sync"
	"time"

	"github.com/hitoshi/woodbine/internal/model"
)

// State はセッションの進行状態。
type State string

// セッション状態。
const (
	StateUnselected State = "unselected"
	StateInProgress State = "in_progress"
	StateAnswered   State = "answered"
)

// Verdict は回答の判定結果。
type Verdict string

// 判定結果。pendingは入力が空で判定を表示しない状態。
const (
	VerdictPending   Verdict = "pending"
	VerdictCorrect   Verdict = "correct"
	VerdictIncorrect Verdict = "incorrect"
)

// Label は画面に表示する判定文言を返す。
func (v Verdict) Label() string {
	switch v {
	case VerdictCorrect:
		return "Correct ✅"
	case VerdictIncorrect:
		return "Wrong ❌"
	default:
		return ""
	}
}

// MemoryPhase は記憶テストの表示段階。
type MemoryPhase string

// 記憶テストの段階。
const (
	MemoryDisplaying    MemoryPhase = "displaying"
	MemoryAwaitingInput MemoryPhase = "awaiting_input"
)

// Settings はクエストの時間関連パラメータ。
type Settings struct {
	MemoryDisplay    time.Duration
	SpeedTapInterval time.Duration
	SpeedTapLimit    int
}

// DefaultSettings は既定値（表示3秒、1秒ごとに10回まで）を返す。
func DefaultSettings() Settings {
	return Settings{
		MemoryDisplay:    3 * time.Second,
		SpeedTapInterval: time.Second,
		SpeedTapLimit:    10,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.MemoryDisplay <= 0 {
		s.MemoryDisplay = d.MemoryDisplay
	}
	if s.SpeedTapInterval <= 0 {
		s.SpeedTapInterval = d.SpeedTapInterval
	}
	if s.SpeedTapLimit <= 0 {
		s.SpeedTapLimit = d.SpeedTapLimit
	}
	return s
}

// Snapshot はセッション状態の読み取り専用コピー。
type Snapshot struct {
	State          State       `json:"state"`
	Quest          *Quest      `json:"quest,omitempty"`
	Input          string      `json:"input,omitempty"`
	Verdict        Verdict     `json:"verdict,omitempty"`
	Result         string      `json:"result,omitempty"`
	MemoryPhase    MemoryPhase `json:"memory_phase,omitempty"`
	MemorySequence string      `json:"memory_sequence,omitempty"`
	SpeedCount     int         `json:"speed_count"`
	SpeedRunning   bool        `json:"speed_running"`
	Message        string      `json:"message,omitempty"`
}

// AnswerHook は回答が判定されるたびに呼ばれる。
type AnswerHook func(kind Kind, verdict Verdict)

// Session は1人の利用者のクエスト進行状態を保持する。
// タイマーはセッションが所有し、状態遷移のたびに全て停止する。
// 停止が間に合わなかったコールバックはepochの不一致で破棄される。
type Session struct {
	mu       sync.Mutex
	clock    Clock
	settings Settings
	onAnswer AnswerHook

	epoch        uint64
	state        State
	quest        Quest
	input        string
	verdict      Verdict
	memoryPhase  MemoryPhase
	speedCount   int
	speedRunning bool

	memoryTimer Timer
	speedTimer  Timer
}

// NewSession は未選択状態のセッションを生成する。
func NewSession(clock Clock, settings Settings) *Session {
	if clock == nil {
		clock = RealClock()
	}
	return &Session{
		clock:    clock,
		settings: settings.withDefaults(),
		state:    StateUnselected,
	}
}

// SetAnswerHook は判定結果の通知先を設定する。
func (s *Session) SetAnswerHook(hook AnswerHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAnswer = hook
}

// Select はクエストを選択して進行中にする。以前の入力は破棄され、タイマーは全て停止する。
// 記憶テストの場合は表示段階を開始し、表示時間経過後に入力待ちへ移る。
func (s *Session) Select(kind Kind) (Snapshot, error) {
	q, err := Lookup(kind)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
	s.state = StateInProgress
	s.quest = q
	s.verdict = VerdictPending

	if q.Kind == KindMemory {
		s.memoryPhase = MemoryDisplaying
		epoch := s.epoch
		s.memoryTimer = s.clock.AfterFunc(s.settings.MemoryDisplay, func() {
			s.endMemoryDisplay(epoch)
		})
	}
	return s.snapshotLocked(), nil
}

// Submit は選択中のクエストに回答を提出し、完全一致で判定する。
// 入力が空の場合は判定をpendingに戻し、状態は進行中のままとする。
func (s *Session) Submit(kind Kind, input string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSelectedLocked(kind); err != nil {
		return Snapshot{}, err
	}
	if !s.quest.Playable {
		return Snapshot{}, model.NewQuestNotImplementedError(string(kind))
	}
	answer, ok := answers[kind]
	if !ok {
		return Snapshot{}, model.NewQuestInputNotAcceptedError(string(kind))
	}
	if kind == KindMemory && s.memoryPhase != MemoryAwaitingInput {
		return Snapshot{}, model.NewQuestInputNotAcceptedError(string(kind))
	}

	s.input = input
	if input == "" {
		s.verdict = VerdictPending
		s.state = StateInProgress
		return s.snapshotLocked(), nil
	}

	if input == answer {
		s.verdict = VerdictCorrect
	} else {
		s.verdict = VerdictIncorrect
	}
	s.state = StateAnswered
	if s.onAnswer != nil {
		s.onAnswer(kind, s.verdict)
	}
	return s.snapshotLocked(), nil
}

// StartSpeedTap はスピードテストのカウンタを0に戻して計測を開始する。
// 実行中のカウンタがあれば停止してから始め直す。上限に達するとカウンタは止まり回答済みになる。
func (s *Session) StartSpeedTap() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSelectedLocked(KindSpeed); err != nil {
		return Snapshot{}, err
	}

	s.stopTimersLocked()
	s.epoch++
	s.speedCount = 0
	s.speedRunning = true
	s.state = StateInProgress
	s.armSpeedTickLocked()
	return s.snapshotLocked(), nil
}

// Reset は未選択状態に戻し、回答を破棄して全タイマーを停止する。
func (s *Session) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
	return s.snapshotLocked()
}

// Snapshot は現在の状態を返す。
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close はタイマーを停止してセッションを破棄する。
func (s *Session) Close() {
	s.Reset()
}

func (s *Session) requireSelectedLocked(kind Kind) error {
	if s.state == StateUnselected {
		return model.NewQuestKindMismatchError("", string(kind))
	}
	if s.quest.Kind != kind {
		return model.NewQuestKindMismatchError(string(s.quest.Kind), string(kind))
	}
	return nil
}

// clearLocked はタイマーを止めて全フィールドを未選択状態に戻す。
func (s *Session) clearLocked() {
	s.stopTimersLocked()
	s.epoch++
	s.state = StateUnselected
	s.quest = Quest{}
	s.input = ""
	s.verdict = ""
	s.memoryPhase = ""
	s.speedCount = 0
	s.speedRunning = false
}

func (s *Session) stopTimersLocked() {
	if s.memoryTimer != nil {
		s.memoryTimer.Stop()
		s.memoryTimer = nil
	}
	if s.speedTimer != nil {
		s.speedTimer.Stop()
		s.speedTimer = nil
	}
}

func (s *Session) endMemoryDisplay(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || s.memoryPhase != MemoryDisplaying {
		return
	}
	s.memoryPhase = MemoryAwaitingInput
	s.memoryTimer = nil
}

func (s *Session) armSpeedTickLocked() {
	epoch := s.epoch
	s.speedTimer = s.clock.AfterFunc(s.settings.SpeedTapInterval, func() {
		s.speedTick(epoch)
	})
}

func (s *Session) speedTick(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || !s.speedRunning {
		return
	}
	s.speedCount++
	if s.speedCount >= s.settings.SpeedTapLimit {
		s.speedRunning = false
		s.speedTimer = nil
		s.state = StateAnswered
		return
	}
	s.armSpeedTickLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:        s.state,
		Input:        s.input,
		Verdict:      s.verdict,
		Result:       s.verdict.Label(),
		MemoryPhase:  s.memoryPhase,
		SpeedCount:   s.speedCount,
		SpeedRunning: s.speedRunning,
	}
	if s.state == StateUnselected {
		return snap
	}

	q := s.quest.clone()
	snap.Quest = &q
	if !q.Playable {
		snap.Message = NotImplementedMessage
	}
	if s.memoryPhase == MemoryDisplaying {
		snap.MemorySequence = memorySequence
		snap.Quest.Prompt = "Remember this number:"
	}
	return snap
}
