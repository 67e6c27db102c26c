package quiz

import (
	"testing"
	"time"

	"github.com/hitoshi/woodbine/internal/model"
)

func newTestSession() (*Session, *fakeClock) {
	clock := newFakeClock()
	return NewSession(clock, DefaultSettings()), clock
}

func mustSelect(t *testing.T, s *Session, kind Kind) Snapshot {
	t.Helper()
	snap, err := s.Select(kind)
	if err != nil {
		t.Fatalf("Select(%s) returned error: %v", kind, err)
	}
	return snap
}

func TestSession_StartsUnselected(t *testing.T) {
	s, _ := newTestSession()

	snap := s.Snapshot()
	if snap.State != StateUnselected || snap.Quest != nil {
		t.Errorf("snapshot = %+v, want unselected", snap)
	}
}

func TestSession_Select_UnknownQuest(t *testing.T) {
	s, _ := newTestSession()

	_, err := s.Select("chess")
	if !model.HasCode(err, model.ErrCodeQuestNotFound) {
		t.Fatalf("error = %v, want %s", err, model.ErrCodeQuestNotFound)
	}
	if s.Snapshot().State != StateUnselected {
		t.Error("state changed after unknown quest")
	}
}

func TestSession_Submit_ExactMatch(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		input   string
		want    Verdict
		wantMsg string
	}{
		{"math correct", KindMath, "12", VerdictCorrect, "Correct ✅"},
		{"math wrong", KindMath, "11", VerdictIncorrect, "Wrong ❌"},
		{"math padded is wrong", KindMath, " 12", VerdictIncorrect, "Wrong ❌"},
		{"trivia correct", KindTrivia, "Paris", VerdictCorrect, "Correct ✅"},
		{"trivia wrong", KindTrivia, "London", VerdictIncorrect, "Wrong ❌"},
		{"trivia case sensitive", KindTrivia, "paris", VerdictIncorrect, "Wrong ❌"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession()
			mustSelect(t, s, tt.kind)

			snap, err := s.Submit(tt.kind, tt.input)
			if err != nil {
				t.Fatalf("Submit returned error: %v", err)
			}
			if snap.Verdict != tt.want {
				t.Errorf("Verdict = %q, want %q", snap.Verdict, tt.want)
			}
			if snap.Result != tt.wantMsg {
				t.Errorf("Result = %q, want %q", snap.Result, tt.wantMsg)
			}
			if snap.State != StateAnswered {
				t.Errorf("State = %q, want %q", snap.State, StateAnswered)
			}
		})
	}
}

func TestSession_Submit_EmptyInputClearsVerdict(t *testing.T) {
	s, _ := newTestSession()
	mustSelect(t, s, KindMath)
	_, _ = s.Submit(KindMath, "11")

	snap, err := s.Submit(KindMath, "")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if snap.Verdict != VerdictPending || snap.Result != "" {
		t.Errorf("Verdict = %q, Result = %q; want pending with no label", snap.Verdict, snap.Result)
	}
	if snap.State != StateInProgress {
		t.Errorf("State = %q, want %q", snap.State, StateInProgress)
	}
}

func TestSession_ResetAndReselectClearsAnswer(t *testing.T) {
	s, _ := newTestSession()
	mustSelect(t, s, KindMath)
	_, _ = s.Submit(KindMath, "12")

	snap := s.Reset()
	if snap.State != StateUnselected || snap.Verdict != "" || snap.Input != "" {
		t.Errorf("after Reset = %+v", snap)
	}

	snap = mustSelect(t, s, KindMath)
	if snap.Verdict != VerdictPending || snap.Input != "" || snap.State != StateInProgress {
		t.Errorf("after reselect = %+v, want fresh in-progress", snap)
	}
}

func TestSession_Select_DiscardsPriorInputs(t *testing.T) {
	s, _ := newTestSession()
	mustSelect(t, s, KindTrivia)
	_, _ = s.Submit(KindTrivia, "Paris")

	snap := mustSelect(t, s, KindMath)
	if snap.Input != "" || snap.Verdict != VerdictPending {
		t.Errorf("snapshot = %+v, want prior answer discarded", snap)
	}
}

func TestSession_Submit_KindMismatch(t *testing.T) {
	s, _ := newTestSession()

	_, err := s.Submit(KindMath, "12")
	if !model.HasCode(err, model.ErrCodeQuestKindMismatch) {
		t.Errorf("unselected error = %v, want %s", err, model.ErrCodeQuestKindMismatch)
	}

	mustSelect(t, s, KindTrivia)
	_, err = s.Submit(KindMath, "12")
	if !model.HasCode(err, model.ErrCodeQuestKindMismatch) {
		t.Errorf("mismatch error = %v, want %s", err, model.ErrCodeQuestKindMismatch)
	}
}

func TestSession_UnimplementedQuest(t *testing.T) {
	s, _ := newTestSession()

	snap := mustSelect(t, s, KindPuzzle)
	if snap.Message != NotImplementedMessage {
		t.Errorf("Message = %q, want %q", snap.Message, NotImplementedMessage)
	}
	if snap.Quest == nil || snap.Quest.Playable {
		t.Errorf("Quest = %+v, want non-playable", snap.Quest)
	}

	_, err := s.Submit(KindPuzzle, "anything")
	if !model.HasCode(err, model.ErrCodeQuestNotImplemented) {
		t.Errorf("error = %v, want %s", err, model.ErrCodeQuestNotImplemented)
	}
}

func TestSession_Submit_SpeedTestTakesNoAnswer(t *testing.T) {
	s, _ := newTestSession()
	mustSelect(t, s, KindSpeed)

	_, err := s.Submit(KindSpeed, "10")
	if !model.HasCode(err, model.ErrCodeQuestInputNotAccepted) {
		t.Errorf("error = %v, want %s", err, model.ErrCodeQuestInputNotAccepted)
	}
}

func TestSession_Memory_DisplayWindow(t *testing.T) {
	s, clock := newTestSession()

	snap := mustSelect(t, s, KindMemory)
	if snap.MemoryPhase != MemoryDisplaying {
		t.Fatalf("MemoryPhase = %q, want %q", snap.MemoryPhase, MemoryDisplaying)
	}
	if snap.MemorySequence != "73914" {
		t.Errorf("MemorySequence = %q, want %q", snap.MemorySequence, "73914")
	}

	clock.Advance(2999 * time.Millisecond)
	if got := s.Snapshot().MemoryPhase; got != MemoryDisplaying {
		t.Errorf("at 2999ms MemoryPhase = %q, want %q", got, MemoryDisplaying)
	}
	_, err := s.Submit(KindMemory, "73914")
	if !model.HasCode(err, model.ErrCodeQuestInputNotAccepted) {
		t.Errorf("error during display = %v, want %s", err, model.ErrCodeQuestInputNotAccepted)
	}

	clock.Advance(time.Millisecond)
	snap = s.Snapshot()
	if snap.MemoryPhase != MemoryAwaitingInput {
		t.Fatalf("at 3000ms MemoryPhase = %q, want %q", snap.MemoryPhase, MemoryAwaitingInput)
	}
	if snap.MemorySequence != "" {
		t.Error("sequence must be hidden after display window")
	}

	snap, err = s.Submit(KindMemory, "73914")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if snap.Verdict != VerdictCorrect {
		t.Errorf("Verdict = %q, want %q", snap.Verdict, VerdictCorrect)
	}
}

func TestSession_Memory_ReselectRestartsWindow(t *testing.T) {
	s, clock := newTestSession()
	mustSelect(t, s, KindMemory)
	clock.Advance(2 * time.Second)

	mustSelect(t, s, KindMemory)
	clock.Advance(2 * time.Second)
	if got := s.Snapshot().MemoryPhase; got != MemoryDisplaying {
		t.Errorf("MemoryPhase = %q, want %q (first timer must not fire)", got, MemoryDisplaying)
	}

	clock.Advance(time.Second)
	if got := s.Snapshot().MemoryPhase; got != MemoryAwaitingInput {
		t.Errorf("MemoryPhase = %q, want %q", got, MemoryAwaitingInput)
	}
}

func TestSession_Reset_CancelsTimers(t *testing.T) {
	s, clock := newTestSession()
	mustSelect(t, s, KindMemory)
	stale := clock.last()

	s.Reset()
	if clock.active() != 0 {
		t.Errorf("active timers = %d, want 0", clock.active())
	}

	// 停止が間に合わなかったコールバックを模擬する
	stale.f()
	if snap := s.Snapshot(); snap.State != StateUnselected || snap.MemoryPhase != "" {
		t.Errorf("stale callback mutated state: %+v", snap)
	}
}

func TestSession_SpeedTap_CountsToLimitThenFreezes(t *testing.T) {
	s, clock := newTestSession()
	mustSelect(t, s, KindSpeed)

	snap, err := s.StartSpeedTap()
	if err != nil {
		t.Fatalf("StartSpeedTap returned error: %v", err)
	}
	if snap.SpeedCount != 0 || !snap.SpeedRunning {
		t.Errorf("after start = %+v", snap)
	}

	clock.Advance(3 * time.Second)
	if got := s.Snapshot().SpeedCount; got != 3 {
		t.Errorf("after 3s SpeedCount = %d, want 3", got)
	}

	clock.Advance(20 * time.Second)
	snap = s.Snapshot()
	if snap.SpeedCount != 10 || snap.SpeedRunning {
		t.Errorf("after 23s = %+v, want frozen at 10", snap)
	}
	if snap.State != StateAnswered {
		t.Errorf("State = %q, want %q", snap.State, StateAnswered)
	}
	if clock.active() != 0 {
		t.Errorf("active timers = %d, want 0", clock.active())
	}
}

func TestSession_SpeedTap_RestartCancelsPreviousTicker(t *testing.T) {
	s, clock := newTestSession()
	mustSelect(t, s, KindSpeed)
	_, _ = s.StartSpeedTap()
	clock.Advance(2500 * time.Millisecond)

	snap, _ := s.StartSpeedTap()
	if snap.SpeedCount != 0 {
		t.Errorf("SpeedCount after restart = %d, want 0", snap.SpeedCount)
	}

	clock.Advance(time.Second)
	if got := s.Snapshot().SpeedCount; got != 1 {
		t.Errorf("SpeedCount = %d, want 1 (single ticker)", got)
	}
	if clock.active() != 1 {
		t.Errorf("active timers = %d, want 1", clock.active())
	}
}

func TestSession_SpeedTap_RequiresSpeedQuest(t *testing.T) {
	s, _ := newTestSession()

	_, err := s.StartSpeedTap()
	if !model.HasCode(err, model.ErrCodeQuestKindMismatch) {
		t.Errorf("unselected error = %v, want %s", err, model.ErrCodeQuestKindMismatch)
	}

	mustSelect(t, s, KindMath)
	_, err = s.StartSpeedTap()
	if !model.HasCode(err, model.ErrCodeQuestKindMismatch) {
		t.Errorf("math error = %v, want %s", err, model.ErrCodeQuestKindMismatch)
	}
}

func TestSession_SelectOtherQuest_StopsSpeedTicker(t *testing.T) {
	s, clock := newTestSession()
	mustSelect(t, s, KindSpeed)
	_, _ = s.StartSpeedTap()
	clock.Advance(2 * time.Second)

	mustSelect(t, s, KindMath)
	clock.Advance(5 * time.Second)

	if snap := s.Snapshot(); snap.SpeedCount != 0 || snap.SpeedRunning {
		t.Errorf("snapshot = %+v, want speed counter cleared", snap)
	}
}

func TestSession_AnswerHook(t *testing.T) {
	s, _ := newTestSession()
	var got []Verdict
	s.SetAnswerHook(func(kind Kind, verdict Verdict) {
		if kind != KindMath {
			t.Errorf("kind = %q, want %q", kind, KindMath)
		}
		got = append(got, verdict)
	})
	mustSelect(t, s, KindMath)

	_, _ = s.Submit(KindMath, "12")
	_, _ = s.Submit(KindMath, "")
	_, _ = s.Submit(KindMath, "13")

	if len(got) != 2 || got[0] != VerdictCorrect || got[1] != VerdictIncorrect {
		t.Errorf("hook verdicts = %v, want [correct incorrect]", got)
	}
}

func TestSettings_WithDefaults(t *testing.T) {
	got := Settings{SpeedTapLimit: 5}.withDefaults()
	if got.MemoryDisplay != 3*time.Second || got.SpeedTapInterval != time.Second || got.SpeedTapLimit != 5 {
		t.Errorf("withDefaults = %+v", got)
	}
}
