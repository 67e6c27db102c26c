package quiz

import "time"

// Timer は停止可能なワンショットタイマー。*time.Timerが実装する。
type Timer interface {
	Stop() bool
}

// Clock はセッションが使用する時刻源とタイマー生成のインターフェース。
// テストでは時刻を手動で進めるフェイクに差し替える。
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// RealClock はtimeパッケージに委譲するClockを返す。
func RealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
