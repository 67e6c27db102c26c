// Package sweep は放置されたクエストセッションの定期破棄ジョブを提供する。
package sweep

import (
	"context"
	"log/slog"
	"time"
)

// SessionSweeper はアイドルセッションの破棄を実行するインターフェース。
// quiz.Managerが実装する。
type SessionSweeper interface {
	SweepIdle(ctx context.Context, ttl time.Duration) int
}

// Sweeper は一定間隔でアイドルセッションを破棄するワーカー。
type Sweeper struct {
	sessions SessionSweeper
	logger   *slog.Logger
	TTL      time.Duration // 最終アクセスからの保持期間（デフォルト: 30分）
}

// NewSweeper はSweeperを生成する。ttlが0以下の場合は30分を使用する。
func NewSweeper(sessions SessionSweeper, ttl time.Duration, logger *slog.Logger) *Sweeper {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sweeper{
		sessions: sessions,
		logger:   logger,
		TTL:      ttl,
	}
}

// defaultInterval はintervalが0以下の場合に使う実行間隔。
const defaultInterval = 5 * time.Minute

// Start はintervalごとにRunOnceを実行する。コンテキストがキャンセルされるまで継続する。
// intervalが0以下の場合は5分を使用する。
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("セッションスイーパーを開始しました",
		slog.Duration("interval", interval),
		slog.Duration("ttl", s.TTL),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("セッションスイーパーを停止しました")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce はアイドルセッションを1回破棄し、破棄した件数を返す。
func (s *Sweeper) RunOnce(ctx context.Context) int {
	start := time.Now()
	removed := s.sessions.SweepIdle(ctx, s.TTL)

	if removed > 0 {
		s.logger.Info("アイドルセッションを破棄しました",
			slog.Int("removed_count", removed),
			slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
		)
	}
	return removed
}
