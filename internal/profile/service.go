// Package profile はプロフィール管理のドメインロジックを提供する。
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/woodbine/internal/model"
	"github.com/hitoshi/woodbine/internal/security"
)

// Store はプロフィールの永続化インターフェース。store.ProfileStoreが実装する。
type Store interface {
	LoadProfile(ctx context.Context) (model.Profile, error)
	SaveProfile(ctx context.Context, p model.Profile) error
	SaveAvatar(ctx context.Context, uri string) error
	ClearAll(ctx context.Context) error
}

// Invalidator はストレージのクリア後にメモリ上の状態を破棄するコンポーネント。
type Invalidator interface {
	Invalidate()
}

// Service はプロフィール管理のサービス層。
type Service struct {
	store        Store
	sanitizer    security.TextSanitizerService
	invalidators []Invalidator
	logger       *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
// invalidatorsにはClearAll後に再読み込みさせるカタログを渡す。
func NewService(
	store Store,
	sanitizer security.TextSanitizerService,
	logger *slog.Logger,
	invalidators ...Invalidator,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:        store,
		sanitizer:    sanitizer,
		invalidators: invalidators,
		logger:       logger,
	}
}

// Get はプロフィールを返す。読み込みに失敗した場合はログに記録し、空のプロフィールを返す。
func (s *Service) Get(ctx context.Context) model.Profile {
	p, err := s.store.LoadProfile(ctx)
	if err != nil {
		s.logger.Error("プロフィールの読み込みに失敗しました。空として扱います",
			slog.String("error", err.Error()),
		)
		return model.Profile{}
	}
	return p
}

// Update はname、email、avatarを保存する。空文字列も有効な値として保存される。
func (s *Service) Update(ctx context.Context, p model.Profile) (model.Profile, error) {
	clean := model.Profile{
		Name:   s.sanitizer.Sanitize(p.Name),
		Email:  s.sanitizer.Sanitize(p.Email),
		Avatar: strings.TrimSpace(p.Avatar),
	}
	if err := s.store.SaveProfile(ctx, clean); err != nil {
		return model.Profile{}, fmt.Errorf("プロフィールの更新に失敗しました: %w", err)
	}

	s.logger.Info("プロフィールを更新しました")
	return clean, nil
}

// UpdateAvatar はアバター画像を即時に保存し、更新後のプロフィールを返す。
func (s *Service) UpdateAvatar(ctx context.Context, uri string) (model.Profile, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return model.Profile{}, model.NewValidationError("avatar")
	}
	if err := s.store.SaveAvatar(ctx, uri); err != nil {
		return model.Profile{}, fmt.Errorf("アバターの更新に失敗しました: %w", err)
	}
	return s.Get(ctx), nil
}

// ClearAll はストレージの全データを削除する。
// プロフィールだけでなくイベントとアルバムも消えるため、confirmedがfalseの場合は
// CONFIRMATION_REQUIREDを返して何も削除しない。
// 削除後は登録されたカタログを破棄し、次回アクセス時に初期データから読み直させる。
func (s *Service) ClearAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return model.NewConfirmationRequiredError()
	}

	if err := s.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("全データの削除に失敗しました: %w", err)
	}
	for _, inv := range s.invalidators {
		inv.Invalidate()
	}

	s.logger.Warn("ストレージの全データを削除しました",
		slog.Int("invalidated_catalogs", len(s.invalidators)),
	)
	return nil
}

// Logout はログアウト要求を記録する。認証状態を持たないため他に行う処理はない。
func (s *Service) Logout(ctx context.Context) {
	s.logger.Info("ログアウトが要求されました")
}
