package store

import (
	"context"
	"fmt"

	"github.com/hitoshi/woodbine/internal/model"
	"github.com/hitoshi/woodbine/internal/repository"
)

// ProfileStore はプロフィールの各フィールドを個別キーとして永続化する。
type ProfileStore struct {
	kv repository.KeyValueStore
}

// NewProfileStore はProfileStoreを生成する。
func NewProfileStore(kv repository.KeyValueStore) *ProfileStore {
	return &ProfileStore{kv: kv}
}

// LoadProfile はname、email、avatarを読み込む。存在しないキーは空文字列になる。
func (s *ProfileStore) LoadProfile(ctx context.Context) (model.Profile, error) {
	var p model.Profile
	fields := []struct {
		key string
		dst *string
	}{
		{repository.KeyName, &p.Name},
		{repository.KeyEmail, &p.Email},
		{repository.KeyAvatar, &p.Avatar},
	}

	for _, f := range fields {
		v, found, err := s.kv.Get(ctx, f.key)
		if err != nil {
			return model.Profile{}, fmt.Errorf("プロフィールの読み込みに失敗しました(%s): %w", f.key, err)
		}
		if found {
			*f.dst = string(v)
		}
	}
	return p, nil
}

// SaveProfile はname、email、avatarの順に書き込む。
// フィールド間の書き込みはアトミックではなく、途中で失敗した場合は先行フィールドのみ更新される。
func (s *ProfileStore) SaveProfile(ctx context.Context, p model.Profile) error {
	writes := []struct {
		key   string
		value string
	}{
		{repository.KeyName, p.Name},
		{repository.KeyEmail, p.Email},
		{repository.KeyAvatar, p.Avatar},
	}

	for _, w := range writes {
		if err := s.kv.Set(ctx, w.key, []byte(w.value)); err != nil {
			return fmt.Errorf("プロフィールの保存に失敗しました(%s): %w", w.key, err)
		}
	}
	return nil
}

// SaveAvatar はavatarのみを書き込む。
func (s *ProfileStore) SaveAvatar(ctx context.Context, uri string) error {
	if err := s.kv.Set(ctx, repository.KeyAvatar, []byte(uri)); err != nil {
		return fmt.Errorf("アバターの保存に失敗しました: %w", err)
	}
	return nil
}

// ClearAll は名前空間内の全キーを削除する。events、albumsも含まれる。
func (s *ProfileStore) ClearAll(ctx context.Context) error {
	if err := s.kv.Clear(ctx); err != nil {
		return fmt.Errorf("ストレージのクリアに失敗しました: %w", err)
	}
	return nil
}
