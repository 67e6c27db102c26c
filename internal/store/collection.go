// Package store はキーバリューストア上のコレクションとプロフィールの永続化を提供する。
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/woodbine/internal/model"
	"github.com/hitoshi/woodbine/internal/repository"
)

// LoadCollection は指定キーのJSON配列を読み込む。
// キーが存在しない場合はseedを書き込んでからそのコピーを返す。
// JSONが壊れている場合はDECODE_FAILEDのAPIErrorを返す。
func LoadCollection[T any](ctx context.Context, kv repository.KeyValueStore, key string, seed []T) ([]T, error) {
	return loadCollection(ctx, kv, key, seed, slog.Default())
}

// SaveCollection はコレクションをJSONにエンコードして書き込む。
func SaveCollection[T any](ctx context.Context, kv repository.KeyValueStore, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("コレクションのエンコードに失敗しました(%s): %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("コレクションの保存に失敗しました(%s): %w", key, err)
	}
	return nil
}

func loadCollection[T any](ctx context.Context, kv repository.KeyValueStore, key string, seed []T, logger *slog.Logger) ([]T, error) {
	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("コレクションの読み込みに失敗しました(%s): %w", key, err)
	}
	if !found {
		return writeSeed(ctx, kv, key, seed, logger), nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, model.NewDecodeError(key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// writeSeed はseedを書き込み、書き込みの成否にかかわらずseedのコピーを返す。
func writeSeed[T any](ctx context.Context, kv repository.KeyValueStore, key string, seed []T, logger *slog.Logger) []T {
	items := append([]T{}, seed...)
	if err := SaveCollection(ctx, kv, key, items); err != nil {
		logger.Warn("初期データの書き込みに失敗しました",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	return items
}

// Collection はキーと初期データを束ねたコレクションストア。
type Collection[T any] struct {
	kv              repository.KeyValueStore
	key             string
	seed            []T
	reseedWhenEmpty bool
	logger          *slog.Logger
}

// NewCollection はCollectionを生成する。seedがnilの場合は空配列を初期データとする。
func NewCollection[T any](kv repository.KeyValueStore, key string, seed []T, logger *slog.Logger) *Collection[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[T]{
		kv:     kv,
		key:    key,
		seed:   append([]T{}, seed...),
		logger: logger,
	}
}

// WithReseedWhenEmpty は保存済みの空配列を未保存と同様に扱い、初期データを書き直す設定を有効にする。
func (c *Collection[T]) WithReseedWhenEmpty() *Collection[T] {
	clone := *c
	clone.reseedWhenEmpty = true
	return &clone
}

// Key は永続化キーを返す。
func (c *Collection[T]) Key() string {
	return c.key
}

// Load はコレクションを読み込む。エラーはそのまま返す。
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	items, err := loadCollection(ctx, c.kv, c.key, c.seed, c.logger)
	if err != nil {
		return nil, err
	}
	if c.reseedWhenEmpty && len(items) == 0 && len(c.seed) > 0 {
		c.logger.Info("空のコレクションに初期データを再投入します", slog.String("key", c.key))
		return writeSeed(ctx, c.kv, c.key, c.seed, c.logger), nil
	}
	return items, nil
}

// LoadOrEmpty はコレクションを読み込み、失敗した場合は空のコレクションを返す。
// 読み込みエラーとJSONの破損はログに記録するだけで呼び出し側には伝えない。
func (c *Collection[T]) LoadOrEmpty(ctx context.Context) []T {
	items, err := c.Load(ctx)
	if err == nil {
		return items
	}

	if model.HasCode(err, model.ErrCodeDecodeFailed) {
		c.logger.Error("保存済みコレクションが破損しています。空として扱います",
			slog.String("key", c.key),
			slog.String("error", err.Error()),
		)
	} else if !errors.Is(err, context.Canceled) {
		c.logger.Error("コレクションの読み込みに失敗しました。空として扱います",
			slog.String("key", c.key),
			slog.String("error", err.Error()),
		)
	}
	return []T{}
}

// Save はコレクションを書き込む。
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	return SaveCollection(ctx, c.kv, c.key, items)
}
