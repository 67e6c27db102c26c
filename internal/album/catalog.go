// Package album はアルバムカタログのドメインロジックを提供する。
package album

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hitoshi/woodbine/internal/model"
	"github.com/hitoshi/woodbine/internal/security"
)

// CollectionStore はアルバムコレクションの永続化インターフェース。
type CollectionStore interface {
	LoadOrEmpty(ctx context.Context) []model.Album
	Save(ctx context.Context, items []model.Album) error
}

// MetricsRecorder はアルバムカタログが記録するメトリクスのインターフェース。
type MetricsRecorder interface {
	RecordAlbumCreated()
	RecordPhotoAdded()
}

// Catalog はアルバム一覧をメモリ上に保持し、アルバムと写真の追加を提供する。
type Catalog struct {
	mu        sync.Mutex
	store     CollectionStore
	sanitizer security.TextSanitizerService
	metrics   MetricsRecorder
	logger    *slog.Logger
	now       func() time.Time

	albums []model.Album
	loaded bool
}

// NewCatalog はCatalogの新しいインスタンスを生成する。metricsはnilでもよい。
func NewCatalog(
	store CollectionStore,
	sanitizer security.TextSanitizerService,
	metrics MetricsRecorder,
	logger *slog.Logger,
) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		store:     store,
		sanitizer: sanitizer,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

func (c *Catalog) ensureLoaded(ctx context.Context) {
	if c.loaded {
		return
	}
	c.albums = c.store.LoadOrEmpty(ctx)
	c.loaded = true
}

// List は全アルバムを保存順で返す。各アルバムの写真スライスもコピーされる。
func (c *Catalog) List(ctx context.Context) []model.Album {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	result := make([]model.Album, len(c.albums))
	for i, a := range c.albums {
		result[i] = cloneAlbum(a)
	}
	return result
}

// Get は指定IDのアルバムを返す。見つからない場合はALBUM_NOT_FOUNDを返す。
func (c *Catalog) Get(ctx context.Context, id string) (model.Album, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	if i := c.indexOf(id); i >= 0 {
		return cloneAlbum(c.albums[i]), nil
	}
	return model.Album{}, model.NewAlbumNotFoundError(id)
}

// AddAlbum は空の写真リストを持つアルバムを末尾に追加し、永続化する。
// タイトルが空の場合はVALIDATION_FAILEDを返す。
func (c *Catalog) AddAlbum(ctx context.Context, title string) (model.Album, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	a, err := model.NewAlbum(strconv.FormatInt(c.now().UnixMilli(), 10), c.sanitizer.Sanitize(title))
	if err != nil {
		return model.Album{}, err
	}

	next := make([]model.Album, len(c.albums), len(c.albums)+1)
	copy(next, c.albums)
	next = append(next, a)

	if err := c.store.Save(ctx, next); err != nil {
		return model.Album{}, fmt.Errorf("アルバムの保存に失敗しました: %w", err)
	}
	c.albums = next

	if c.metrics != nil {
		c.metrics.RecordAlbumCreated()
	}
	c.logger.Info("アルバムを追加しました", slog.String("album_id", a.ID))
	return cloneAlbum(a), nil
}

// AddPhoto は指定アルバムの写真リスト末尾にphotoRefを追加し、コレクション全体を永続化する。
// アルバムが存在しない場合はALBUM_NOT_FOUNDを返し、どのアルバムも変更しない。
func (c *Catalog) AddPhoto(ctx context.Context, albumID, photoRef string) (model.Album, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	i := c.indexOf(albumID)
	if i < 0 {
		return model.Album{}, model.NewAlbumNotFoundError(albumID)
	}
	photoRef = strings.TrimSpace(photoRef)
	if photoRef == "" {
		return model.Album{}, model.NewValidationError("photo")
	}

	next := make([]model.Album, len(c.albums))
	copy(next, c.albums)
	next[i] = c.albums[i].WithPhoto(photoRef)

	if err := c.store.Save(ctx, next); err != nil {
		return model.Album{}, fmt.Errorf("写真の保存に失敗しました: %w", err)
	}
	c.albums = next

	if c.metrics != nil {
		c.metrics.RecordPhotoAdded()
	}
	c.logger.Info("写真を追加しました",
		slog.String("album_id", albumID),
		slog.Int("photo_count", len(next[i].Photos)),
	)
	return cloneAlbum(next[i]), nil
}

// AddPhotoFromSource は画像選択の結果を指定アルバムに追加する。
// ユーザーが選択をキャンセルした場合はアルバムを変更せず、added=falseで現在のアルバムを返す。
func (c *Catalog) AddPhotoFromSource(ctx context.Context, albumID string, source model.ImageSource) (a model.Album, added bool, err error) {
	current, err := c.Get(ctx, albumID)
	if err != nil {
		return model.Album{}, false, err
	}

	uri, err := source.PickImage(ctx)
	if errors.Is(err, model.ErrImagePickCancelled) {
		return current, false, nil
	}
	if err != nil {
		return model.Album{}, false, fmt.Errorf("画像の選択に失敗しました: %w", err)
	}

	updated, err := c.AddPhoto(ctx, albumID, uri)
	if err != nil {
		return model.Album{}, false, err
	}
	return updated, true, nil
}

// Invalidate はメモリ上の一覧を破棄し、次回アクセス時にストアから再読み込みさせる。
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.albums = nil
	c.loaded = false
}

func (c *Catalog) indexOf(id string) int {
	for i, a := range c.albums {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func cloneAlbum(a model.Album) model.Album {
	a.Photos = append([]string{}, a.Photos...)
	return a
}
