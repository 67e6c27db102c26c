// Package event はイベントカタログのドメインロジックを提供する。
package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hitoshi/woodbine/internal/model"
	"github.com/hitoshi/woodbine/internal/security"
)

// CollectionStore はイベントコレクションの永続化インターフェース。
// store.Collection[model.Event]が実装する。
type CollectionStore interface {
	LoadOrEmpty(ctx context.Context) []model.Event
	Save(ctx context.Context, items []model.Event) error
}

// MetricsRecorder はイベントカタログが記録するメトリクスのインターフェース。
type MetricsRecorder interface {
	RecordEventCreated()
	RecordBooking()
}

// Booking はイベント予約の結果を表す。
type Booking struct {
	EventID string `json:"event_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Catalog はイベント一覧をメモリ上に保持し、追加と検索を提供する。
// 初回アクセス時にストアから読み込み、変更は保存成功後にのみメモリへ反映する。
type Catalog struct {
	mu        sync.Mutex
	store     CollectionStore
	sanitizer security.TextSanitizerService
	metrics   MetricsRecorder
	logger    *slog.Logger
	now       func() time.Time

	events []model.Event
	loaded bool
	booked map[string]struct{}
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
		booked:    make(map[string]struct{}),
	}
}

// ensureLoaded は未読み込みの場合にストアから読み込む。呼び出し側がmuを保持すること。
func (c *Catalog) ensureLoaded(ctx context.Context) {
	if c.loaded {
		return
	}
	c.events = c.store.LoadOrEmpty(ctx)
	c.loaded = true
	c.logger.Debug("イベント一覧を読み込みました", slog.Int("count", len(c.events)))
}

// List は全イベントを保存順で返す。
func (c *Catalog) List(ctx context.Context) []model.Event {
	return c.FilterByTitle(ctx, "")
}

// FilterByTitle はタイトルにqueryを含むイベントを大文字小文字を区別せずに返す。
// queryが空の場合は全件を返す。戻り値は常に新しいスライス。
func (c *Catalog) FilterByTitle(ctx context.Context, query string) []model.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	needle := strings.ToLower(query)
	result := make([]model.Event, 0, len(c.events))
	for _, ev := range c.events {
		if needle == "" || strings.Contains(strings.ToLower(ev.Title), needle) {
			result = append(result, ev)
		}
	}
	return result
}

// Get は指定IDのイベントを返す。見つからない場合はEVENT_NOT_FOUNDを返す。
func (c *Catalog) Get(ctx context.Context, id string) (model.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	if i := c.indexOf(id); i >= 0 {
		return c.events[i], nil
	}
	return model.Event{}, model.NewEventNotFoundError(id)
}

// AddEvent は入力をサニタイズして新しいイベントを末尾に追加し、永続化する。
// いずれかの項目が空の場合はVALIDATION_FAILEDを返し、何も変更しない。
// 保存に失敗した場合はメモリ上の一覧も変更しない。
func (c *Catalog) AddEvent(ctx context.Context, title, date, imageRef string) (model.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	id := strconv.FormatInt(c.now().UnixMilli(), 10)
	ev, err := model.NewEvent(
		id,
		c.sanitizer.Sanitize(title),
		c.sanitizer.Sanitize(date),
		strings.TrimSpace(imageRef),
	)
	if err != nil {
		return model.Event{}, err
	}

	next := make([]model.Event, len(c.events), len(c.events)+1)
	copy(next, c.events)
	next = append(next, ev)

	if err := c.store.Save(ctx, next); err != nil {
		return model.Event{}, fmt.Errorf("イベントの保存に失敗しました: %w", err)
	}
	c.events = next

	if c.metrics != nil {
		c.metrics.RecordEventCreated()
	}
	c.logger.Info("イベントを追加しました",
		slog.String("event_id", ev.ID),
		slog.Int("count", len(c.events)),
	)
	return ev, nil
}

// Book はイベントを予約する。予約はカタログのセッション中のみ保持され、永続化されない。
// 同じイベントを再度予約した場合はALREADY_BOOKEDを返す。
func (c *Catalog) Book(ctx context.Context, id string) (Booking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	i := c.indexOf(id)
	if i < 0 {
		return Booking{}, model.NewEventNotFoundError(id)
	}
	if _, ok := c.booked[id]; ok {
		return Booking{}, model.NewAlreadyBookedError(id)
	}
	c.booked[id] = struct{}{}

	if c.metrics != nil {
		c.metrics.RecordBooking()
	}
	ev := c.events[i]
	return Booking{
		EventID: ev.ID,
		Title:   ev.Title,
		Message: fmt.Sprintf("You have successfully booked a spot for %s! 🎉", ev.Title),
	}, nil
}

// Invalidate はメモリ上の一覧と予約状態を破棄し、次回アクセス時にストアから再読み込みさせる。
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = nil
	c.loaded = false
	c.booked = make(map[string]struct{})
}

func (c *Catalog) indexOf(id string) int {
	for i, ev := range c.events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}
