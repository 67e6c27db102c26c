// Package seed は初回起動時に書き込む既定データを提供する。
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hitoshi/woodbine/internal/model"
)

// DefaultEvents はアプリ同梱の既定イベントを返す。呼び出しごとに新しいスライスを返す。
func DefaultEvents() []model.Event {
	return []model.Event{
		{ID: "1", Title: "Poker Night", Date: "March 10", Image: model.BundledAssetScheme + "poker.webp"},
		{ID: "2", Title: "Live Concert", Date: "March 15", Image: model.BundledAssetScheme + "live.webp"},
		{ID: "3", Title: "Exclusive Party", Date: "March 20", Image: model.BundledAssetScheme + "party.webp"},
	}
}

// DefaultAlbums は既定アルバムを返す。アルバムは初期データを持たない。
func DefaultAlbums() []model.Album {
	return []model.Album{}
}

// File はシードファイルのYAML構造。
type File struct {
	Events []EventEntry `yaml:"events"`
}

// EventEntry はシードファイル内のイベント定義。
type EventEntry struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
	Image string `yaml:"image"`
}

// LoadEventsFile はYAMLシードファイルから既定イベントを読み込む。
// pathが空の場合はDefaultEventsを返す。
// 各エントリはmodel.NewEventで検証され、ID重複もエラーとなる。
func LoadEventsFile(path string) ([]model.Event, error) {
	if path == "" {
		return DefaultEvents(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("シードファイルの読み込みに失敗しました: %w", err)
	}
	return ParseEvents(data)
}

// ParseEvents はYAMLバイト列から既定イベントを組み立てる。
func ParseEvents(data []byte) ([]model.Event, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("シードファイルの解析に失敗しました: %w", err)
	}

	events := make([]model.Event, 0, len(f.Events))
	seen := make(map[string]struct{}, len(f.Events))
	for i, e := range f.Events {
		ev, err := model.NewEvent(e.ID, e.Title, e.Date, e.Image)
		if err != nil {
			return nil, fmt.Errorf("シードイベント[%d]が不正です: %w", i, err)
		}
		if _, dup := seen[ev.ID]; dup {
			return nil, fmt.Errorf("シードイベントのIDが重複しています: %s", ev.ID)
		}
		seen[ev.ID] = struct{}{}
		events = append(events, ev)
	}
	return events, nil
}
