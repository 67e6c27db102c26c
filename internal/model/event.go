// Package model はドメインモデルを定義する。
package model

import "strings"

// BundledAssetScheme はアプリ同梱画像を指す画像参照のスキーム。
const BundledAssetScheme = "asset://"

// Event はクラブのイベントを表す。
// 作成後は不変で、アプリ内から削除されることはない。
type Event struct {
	ID    string `json:"id" validate:"required"`
	Title string `json:"title" validate:"required"`
	Date  string `json:"date" validate:"required"`  // 表示用の自由形式テキスト（例: "March 10"）
	Image string `json:"image" validate:"required"` // 画像URIまたは同梱アセット参照
}

// NewEvent は必須フィールドを検証してEventを生成する。
// いずれかのフィールドが空の場合はVALIDATION_FAILEDのAPIErrorを返す。
func NewEvent(id, title, date, image string) (Event, error) {
	ev := Event{
		ID:    id,
		Title: title,
		Date:  date,
		Image: image,
	}
	if err := validateRecord(ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// HasBundledImage は画像参照が同梱アセットを指す場合にtrueを返す。
func (e Event) HasBundledImage() bool {
	return strings.HasPrefix(e.Image, BundledAssetScheme)
}
