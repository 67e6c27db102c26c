// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
)

// 永続化キー。アプリの名前空間内で固定の意味を持つ。
const (
	KeyEvents = "events"
	KeyAlbums = "albums"
	KeyName   = "name"
	KeyEmail  = "email"
	KeyAvatar = "avatar"
)

// KeyValueStore は端末ローカルのキーバリューストレージのインターフェース。
// 単一キーの書き込みはアトミックであること。
type KeyValueStore interface {
	// Get は指定キーの値を取得する。キーが存在しない場合はfoundがfalseになる。
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set は指定キーに値を書き込む。既存の値は上書きされる。
	Set(ctx context.Context, key string, value []byte) error

	// Clear は名前空間内の全キーを削除する。
	Clear(ctx context.Context) error
}

// Pinger は疎通確認をサポートするストレージのインターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}
