package repository

import (
	"context"
	"sync"
)

// MemoryKeyValueStore はプロセス内メモリに保持するキーバリューストア。
// 開発用とテスト用。プロセス終了で内容は失われる。
type MemoryKeyValueStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKeyValueStore は空のMemoryKeyValueStoreを生成する。
func NewMemoryKeyValueStore() *MemoryKeyValueStore {
	return &MemoryKeyValueStore{data: make(map[string][]byte)}
}

// Get は保持している値のコピーを返す。
func (s *MemoryKeyValueStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set は値のコピーを保持する。
func (s *MemoryKeyValueStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte{}, value...)
	return nil
}

// Clear は全キーを削除する。
func (s *MemoryKeyValueStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)
	return nil
}

// PingContext は常に成功する。
func (s *MemoryKeyValueStore) PingContext(_ context.Context) error {
	return nil
}
