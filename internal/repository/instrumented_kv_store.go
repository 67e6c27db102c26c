package repository

import (
	"context"
	"time"
)

// StorageObserver はストレージ操作の結果を受け取るインターフェース。
// metrics.Collectorが実装する。
type StorageObserver interface {
	ObserveStorageOperation(operation string, duration time.Duration, err error)
}

// InstrumentedKeyValueStore は各操作の所要時間とエラーをStorageObserverに通知するラッパー。
type InstrumentedKeyValueStore struct {
	next     KeyValueStore
	observer StorageObserver
	now      func() time.Time
}

// NewInstrumentedKeyValueStore はInstrumentedKeyValueStoreを生成する。
func NewInstrumentedKeyValueStore(next KeyValueStore, observer StorageObserver) *InstrumentedKeyValueStore {
	return &InstrumentedKeyValueStore{next: next, observer: observer, now: time.Now}
}

// Get は下位ストアのGetを計測付きで呼び出す。
func (s *InstrumentedKeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := s.now()
	v, found, err := s.next.Get(ctx, key)
	s.observer.ObserveStorageOperation("get", s.now().Sub(start), err)
	return v, found, err
}

// Set は下位ストアのSetを計測付きで呼び出す。
func (s *InstrumentedKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	start := s.now()
	err := s.next.Set(ctx, key, value)
	s.observer.ObserveStorageOperation("set", s.now().Sub(start), err)
	return err
}

// Clear は下位ストアのClearを計測付きで呼び出す。
func (s *InstrumentedKeyValueStore) Clear(ctx context.Context) error {
	start := s.now()
	err := s.next.Clear(ctx)
	s.observer.ObserveStorageOperation("clear", s.now().Sub(start), err)
	return err
}

// PingContext は下位ストアがPingerを実装していれば委譲する。
func (s *InstrumentedKeyValueStore) PingContext(ctx context.Context) error {
	if p, ok := s.next.(Pinger); ok {
		return p.PingContext(ctx)
	}
	return nil
}
