package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// sqlDialect はドライバごとのSQL文を保持する。
type sqlDialect struct {
	name   string
	get    string
	upsert string
	clear  string
}

var postgresDialect = sqlDialect{
	name: "postgres",
	get:  `SELECT value FROM kv_store WHERE key = $1`,
	upsert: `INSERT INTO kv_store (key, value, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	clear: `DELETE FROM kv_store`,
}

var sqliteDialect = sqlDialect{
	name: "sqlite",
	get:  `SELECT value FROM kv_store WHERE key = ?`,
	upsert: `INSERT INTO kv_store (key, value, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	clear: `DELETE FROM kv_store`,
}

// SQLKeyValueStore はkv_storeテーブルを使用したキーバリューストア。
type SQLKeyValueStore struct {
	db      *sql.DB
	dialect sqlDialect
	now     func() time.Time
}

// NewPostgresKeyValueStore はPostgreSQLを使用したキーバリューストアを生成する。
func NewPostgresKeyValueStore(db *sql.DB) *SQLKeyValueStore {
	return &SQLKeyValueStore{db: db, dialect: postgresDialect, now: time.Now}
}

// NewSQLiteKeyValueStore はSQLiteを使用したキーバリューストアを生成する。
func NewSQLiteKeyValueStore(db *sql.DB) *SQLKeyValueStore {
	return &SQLKeyValueStore{db: db, dialect: sqliteDialect, now: time.Now}
}

// Get は指定キーの値を取得する。見つからない場合はfoundがfalseになる。
func (s *SQLKeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s value for key %q: %w", s.dialect.name, key, err)
	}
	return value, true, nil
}

// Set は指定キーに値をUPSERTする。
func (s *SQLKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set %s value for key %q: %w", s.dialect.name, key, err)
	}
	return nil
}

// Clear はkv_storeの全行を削除する。
func (s *SQLKeyValueStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.clear); err != nil {
		return fmt.Errorf("failed to clear %s kv_store: %w", s.dialect.name, err)
	}
	return nil
}

// PingContext はデータベースへの疎通を確認する。
func (s *SQLKeyValueStore) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
