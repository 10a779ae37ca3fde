package user

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/nao1215/userapi/pkg/migration"
)

// migrations は "User" テーブルのスキーマ定義。
//
//go:embed migrations/*.sql
var migrations embed.FS

const (
	queryGetUserByID = `SELECT id, name FROM "User" WHERE id = ?`
	queryListUsers   = `SELECT id, name FROM "User" ORDER BY id`
)

// Store はSQLiteに保存されたユーザーを参照するRepositoryの実装。
// 読み取り専用で、全てのリクエストから共有される。
type Store struct {
	// db はsqlxでラップしたデータベース接続。
	db *sqlx.DB
}

var _ Repository = (*Store)(nil)

// OpenStore はdsnで指定されたSQLiteデータベースに接続し、マイグレーションを適用する。
// 接続を確認できない場合はエラーを返す。
func OpenStore(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("データベースへの疎通確認に失敗: %w", err)
	}

	if err := migration.Run(ctx, db.DB, migrations, "migrations", logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	return NewStore(db), nil
}

// NewStore は既存のデータベース接続からStoreを生成する。
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// GetByID は指定されたIDのユーザーを返す。
func (s *Store) GetByID(ctx context.Context, id int64) (User, error) {
	var u User
	if err := s.db.GetContext(ctx, &u, queryGetUserByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("ユーザーの取得に失敗 (id=%d): %w", id, err)
	}
	return u, nil
}

// GetAll は全てのユーザーをID順で返す。ユーザーが存在しない場合は空のスライスを返す。
func (s *Store) GetAll(ctx context.Context) ([]User, error) {
	users := []User{}
	if err := s.db.SelectContext(ctx, &users, queryListUsers); err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗: %w", err)
	}
	return users, nil
}

// Close はデータベース接続を閉じる。
func (s *Store) Close() error {
	return s.db.Close()
}
