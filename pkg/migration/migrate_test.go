package migration

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	_ "modernc.org/sqlite"
)

// openTestDB はテスト用の一時ファイルSQLiteデータベースを開く。
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migration.db"))
	if err != nil {
		t.Fatalf("テスト用DBの作成に失敗: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// testMigrations はテスト用のマイグレーションファイル群。
var testMigrations = fstest.MapFS{
	"migrations/00001_create_items.sql": &fstest.MapFile{Data: []byte(`-- +goose Up
CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL);

-- +goose Down
DROP TABLE items;
`)},
	"migrations/00002_add_note.sql": &fstest.MapFile{Data: []byte(`-- +goose Up
ALTER TABLE items ADD COLUMN note TEXT NOT NULL DEFAULT '';

-- +goose Down
ALTER TABLE items DROP COLUMN note;
`)},
}

// TestRun はマイグレーションの適用を検証する。
func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("全てのマイグレーションが順序通りに適用されること", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		core, logs := observer.New(zap.InfoLevel)

		if err := Run(t.Context(), db, testMigrations, "migrations", zap.New(core)); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if _, err := db.Exec("INSERT INTO items (id, name, note) VALUES (1, 'a', 'b')"); err != nil {
			t.Fatalf("マイグレーション後のINSERTに失敗: %v", err)
		}
		if got := logs.Len(); got != 2 {
			t.Errorf("適用ログ件数 = %d, want 2", got)
		}
	})

	t.Run("2回目の実行では何も適用されないこと", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		if err := Run(t.Context(), db, testMigrations, "migrations", zap.NewNop()); err != nil {
			t.Fatalf("1回目のRun() error = %v", err)
		}

		core, logs := observer.New(zap.InfoLevel)
		if err := Run(t.Context(), db, testMigrations, "migrations", zap.New(core)); err != nil {
			t.Fatalf("2回目のRun() error = %v", err)
		}
		if got := logs.Len(); got != 0 {
			t.Errorf("適用ログ件数 = %d, want 0", got)
		}
	})

	t.Run("不正なSQLの場合はエラーが返ること", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		broken := fstest.MapFS{
			"migrations/00001_broken.sql": &fstest.MapFile{Data: []byte("-- +goose Up\nCREATE TABLEX broken;\n")},
		}
		if err := Run(t.Context(), db, broken, "migrations", zap.NewNop()); err == nil {
			t.Error("エラーが返されませんでした")
		}
	})
}
