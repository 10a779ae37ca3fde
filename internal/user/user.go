package user

import (
	"context"
	"errors"
)

// ErrNotFound は指定されたユーザーが存在しないことを表す。
var ErrNotFound = errors.New("user not found")

// User は永続化されたユーザーのレコード。
type User struct {
	// ID はストレージが採番するユーザーの一意識別子。
	ID int64 `db:"id"`
	// Name はユーザー名。
	Name string `db:"name"`
}

// Repository はユーザーの読み取り操作を提供する。
// HTTPハンドラーとGraphQLリゾルバーはこのインターフェースを介してのみストレージにアクセスする。
type Repository interface {
	// GetByID は指定されたIDのユーザーを返す。存在しない場合は ErrNotFound を返す。
	GetByID(ctx context.Context, id int64) (User, error)
	// GetAll は全てのユーザーをID順で返す。
	GetAll(ctx context.Context) ([]User, error)
}
