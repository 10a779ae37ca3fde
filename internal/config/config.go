// Package config はユーザーサービスの設定を環境変数から読み込む。
package config

import (
	"errors"
	"fmt"
	"io/fs"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config はユーザーサービスの実行時設定。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port int `env:"PORT" envDefault:"3000" validate:"min=1,max=65535"`
	// DatabaseURL はSQLiteデータベースの接続文字列。
	DatabaseURL string `env:"DATABASE_URL" envDefault:"file:user.db?_pragma=busy_timeout(5000)" validate:"required"`
	// LogLevel はログ出力レベル。
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	// GinMode はGinの動作モード。
	GinMode string `env:"GIN_MODE" envDefault:"release" validate:"oneof=debug release test"`
}

// Addr はHTTPサーバーのリッスンアドレスを返す。
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load は.envファイル（存在する場合）と環境変数から設定を読み込み、検証する。
// 環境変数が.envファイルの値より優先される。
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf(".envファイルの読み込みに失敗: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("環境変数の解析に失敗: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("設定値が不正です: %w", err)
	}
	return cfg, nil
}
