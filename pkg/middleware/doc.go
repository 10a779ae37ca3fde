// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// クロスオリジンリクエストの許可判定、パニックリカバリ、リクエストIDの付与、
// zapによるアクセスログなど、HTTPサーバーが共通して使用するミドルウェアを含む。
package middleware
