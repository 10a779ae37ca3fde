// Package user はユーザー参照サービスの内部実装を提供する。
//
// 永続化されたユーザーを1件取得・全件取得する読み取り専用の操作を、
// REST API、GraphQL API、OpenAPIドキュメントの3つの経路で公開する。
// 3つの経路はいずれも同じRepositoryを参照するため、同じデータを返す。
// 書き込み系の操作は提供しない。
package user
