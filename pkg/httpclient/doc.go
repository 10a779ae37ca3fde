// Package httpclient はユーザーサービスのHTTP APIを呼び出すクライアントを提供する。
//
// REST APIへのGETとGraphQL APIへのPOSTをJSONで行い、
// 2xx以外のレスポンスはステータスコードを保持した StatusError として返す。
package httpclient
