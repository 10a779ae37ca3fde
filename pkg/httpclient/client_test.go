package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// testRequest はテストサーバーが受け取ったリクエスト情報を保持する構造体。
type testRequest struct {
	// Method はHTTPメソッド。
	Method string
	// Path はリクエストパス。
	Path string
	// Body はリクエストボディ。
	Body []byte
	// Headers はリクエストヘッダー。
	Headers http.Header
}

// testUser はテスト用のレスポンスペイロード。
type testUser struct {
	// ID はユーザーID。
	ID int64 `json:"id"`
	// Name はユーザー名。
	Name string `json:"name"`
}

// newRecordingServer は受け取ったリクエストを記録し、固定のレスポンスを返すテストサーバーを生成する。
func newRecordingServer(t *testing.T, received *testRequest, status int, body string) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Method = r.Method
		received.Path = r.URL.Path
		received.Body, _ = io.ReadAll(r.Body)
		received.Headers = r.Header

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

// TestNew はNew関数でクライアントが正しく生成されることを検証する。
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("クライアントが正常に生成されること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:3000")
		if client == nil {
			t.Fatal("New()がnilを返した")
		}
		if client.baseURL != "http://localhost:3000" {
			t.Errorf("baseURL = %q, want %q", client.baseURL, "http://localhost:3000")
		}
		if client.httpClient.Timeout.Seconds() != 30 {
			t.Errorf("Timeout = %v, want 30s", client.httpClient.Timeout)
		}
	})

	t.Run("ベースURL末尾のスラッシュが取り除かれること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:3000/")
		if client.baseURL != "http://localhost:3000" {
			t.Errorf("baseURL = %q, want %q", client.baseURL, "http://localhost:3000")
		}
	})
}

// TestGetJSON はGetJSON関数を検証する。
func TestGetJSON(t *testing.T) {
	t.Parallel()

	t.Run("正常にGETリクエストを送信してレスポンスを取得できること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, &received, http.StatusOK, `{"id":1,"name":"Ada"}`)

		var result testUser
		if err := New(ts.URL).GetJSON(context.Background(), "/users/1", &result); err != nil {
			t.Fatalf("GetJSON()でエラーが発生: %v", err)
		}

		if received.Method != http.MethodGet {
			t.Errorf("Method = %q, want %q", received.Method, http.MethodGet)
		}
		if received.Path != "/users/1" {
			t.Errorf("Path = %q, want %q", received.Path, "/users/1")
		}
		if len(received.Body) != 0 {
			t.Errorf("GETリクエストにボディが含まれている: %q", received.Body)
		}
		if result != (testUser{ID: 1, Name: "Ada"}) {
			t.Errorf("result = %+v, want {ID:1 Name:Ada}", result)
		}
	})

	t.Run("サーバーが404を返した場合にStatusErrorが返ること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, &received, http.StatusNotFound, `{"error":"not found"}`)

		var result testUser
		err := New(ts.URL).GetJSON(context.Background(), "/users/99", &result)
		if !IsStatus(err, http.StatusNotFound) {
			t.Fatalf("GetJSON() error = %v, want 404 StatusError", err)
		}

		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatal("StatusErrorではない")
		}
		if se.Body != `{"error":"not found"}` {
			t.Errorf("Body = %q, want %q", se.Body, `{"error":"not found"}`)
		}
	})

	t.Run("不正なJSONレスポンスでエラーが返ること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, &received, http.StatusOK, `not json`)

		var result testUser
		err := New(ts.URL).GetJSON(context.Background(), "/users/1", &result)
		if err == nil {
			t.Fatal("GetJSON()がエラーを返すべきだが、nilが返った")
		}
		if IsStatus(err, http.StatusOK) {
			t.Error("デコードエラーがStatusErrorとして扱われている")
		}
	})

	t.Run("接続できないサーバーに対してエラーが返ること", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		var result testUser
		if err := New(url).GetJSON(context.Background(), "/users", &result); err == nil {
			t.Fatal("GetJSON()がエラーを返すべきだが、nilが返った")
		}
	})

	t.Run("キャンセルされたコンテキストでエラーが返ること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, &received, http.StatusOK, `{}`)
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // 即座にキャンセル

		if err := New(ts.URL).GetJSON(ctx, "/users", nil); err == nil {
			t.Fatal("GetJSON()がエラーを返すべきだが、nilが返った")
		}
	})
}

// TestPostJSON はPostJSON関数を検証する。
func TestPostJSON(t *testing.T) {
	t.Parallel()

	t.Run("JSONボディでPOSTリクエストを送信できること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, &received, http.StatusOK, `{"data":{"users":[]}}`)

		body := map[string]any{"query": "{ users { id } }"}
		var result map[string]any
		if err := New(ts.URL).PostJSON(context.Background(), "/graphql", body, &result); err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}

		if received.Method != http.MethodPost {
			t.Errorf("Method = %q, want %q", received.Method, http.MethodPost)
		}
		if got := received.Headers.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want %q", got, "application/json")
		}

		var sent map[string]any
		if err := json.Unmarshal(received.Body, &sent); err != nil {
			t.Fatalf("リクエストボディのパースに失敗: %v", err)
		}
		if sent["query"] != "{ users { id } }" {
			t.Errorf("query = %v, want %q", sent["query"], "{ users { id } }")
		}
		if _, ok := result["data"]; !ok {
			t.Errorf("result = %v, dataがありません", result)
		}
	})

	t.Run("サーバーが500エラーを返した場合にStatusErrorが返ること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, &received, http.StatusInternalServerError, `{"error":"internal server error"}`)

		err := New(ts.URL).PostJSON(context.Background(), "/graphql", map[string]any{}, nil)
		if !IsStatus(err, http.StatusInternalServerError) {
			t.Fatalf("PostJSON() error = %v, want 500 StatusError", err)
		}
	})

	t.Run("シリアライズできないボディでエラーが返ること", func(t *testing.T) {
		t.Parallel()

		err := New("http://localhost:0").PostJSON(context.Background(), "/graphql", make(chan int), nil)
		if err == nil {
			t.Fatal("PostJSON()がエラーを返すべきだが、nilが返った")
		}
	})
}

// TestWithRequestID はリクエストIDの伝播を検証する。
func TestWithRequestID(t *testing.T) {
	t.Parallel()

	t.Run("コンテキストのリクエストIDがヘッダーとして送信されること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, &received, http.StatusOK, `[]`)

		ctx := WithRequestID(context.Background(), "req-42")
		if err := New(ts.URL).GetJSON(ctx, "/users", nil); err != nil {
			t.Fatalf("GetJSON()でエラーが発生: %v", err)
		}
		if got := received.Headers.Get("X-Request-ID"); got != "req-42" {
			t.Errorf("X-Request-ID = %q, want %q", got, "req-42")
		}
	})

	t.Run("WithRequestIDが設定されていない場合X-Request-IDヘッダーが空であること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, &received, http.StatusOK, `[]`)

		if err := New(ts.URL).GetJSON(context.Background(), "/users", nil); err != nil {
			t.Fatalf("GetJSON()でエラーが発生: %v", err)
		}
		if got := received.Headers.Get("X-Request-ID"); got != "" {
			t.Errorf("X-Request-ID = %q, want empty string", got)
		}
	})
}
