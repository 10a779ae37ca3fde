package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// エラーレスポンスのメッセージ。クライアントとの契約なので変更しないこと。
const (
	errMsgInvalidID      = "invalid id"
	errMsgNotFound       = "not found"
	errMsgInternalServer = "internal server error"
)

// route はREST APIのルート定義。
// ハンドラーの登録とOpenAPIドキュメントの生成の両方に使用する。
type route struct {
	// method はHTTPメソッド。
	method string
	// path はGin形式のパス（例: /users/:id）。
	path string
	// handler はハンドラーを生成する関数。
	handler func(*Server) gin.HandlerFunc
	// operation はOpenAPIドキュメントに記載する操作の説明。
	operation Operation
}

// restRoutes はREST APIの全ルート。
var restRoutes = []route{
	{
		method:  http.MethodGet,
		path:    "/users",
		handler: (*Server).handleList,
		operation: Operation{
			Summary:     "ユーザー一覧を取得する",
			OperationID: "listUsers",
			Responses: map[string]*Response{
				"200": {Description: "ユーザーの一覧", Content: jsonContent(&Schema{Type: "array", Items: schemaRef("User")})},
				"500": errorResponse("ストレージエラー"),
			},
		},
	},
	{
		method:  http.MethodGet,
		path:    "/users/:id",
		handler: (*Server).handleGetByID,
		operation: Operation{
			Summary:     "IDを指定してユーザーを取得する",
			OperationID: "getUser",
			Parameters: []*Parameter{
				{Name: "id", In: "path", Required: true, Description: "ユーザーID", Schema: &Schema{Type: "integer", Format: "int64"}},
			},
			Responses: map[string]*Response{
				"200": {Description: "ユーザー", Content: jsonContent(schemaRef("User"))},
				"400": errorResponse("IDが整数ではない (invalid id)"),
				"404": errorResponse("ユーザーが存在しない (not found)"),
				"500": errorResponse("ストレージエラー"),
			},
		},
	},
}

// userResponse はユーザーのJSONレスポンス構造。
type userResponse struct {
	// ID はユーザーの一意識別子。
	ID int64 `json:"id"`
	// Name はユーザー名。
	Name string `json:"name"`
}

// toUserResponse はレコードをJSONレスポンスに変換する。
func toUserResponse(u User) userResponse {
	return userResponse{
		ID:   u.ID,
		Name: u.Name,
	}
}

// handleGetByID はユーザー1件の取得を処理するハンドラを返す。
// IDが整数として解釈できない場合はストレージを参照せずに400を返す。
func (s *Server) handleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errMsgInvalidID})
			return
		}

		u, err := s.repo.GetByID(c.Request.Context(), id)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errMsgNotFound})
			return
		}
		if err != nil {
			s.abortInternal(c, "ユーザー取得エラー", err)
			return
		}

		c.JSON(http.StatusOK, toUserResponse(u))
	}
}

// handleList はユーザー一覧の取得を処理するハンドラを返す。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.repo.GetAll(c.Request.Context())
		if err != nil {
			s.abortInternal(c, "ユーザー一覧取得エラー", err)
			return
		}

		responses := make([]userResponse, 0, len(users))
		for _, u := range users {
			responses = append(responses, toUserResponse(u))
		}

		c.JSON(http.StatusOK, responses)
	}
}

// abortInternal はストレージ障害などの内部エラーをログに記録し、500を返す。
// エラーの詳細はクライアントに返さない。
func (s *Server) abortInternal(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	s.logger.Error(msg, zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, gin.H{"error": errMsgInternalServer})
}
