package user

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"go.uber.org/zap"
)

// graphQLSchema はGraphQL APIのスキーマ定義。
const graphQLSchema = `
schema {
	query: Query
}

type User {
	id: Int!
	name: String!
}

type Query {
	user(id: Int!): User
	users: [User!]
}
`

// errGraphQLInternal はストレージ障害時にGraphQLのerrorsへ載せるエラー。
var errGraphQLInternal = errors.New(errMsgInternalServer)

// queryResolver はQuery型のリゾルバー。
type queryResolver struct {
	repo   Repository
	logger *zap.Logger
}

// userResolver はUser型のリゾルバー。
type userResolver struct {
	u User
}

// ID はユーザーIDを返す。
// GraphQLのIntは32bitのため、範囲外のIDは別の値に丸めずフィールドエラーにする。
func (r *userResolver) ID() (int32, error) {
	if r.u.ID < math.MinInt32 || r.u.ID > math.MaxInt32 {
		return 0, fmt.Errorf("ユーザーIDがGraphQLのIntの範囲外: id=%d", r.u.ID)
	}
	return int32(r.u.ID), nil
}

// Name はユーザー名を返す。
func (r *userResolver) Name() string {
	return r.u.Name
}

// User は指定されたIDのユーザーを返す。存在しない場合はnullを返す。
func (r *queryResolver) User(ctx context.Context, args struct{ ID int32 }) (*userResolver, error) {
	u, err := r.repo.GetByID(ctx, int64(args.ID))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("GraphQLユーザー取得エラー", zap.Error(err), zap.Int32("id", args.ID))
		return nil, errGraphQLInternal
	}
	return &userResolver{u: u}, nil
}

// Users は全てのユーザーを返す。
func (r *queryResolver) Users(ctx context.Context) (*[]*userResolver, error) {
	users, err := r.repo.GetAll(ctx)
	if err != nil {
		r.logger.Error("GraphQLユーザー一覧取得エラー", zap.Error(err))
		return nil, errGraphQLInternal
	}

	resolvers := make([]*userResolver, 0, len(users))
	for _, u := range users {
		resolvers = append(resolvers, &userResolver{u: u})
	}
	return &resolvers, nil
}

// newGraphQLSchema はリゾルバーを結び付けたGraphQLスキーマを生成する。
func newGraphQLSchema(repo Repository, logger *zap.Logger) (*graphql.Schema, error) {
	schema, err := graphql.ParseSchema(graphQLSchema, &queryResolver{repo: repo, logger: logger})
	if err != nil {
		return nil, fmt.Errorf("GraphQLスキーマの解析に失敗: %w", err)
	}
	return schema, nil
}

// handleGraphQL はGraphQLクエリを実行するハンドラを返す。
func (s *Server) handleGraphQL() gin.HandlerFunc {
	return gin.WrapH(&relay.Handler{Schema: s.schema})
}

// handleGraphiQL は対話的にクエリを試せるGraphiQLのページを返すハンドラを返す。
func (s *Server) handleGraphiQL() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(graphiQLPage))
	}
}

const graphiQLPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>GraphiQL</title>
  <style>body { margin: 0; height: 100vh; } #graphiql { height: 100vh; }</style>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css">
</head>
<body>
  <div id="graphiql">Loading...</div>
  <script src="https://unpkg.com/react@18/umd/react.production.min.js" crossorigin></script>
  <script src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js" crossorigin></script>
  <script src="https://unpkg.com/graphiql@3/graphiql.min.js" crossorigin></script>
  <script>
    const fetcher = GraphiQL.createFetcher({ url: "/graphql" });
    ReactDOM.createRoot(document.getElementById("graphiql")).render(
      React.createElement(GraphiQL, { fetcher: fetcher, defaultQuery: "{ users { id name } }" })
    );
  </script>
</body>
</html>
`
