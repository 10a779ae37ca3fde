package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/nao1215/userapi/pkg/middleware"
)

// Server はユーザーサービスのHTTPサーバー。
// REST、GraphQL、APIドキュメントの3つの経路を1つのルーターで公開する。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// repo はユーザーの読み取り元。
	repo Repository
	// logger は構造化ログの出力先。
	logger *zap.Logger
	// schema はリゾルバーを結び付けたGraphQLスキーマ。
	schema *graphql.Schema
	// docs はシリアライズ済みのOpenAPIドキュメント。
	docs apiDocs
}

// Option はServerの生成オプション。
type Option func(*Server)

// WithLogger はServerが使用するロガーを設定する。
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer は新しいユーザーサーバーを生成する。
// ストレージへの接続は呼び出し側で確立し、repoとして渡す。
func NewServer(repo Repository, opts ...Option) (*Server, error) {
	s := &Server{
		repo:   repo,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	schema, err := newGraphQLSchema(repo, s.logger)
	if err != nil {
		return nil, err
	}
	s.schema = schema

	docs, err := renderAPIDocs(newAPIDocument(restRoutes))
	if err != nil {
		return nil, err
	}
	s.docs = docs

	router := gin.New()
	// オリジン判定はハンドラーを含む全ての処理より先に行う
	router.Use(middleware.CORS(middleware.NewOriginPolicy(middleware.DefaultAllowedOrigins...)))
	router.Use(middleware.Recovery(s.logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(s.logger))
	s.router = router
	s.setupRoutes()

	return s, nil
}

// Handler はサーバーのHTTPハンドラーを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はaddrでHTTPサーバーを起動する。
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// setupRoutes はREST → GraphQL → APIドキュメントの順にルーティングを設定する。
func (s *Server) setupRoutes() {
	for _, r := range restRoutes {
		s.router.Handle(r.method, r.path, r.handler(s))
	}

	// GraphQL（GETは対話コンソール）
	s.router.POST("/graphql", s.handleGraphQL())
	s.router.GET("/graphql", s.handleGraphiQL())

	// APIドキュメント
	docs := s.router.Group("/api-docs")
	{
		docs.GET("", s.handleDocsUI())
		docs.GET("/openapi.json", s.handleDocsJSON())
		docs.GET("/openapi.yaml", s.handleDocsYAML())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "user"})
	})
}
