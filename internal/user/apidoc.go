package user

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-yaml"
)

// OpenAPI はOpenAPI 3.0ドキュメントのルートオブジェクト。
type OpenAPI struct {
	OpenAPI    string               `json:"openapi" yaml:"openapi"`
	Info       Info                 `json:"info" yaml:"info"`
	Paths      map[string]*PathItem `json:"paths" yaml:"paths"`
	Components Components           `json:"components" yaml:"components"`
}

// Info はAPIのメタデータ。
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version" yaml:"version"`
}

// PathItem は1つのパスで利用できる操作。
type PathItem struct {
	Get  *Operation `json:"get,omitempty" yaml:"get,omitempty"`
	Post *Operation `json:"post,omitempty" yaml:"post,omitempty"`
}

// Operation はパスに対する1つのAPI操作。
type Operation struct {
	Summary     string               `json:"summary,omitempty" yaml:"summary,omitempty"`
	OperationID string               `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Parameters  []*Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Responses   map[string]*Response `json:"responses" yaml:"responses"`
}

// Parameter は操作のパラメータ。
type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	In          string  `json:"in" yaml:"in"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool    `json:"required" yaml:"required"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Response は1つのステータスコードに対するレスポンス。
type Response struct {
	Description string                `json:"description" yaml:"description"`
	Content     map[string]*MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// MediaType はレスポンスボディのスキーマ。
type MediaType struct {
	Schema *Schema `json:"schema" yaml:"schema"`
}

// Components は再利用可能なスキーマ定義。
type Components struct {
	Schemas map[string]*Schema `json:"schemas" yaml:"schemas"`
}

// Schema はJSON Schemaのサブセット。
type Schema struct {
	Ref        string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type       string             `json:"type,omitempty" yaml:"type,omitempty"`
	Format     string             `json:"format,omitempty" yaml:"format,omitempty"`
	Required   []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Example    any                `json:"example,omitempty" yaml:"example,omitempty"`
}

func schemaRef(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

func jsonContent(schema *Schema) map[string]*MediaType {
	return map[string]*MediaType{"application/json": {Schema: schema}}
}

func errorResponse(description string) *Response {
	return &Response{Description: description, Content: jsonContent(schemaRef("Error"))}
}

// newAPIDocument はルート定義からOpenAPIドキュメントを生成する。
// ハンドラー登録と同じ定義を使うため、ドキュメントと実装のパスは常に一致する。
func newAPIDocument(routes []route) *OpenAPI {
	doc := &OpenAPI{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       "User API",
			Description: "ユーザーを参照する読み取り専用API",
			Version:     "1.0.0",
		},
		Paths: make(map[string]*PathItem, len(routes)),
		Components: Components{
			Schemas: map[string]*Schema{
				"User": {
					Type:     "object",
					Required: []string{"id", "name"},
					Properties: map[string]*Schema{
						"id":   {Type: "integer", Format: "int64", Example: 1},
						"name": {Type: "string", Example: "Ada"},
					},
				},
				"Error": {
					Type:     "object",
					Required: []string{"error"},
					Properties: map[string]*Schema{
						"error": {Type: "string", Example: errMsgNotFound},
					},
				},
			},
		},
	}

	for _, r := range routes {
		p := openAPIPath(r.path)
		item, ok := doc.Paths[p]
		if !ok {
			item = &PathItem{}
			doc.Paths[p] = item
		}
		op := r.operation
		switch r.method {
		case http.MethodGet:
			item.Get = &op
		case http.MethodPost:
			item.Post = &op
		}
	}
	return doc
}

// openAPIPath はGin形式のパスパラメータ（:id）をOpenAPI形式（{id}）に変換する。
func openAPIPath(ginPath string) string {
	segments := strings.Split(ginPath, "/")
	for i, seg := range segments {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			segments[i] = "{" + name + "}"
		}
	}
	return strings.Join(segments, "/")
}

// apiDocs はドキュメントのシリアライズ結果。起動時に一度だけ生成する。
type apiDocs struct {
	json []byte
	yaml []byte
}

// renderAPIDocs はドキュメントをJSONとYAMLにシリアライズする。
func renderAPIDocs(doc *OpenAPI) (apiDocs, error) {
	j, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apiDocs{}, fmt.Errorf("APIドキュメントのJSON変換に失敗: %w", err)
	}
	y, err := yaml.Marshal(doc)
	if err != nil {
		return apiDocs{}, fmt.Errorf("APIドキュメントのYAML変換に失敗: %w", err)
	}
	return apiDocs{json: j, yaml: y}, nil
}

// handleDocsUI はSwagger UIのページを返すハンドラを返す。
func (s *Server) handleDocsUI() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerUIPage))
	}
}

// handleDocsJSON はJSON形式のOpenAPIドキュメントを返すハンドラを返す。
func (s *Server) handleDocsJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", s.docs.json)
	}
}

// handleDocsYAML はYAML形式のOpenAPIドキュメントを返すハンドラを返す。
func (s *Server) handleDocsYAML() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", s.docs.yaml)
	}
}

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>User API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({ url: "/api-docs/openapi.json", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`
