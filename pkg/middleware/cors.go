package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultAllowedOrigins はクロスオリジンでのレスポンス読み取りを許可するオリジン。
var DefaultAllowedOrigins = []string{"http://example.com", "https://example.com"}

// OriginPolicy はリクエストのOriginヘッダーに対する許可/拒否の判定規則。
// 生成後は変更されない。
type OriginPolicy struct {
	origins map[string]struct{}
}

// NewOriginPolicy は指定されたオリジンのみを許可するOriginPolicyを生成する。
// 比較は完全一致で行い、ワイルドカードやサブドメインのマッチングは行わない。
func NewOriginPolicy(origins ...string) OriginPolicy {
	set := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		set[o] = struct{}{}
	}
	return OriginPolicy{origins: set}
}

// Allowed はoriginが許可されるかを判定する。
// Originが無い場合（同一オリジンまたはブラウザ以外のクライアント）は許可する。
func (p OriginPolicy) Allowed(origin string) bool {
	if origin == "" {
		return true
	}
	_, ok := p.origins[origin]
	return ok
}

// CORS はOriginPolicyに従ってクロスオリジンリクエストを制御するGinミドルウェアを返す。
// 拒否されたオリジンのリクエストはハンドラーに到達する前に403で中断する。
// サーバー自身のオリジンと一致するOriginは同一オリジンとして扱う。
func CORS(policy OriginPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == selfOrigin(c.Request) {
			origin = ""
		}

		if !policy.Allowed(origin) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.Header("Access-Control-Max-Age", "86400")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// selfOrigin はリクエスト先サーバーのオリジン（scheme://host）を返す。
// スキームは接続自体のTLS有無のみで決まり、X-Forwarded-Protoは信頼しない。
// そのためTLS終端プロキシの背後ではhttpsの同一オリジンは自身と一致せず、
// 許可リストに無い限り拒否される。
func selfOrigin(r *http.Request) string {
	if r.Host == "" {
		return ""
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
