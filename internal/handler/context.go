package handler

import (
	"net/http"

	"github.com/hitoshi/shigotoba/internal/middleware"
)

// callerIDFrom はリクエストから呼び出し元IDを取得する。
// IdentityMiddlewareがX-User-IDヘッダから注入した値を読む。
func callerIDFrom(r *http.Request) (string, error) {
	return middleware.CallerIDFromContext(r.Context())
}
