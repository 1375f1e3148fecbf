// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// CallerIDHeader は呼び出し元の識別子を運ぶHTTPヘッダ名。
// 値は上流で認証済みの不透明なIDとして扱い、ここでは検証しない。
const CallerIDHeader = "X-User-ID"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// callerIDContextKey はリクエストコンテキストに呼び出し元IDを格納するためのキー。
var callerIDContextKey = contextKey("caller_id")

// NewIdentityMiddleware はX-User-IDヘッダから呼び出し元IDを読み取り、
// リクエストコンテキストに注入するミドルウェアを返す。
// ヘッダが無いリクエストもそのまま通過させ、呼び出し元IDを必須とするかは
// ハンドラ側の判断に委ねる（一覧取得などは匿名でも可能なため）。
func NewIdentityMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callerID := strings.TrimSpace(r.Header.Get(CallerIDHeader))
			if callerID != "" {
				ctx := context.WithValue(r.Context(), callerIDContextKey, callerID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CallerIDFromContext はリクエストコンテキストから呼び出し元IDを取得する。
// IdentityMiddlewareを通過し、かつヘッダが設定されたリクエストでのみ有効。
func CallerIDFromContext(ctx context.Context) (string, error) {
	callerID, ok := ctx.Value(callerIDContextKey).(string)
	if !ok || callerID == "" {
		return "", fmt.Errorf("caller ID not found in context")
	}
	return callerID, nil
}

// ContextWithCallerID はコンテキストに呼び出し元IDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithCallerID(ctx context.Context, callerID string) context.Context {
	return context.WithValue(ctx, callerIDContextKey, callerID)
}
