package middleware

import "net/http"

// NewCORSMiddleware はアプリシェルのオリジンに対するCORSミドルウェアを返す。
// allowedOriginにはCORS_ALLOWED_ORIGIN（既定はExpo開発サーバーの http://localhost:8081）を渡す。
// 許可メソッドはイベント・アルバム追加のPOST、プロフィール更新のPUT、
// ストレージ全削除とクエストセッション破棄のDELETEに合わせている。
// ログインやCookieを使わないためAllow-Credentialsは送らない。
// OPTIONSプリフライトリクエストには204で応答する。
func NewCORSMiddleware(allowedOrigin string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "86400")
			w.Header().Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
