package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/woodbine/internal/model"
)

// ErrCodeRateLimited はレート制限超過時のエラーコード。
// model.APIErrorのコードと同じ名前空間で返され、アプリは他のエラーと同様にActionを表示する。
const ErrCodeRateLimited = "RATE_LIMITED"

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// アプリはMessageをアラートの本文に、Actionを補足として表示する（例: 入力不足時の「すべての項目を入力し…」）。
type ErrorResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// Causeはレスポンスに含めない。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、クライアントには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "アプリを再起動してから再度お試しください。",
	})
}
