package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/woodbine/internal/middleware"
	"github.com/hitoshi/woodbine/internal/model"
)

// ErrCodeInvalidRequest はリクエストボディを解析できない場合のエラーコード。
const ErrCodeInvalidRequest = "INVALID_REQUEST"

// maxBodyBytes はJSONリクエストボディの上限。
const maxBodyBytes = 64 << 10

func newInvalidRequestError() *model.APIError {
	return &model.APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// decodeJSON はリクエストボディをdstに読み込む。失敗時は400を書き込みfalseを返す。
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// APIError以外は内部エラーとしてログに記録し、詳細は返さない。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		if statusCode >= http.StatusInternalServerError {
			slog.Error("internal server error", slog.String("error", err.Error()))
		}
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case model.ErrCodeConfirmationRequired, ErrCodeInvalidRequest,
		model.ErrCodeQuestKindMismatch, model.ErrCodeQuestInputNotAccepted:
		return http.StatusBadRequest
	case model.ErrCodeEventNotFound, model.ErrCodeAlbumNotFound,
		model.ErrCodeQuestNotFound, model.ErrCodeQuestSessionNotFound:
		return http.StatusNotFound
	case model.ErrCodeAlreadyBooked, model.ErrCodeQuestNotImplemented:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
