// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
	"strings"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, catalog, quest, storage, system
	Action   string // ユーザー向け対処方法
	Cause    error  // 原因となった下位エラー（ログ用、レスポンスには含めない）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap は原因エラーを返す。
func (e *APIError) Unwrap() error {
	return e.Cause
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed      = "VALIDATION_FAILED"
	ErrCodeConfirmationRequired  = "CONFIRMATION_REQUIRED"
	ErrCodeEventNotFound         = "EVENT_NOT_FOUND"
	ErrCodeAlbumNotFound         = "ALBUM_NOT_FOUND"
	ErrCodeAlreadyBooked         = "ALREADY_BOOKED"
	ErrCodeDecodeFailed          = "DECODE_FAILED"
	ErrCodeQuestNotFound         = "QUEST_NOT_FOUND"
	ErrCodeQuestNotImplemented   = "QUEST_NOT_IMPLEMENTED"
	ErrCodeQuestKindMismatch     = "QUEST_KIND_MISMATCH"
	ErrCodeQuestInputNotAccepted = "QUEST_INPUT_NOT_ACCEPTED"
	ErrCodeQuestSessionNotFound  = "QUEST_SESSION_NOT_FOUND"
)

// HasCode はerrのチェーン中に指定コードのAPIErrorが含まれるかを返す。
func HasCode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// NewValidationError は必須入力の欠落エラーを生成する。
// fieldsには欠落または不正なフィールド名を渡す。
func NewValidationError(fields ...string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("入力が不足しています: %s", strings.Join(fields, ", ")),
		Category: "validation",
		Action:   "すべての項目を入力し、画像を選択してください。",
	}
}

// NewConfirmationRequiredError は確認なしで全データ削除が要求された場合のエラーを生成する。
func NewConfirmationRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeConfirmationRequired,
		Message:  "プロフィールのクリアには確認が必要です。",
		Category: "validation",
		Action:   "この操作はプロフィールだけでなく、イベントとアルバムを含む全データを削除します。続行する場合は confirm=true を指定してください。",
	}
}

// NewEventNotFoundError はイベント未検出エラーを生成する。
func NewEventNotFoundError(eventID string) *APIError {
	return &APIError{
		Code:     ErrCodeEventNotFound,
		Message:  fmt.Sprintf("指定されたイベントが見つかりません: %s", eventID),
		Category: "catalog",
		Action:   "イベント一覧を再読み込みしてください。",
	}
}

// NewAlbumNotFoundError はアルバム未検出エラーを生成する。
func NewAlbumNotFoundError(albumID string) *APIError {
	return &APIError{
		Code:     ErrCodeAlbumNotFound,
		Message:  fmt.Sprintf("指定されたアルバムが見つかりません: %s", albumID),
		Category: "catalog",
		Action:   "アルバム一覧を再読み込みしてください。",
	}
}

// NewAlreadyBookedError は予約済みイベントを再度予約しようとした場合のエラーを生成する。
func NewAlreadyBookedError(eventID string) *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyBooked,
		Message:  fmt.Sprintf("このイベントは既に予約済みです: %s", eventID),
		Category: "catalog",
		Action:   "予約内容を確認してください。",
	}
}

// NewDecodeError は永続化済みJSONの破損エラーを生成する。
// 呼び出し側はこのエラーをデータ未保存と同様に扱い、空または既定のコレクションにフォールバックする。
func NewDecodeError(key string, cause error) *APIError {
	return &APIError{
		Code:     ErrCodeDecodeFailed,
		Message:  fmt.Sprintf("保存済みデータの解析に失敗しました: %s", key),
		Category: "storage",
		Action:   "データは初期状態として扱われます。",
		Cause:    cause,
	}
}

// NewQuestNotFoundError は未知のクエスト種別エラーを生成する。
func NewQuestNotFoundError(kind string) *APIError {
	return &APIError{
		Code:     ErrCodeQuestNotFound,
		Message:  fmt.Sprintf("指定されたクエストが見つかりません: %s", kind),
		Category: "quest",
		Action:   "クエスト一覧から選択してください。",
	}
}

// NewQuestNotImplementedError は未実装クエストへの操作エラーを生成する。
func NewQuestNotImplementedError(kind string) *APIError {
	return &APIError{
		Code:     ErrCodeQuestNotImplemented,
		Message:  fmt.Sprintf("このクエストはまだ実装されていません: %s", kind),
		Category: "quest",
		Action:   "別のクエストを選択してください。",
	}
}

// NewQuestKindMismatchError は選択中と異なるクエストへの回答エラーを生成する。
func NewQuestKindMismatchError(selected, submitted string) *APIError {
	return &APIError{
		Code:     ErrCodeQuestKindMismatch,
		Message:  fmt.Sprintf("選択中のクエスト(%s)と回答先(%s)が一致しません。", selected, submitted),
		Category: "validation",
		Action:   "クエストを選択し直してください。",
	}
}

// NewQuestInputNotAcceptedError は入力受付前（記憶表示中など）の回答エラーを生成する。
func NewQuestInputNotAcceptedError(kind string) *APIError {
	return &APIError{
		Code:     ErrCodeQuestInputNotAccepted,
		Message:  fmt.Sprintf("現在は回答を受け付けていません: %s", kind),
		Category: "validation",
		Action:   "表示が終わるまでお待ちください。",
	}
}

// NewQuestSessionNotFoundError はクエストセッション未検出エラーを生成する。
func NewQuestSessionNotFoundError(sessionID string) *APIError {
	return &APIError{
		Code:     ErrCodeQuestSessionNotFound,
		Message:  fmt.Sprintf("指定されたクエストセッションが見つかりません: %s", sessionID),
		Category: "quest",
		Action:   "新しいセッションを開始してください。",
	}
}
