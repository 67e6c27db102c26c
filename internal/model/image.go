package model

import (
	"context"
	"errors"
)

// ErrImagePickCancelled はユーザーが画像選択をキャンセルしたことを示す。
// エラーではなく、何もしない操作として扱う。
var ErrImagePickCancelled = errors.New("image pick cancelled")

// ImageSource は画像選択の外部コラボレーター。
// 選択された画像のURIを返すか、キャンセル時はErrImagePickCancelledを返す。
type ImageSource interface {
	PickImage(ctx context.Context) (string, error)
}
