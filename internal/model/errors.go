// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, job, offer, notification, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeJobNotFound          = "JOB_NOT_FOUND"
	ErrCodeOfferNotFound        = "OFFER_NOT_FOUND"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeNotificationNotFound = "NOTIFICATION_NOT_FOUND"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeInvalidCoordinates   = "INVALID_COORDINATES"
	ErrCodeInvalidJobStatus     = "INVALID_JOB_STATUS"
	ErrCodeInvalidOfferStatus   = "INVALID_OFFER_STATUS"
	ErrCodeOwnJobOffer          = "OWN_JOB_OFFER"
	ErrCodeInvalidRole          = "INVALID_ROLE"
	ErrCodeInvalidMediaURL      = "INVALID_MEDIA_URL"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeDuplicateOffer       = "DUPLICATE_OFFER"
	ErrCodeDuplicateEmail       = "DUPLICATE_EMAIL"
	ErrCodeSignInMismatch       = "SIGN_IN_MISMATCH"
	ErrCodeUploadNotConfigured  = "UPLOAD_NOT_CONFIGURED"
)

// NewJobNotFoundError は仕事未検出エラーを生成する。
func NewJobNotFoundError(jobID string) *APIError {
	return &APIError{
		Code:     ErrCodeJobNotFound,
		Message:  fmt.Sprintf("指定された仕事が見つかりません: %s", jobID),
		Category: "job",
		Action:   "仕事IDを確認してください。",
	}
}

// NewOfferNotFoundError はオファー未検出エラーを生成する。
func NewOfferNotFoundError(offerID string) *APIError {
	return &APIError{
		Code:     ErrCodeOfferNotFound,
		Message:  fmt.Sprintf("指定されたオファーが見つかりません: %s", offerID),
		Category: "offer",
		Action:   "オファーIDを確認してください。",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "auth",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewNotificationNotFoundError は通知未検出エラーを生成する。
func NewNotificationNotFoundError(notificationID string) *APIError {
	return &APIError{
		Code:     ErrCodeNotificationNotFound,
		Message:  fmt.Sprintf("指定された通知が見つかりません: %s", notificationID),
		Category: "notification",
		Action:   "通知IDを確認してください。",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "対象の作成者または担当者のみが操作できます。",
	}
}

// NewInvalidCoordinatesError は緯度・経度の範囲外エラーを生成する。
func NewInvalidCoordinatesError(field string, value float64) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCoordinates,
		Message:  fmt.Sprintf("無効な座標です: %s = %g", field, value),
		Category: "validation",
		Action:   "緯度は-90〜90、経度は-180〜180の範囲で指定してください。",
	}
}

// NewInvalidJobStatusError は仕事の状態遷移が不正な場合のエラーを生成する。
func NewInvalidJobStatusError(current JobStatus) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidJobStatus,
		Message:  fmt.Sprintf("現在の仕事の状態ではこの操作は実行できません: %s", current),
		Category: "job",
		Action:   "仕事の状態を確認してください。",
	}
}

// NewInvalidOfferStatusError はオファーの状態遷移が不正な場合のエラーを生成する。
func NewInvalidOfferStatusError(current OfferStatus) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidOfferStatus,
		Message:  fmt.Sprintf("このオファーは既に確定しています: %s", current),
		Category: "offer",
		Action:   "pending状態のオファーのみ採用・不採用を決定できます。",
	}
}

// NewOwnJobOfferError は自分の仕事への入札エラーを生成する。
func NewOwnJobOfferError() *APIError {
	return &APIError{
		Code:     ErrCodeOwnJobOffer,
		Message:  "自分が作成した仕事にはオファーを出せません。",
		Category: "offer",
		Action:   "他のユーザーが作成した仕事を選んでください。",
	}
}

// NewInvalidRoleError は未サポートの役割エラーを生成する。
func NewInvalidRoleError(role string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRole,
		Message:  fmt.Sprintf("無効な役割です: %s", role),
		Category: "validation",
		Action:   "役割には client または labour を指定してください。",
	}
}

// NewInvalidMediaURLError はメディアURLの検証失敗エラーを生成する。
func NewInvalidMediaURLError(rawURL string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidMediaURL,
		Message:  fmt.Sprintf("無効なメディアURLです: %s", rawURL),
		Category: "validation",
		Action:   "http/httpsの公開URLを指定してください。プライベートネットワークのURLは許可されていません。",
	}
}

// NewInvalidRequestError はリクエスト解析失敗エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエストの形式を確認してください。",
	}
}

// NewDuplicateOfferError は同一仕事への重複オファーエラーを生成する。
func NewDuplicateOfferError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateOffer,
		Message:  "この仕事には既にpending状態のオファーがあります。",
		Category: "offer",
		Action:   "既存のオファーの結果を待ってください。",
	}
}

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
func NewDuplicateEmailError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、サインインしてください。",
	}
}

// NewSignInMismatchError はサインイン情報不一致エラーを生成する。
func NewSignInMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodeSignInMismatch,
		Message:  "名前とメールアドレスの組み合わせが一致しません。",
		Category: "auth",
		Action:   "入力内容を確認してください。",
	}
}

// NewUploadNotConfiguredError はアップロード先未設定エラーを生成する。
func NewUploadNotConfiguredError() *APIError {
	return &APIError{
		Code:     ErrCodeUploadNotConfigured,
		Message:  "メディアアップロード先が設定されていません。",
		Category: "system",
		Action:   "管理者に連絡してください。",
	}
}
