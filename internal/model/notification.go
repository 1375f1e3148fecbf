// Package model はドメインモデルを定義する。
package model

import "time"

// NotificationType は通知の種別を表す。
type NotificationType string

const (
	// NotificationNewOffer は新規オファーの到着をクライアントへ知らせる通知。
	NotificationNewOffer NotificationType = "NEW_OFFER"
	// NotificationOfferAccepted はオファー採用を入札者へ知らせる通知。
	NotificationOfferAccepted NotificationType = "OFFER_ACCEPTED"
	// NotificationOfferRejected はオファー不採用を入札者へ知らせる通知。
	NotificationOfferRejected NotificationType = "OFFER_REJECTED"
)

// Notification はユーザーへの通知を表す。
// オファーイベントの副作用としてのみ生成され、変更は既読化（false→true）のみ。
// JobIDは参照先の仕事が削除された後もそのまま残る（宙づり参照を許容する）。
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	JobID     *string
	OfferID   *string
	Message   string
	Read      bool
	CreatedAt time.Time
}
