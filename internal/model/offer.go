// Package model はドメインモデルを定義する。
package model

import "time"

// OfferStatus はオファーの状態を表す。
// pendingからaccepted/rejectedへの遷移は終端で、以後変更されない。
type OfferStatus string

const (
	// OfferStatusPending はクライアントの判断待ちの状態。
	OfferStatusPending OfferStatus = "pending"
	// OfferStatusAccepted は採用された終端状態。1仕事につき高々1件。
	OfferStatusAccepted OfferStatus = "accepted"
	// OfferStatusRejected は不採用の終端状態。
	OfferStatusRejected OfferStatus = "rejected"
)

// Offer は職人が仕事に対して提示するオファーを表す。
// 同一(JobID, UserID)の組でpending状態のオファーは高々1件（不変条件）。
type Offer struct {
	ID            string
	JobID         string
	UserID        string
	ProposedPrice string
	Message       string
	Status        OfferStatus
	CreatedAt     time.Time
}

// OfferWithBidder はオファーと入札者情報を結合した読み取り用の構造体。
// オファー一覧（GET /jobs/:id/offers）で使用する。
type OfferWithBidder struct {
	Offer
	BidderName      string
	BidderAvatarURL string
	BidderSkills    []string
}
