// Package model はドメインモデルを定義する。
package model

import "time"

// JobStatus は仕事の状態を表す。
// 遷移は open → reserved → closed の一方向のみ（再オープンなし）。
type JobStatus string

const (
	// JobStatusOpen は応募受付中の状態。
	JobStatusOpen JobStatus = "open"
	// JobStatusReserved はオファー成立により職人が確定した状態。
	JobStatusReserved JobStatus = "reserved"
	// JobStatusClosed は完了済みの終端状態。
	JobStatusClosed JobStatus = "closed"
)

// IsValid はJobStatusがサポートされている値かを返す。
func (s JobStatus) IsValid() bool {
	return s == JobStatusOpen || s == JobStatusReserved || s == JobStatusClosed
}

// CloseRequestedByLabour は受注側（労働者）からの完了申請を示す値。
// CloseRequestedByに入りうる値はこれのみで、未申請時はnil。
const CloseRequestedByLabour = "labour"

// Job は募集中の仕事を表す。
// BudgetはJavaScript側の精度問題を避けるため10進文字列のまま保持する。
// ClosedAtはstatus=closedのときに限り非nil（不変条件）。
// CloseRequestedByはstatus=reservedの間に限り非nil（不変条件）。
type Job struct {
	ID               string
	Title            string
	Description      string
	Location         string
	Budget           string
	Images           []string
	Video            *string
	Status           JobStatus
	CloseRequestedBy *string
	ClosedAt         *time.Time
	CreatedBy        string
	Latitude         *float64
	Longitude        *float64
	Skills           []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasCoordinates は緯度・経度の両方が設定されているかを返す。
// 地図表示（GET /jobs/map）の対象判定に使う。
func (j *Job) HasCoordinates() bool {
	return j.Latitude != nil && j.Longitude != nil
}
