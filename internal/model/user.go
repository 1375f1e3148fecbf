// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの役割を表す。
type Role string

const (
	// RoleClient は仕事を発注するクライアントを示す。
	RoleClient Role = "client"
	// RoleLabour は仕事を受注する職人を示す。
	RoleLabour Role = "labour"
)

// IsValid はRoleがサポートされている値かを返す。
func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleLabour
}

// User はサービス利用ユーザーを表す。
// ProfileCompletedはプロフィール更新のたびに再計算される導出フィールド。
type User struct {
	ID                string
	Name              string
	Email             string
	Role              Role
	AvatarURL         string
	Location          string
	Bio               string
	Skills            []string
	YearsOfExperience int
	CompanyName       string
	ProfileCompleted  bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RecomputeProfileCompleted はプロフィール完成状態を再計算して反映する。
// 共通項目（名前・所在地・自己紹介）に加え、役割ごとの必須項目を判定する。
// labourはスキルを1件以上、clientは会社名を必要とする。
func (u *User) RecomputeProfileCompleted() {
	completed := u.Name != "" && u.Location != "" && u.Bio != ""
	switch u.Role {
	case RoleLabour:
		completed = completed && len(u.Skills) > 0
	case RoleClient:
		completed = completed && u.CompanyName != ""
	default:
		completed = false
	}
	u.ProfileCompleted = completed
}
