// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/shigotoba/internal/model"
)

// OfferNotPendingError はトランザクション内の再検証でオファーが
// pending状態でなかった場合に返される。並行する採用操作の片方が
// 直列化された後にこのエラーで失敗する。
// Statusには再検証時に観測された実際の状態が入る。
type OfferNotPendingError struct {
	Status model.OfferStatus
}

func (e *OfferNotPendingError) Error() string {
	return "offer is not pending: " + string(e.Status)
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByNameAndEmail は名前とメールアドレスの組でユーザーを検索する。
	// サインイン照合用。見つからない場合はnilを返す。
	FindByNameAndEmail(ctx context.Context, name, email string) (*model.User, error)

	// List は全ユーザーを登録日時の降順で返す。
	List(ctx context.Context) ([]*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// Update はユーザーのプロフィールを更新する。
	Update(ctx context.Context, user *model.User) error
}

// JobRepository は仕事データの永続化インターフェース。
type JobRepository interface {
	// FindByID は指定IDの仕事を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Job, error)

	// List は指定ステータスの仕事一覧を作成日時の降順で返す。
	// statusが空文字列の場合は全件を返す。
	List(ctx context.Context, status model.JobStatus) ([]*model.Job, error)

	// ListByCreator は指定ユーザーが作成した仕事一覧を作成日時の降順で返す。
	ListByCreator(ctx context.Context, userID string) ([]*model.Job, error)

	// ListByAcceptedBidder は指定ユーザーのオファーがacceptedとなっている
	// 仕事一覧を作成日時の降順で返す。
	ListByAcceptedBidder(ctx context.Context, userID string) ([]*model.Job, error)

	// Create は仕事を作成する。
	Create(ctx context.Context, job *model.Job) error

	// Update は仕事の可変フィールドとupdated_atを上書き更新する。
	Update(ctx context.Context, job *model.Job) error

	// UpdateCloseRequest はclose_requested_byのみを更新する。
	UpdateCloseRequest(ctx context.Context, jobID string, requestedBy *string) error

	// Close はstatus=closed、closed_at、close_requested_by=NULLを
	// 単一のUPDATEで原子的に設定する。
	Close(ctx context.Context, jobID string) error

	// DeleteByID は指定IDの仕事を削除する。関連するオファーはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// OfferRepository はオファーデータの永続化インターフェース。
type OfferRepository interface {
	// FindByID は指定IDのオファーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Offer, error)

	// FindPendingByJobAndUser は指定(job, user)のpendingオファーを検索する。
	// 見つからない場合はnilを返す。
	FindPendingByJobAndUser(ctx context.Context, jobID, userID string) (*model.Offer, error)

	// FindAcceptedByJob は指定仕事のacceptedオファーを検索する。
	// 見つからない場合はnilを返す。
	FindAcceptedByJob(ctx context.Context, jobID string) (*model.Offer, error)

	// ListByJobWithBidder は指定仕事のオファー一覧を入札者情報付きで
	// 作成日時の降順で返す。
	ListByJobWithBidder(ctx context.Context, jobID string) ([]model.OfferWithBidder, error)

	// Create はオファーを作成する。
	Create(ctx context.Context, offer *model.Offer) error

	// UpdateStatus はオファーの状態を更新する。
	UpdateStatus(ctx context.Context, id string, status model.OfferStatus) error

	// AcceptAndReserve は採用処理を単一トランザクションで実行する:
	// 仕事行をロックし、対象オファーがpendingであることを再検証した上で、
	// 兄弟オファーを一括rejected、本オファーをaccepted、仕事をreservedにする。
	// 部分適用された状態が観測されることはない。
	// 再検証に失敗した場合は観測された状態を持つOfferNotPendingErrorを返す。
	AcceptAndReserve(ctx context.Context, offerID, jobID string) error
}

// NotificationRepository は通知データの永続化インターフェース。
type NotificationRepository interface {
	// FindByID は指定IDの通知を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Notification, error)

	// ListByUser は指定ユーザーの通知一覧を作成日時の降順で返す。
	ListByUser(ctx context.Context, userID string) ([]*model.Notification, error)

	// CountUnread は指定ユーザーの未読通知数を返す。
	CountUnread(ctx context.Context, userID string) (int, error)

	// Create は通知を作成する。
	Create(ctx context.Context, n *model.Notification) error

	// MarkRead は指定IDの通知を既読にする。既に既読の場合も成功する（単調・冪等）。
	MarkRead(ctx context.Context, id string) error

	// MarkAllRead は指定ユーザーの全通知を既読にする。冪等。
	MarkAllRead(ctx context.Context, userID string) error
}
