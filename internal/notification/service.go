// Package notification は通知の生成と閲覧のドメインロジックを提供する。
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/shigotoba/internal/model"
	"github.com/hitoshi/shigotoba/internal/repository"
)

// Emitter は通知を生成する側（オファーサービス）が必要とするインターフェース。
// Serviceの部分集合として定義する。
type Emitter interface {
	// Emit は通知を追記する。書き込み失敗は呼び出し元の操作のエラーとして
	// そのまま伝播する（握りつぶさない）。
	Emit(ctx context.Context, userID string, typ model.NotificationType, jobID, offerID *string, message string) error
}

// MetricsRecorder は通知生成のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordNotificationEmitted(typ string)
}

// ListResult は通知一覧と未読数をまとめた読み取り結果。
type ListResult struct {
	Notifications []*model.Notification
	UnreadCount   int
}

// Service は通知のドメインサービス。
// 通知はオファーイベントの副作用としてのみ生成され、
// 変更は既読化（false→true、単調）のみが許される。
type Service struct {
	repo    repository.NotificationRepository
	metrics MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilでもよい（テスト用）。
func NewService(repo repository.NotificationRepository, metrics MetricsRecorder) *Service {
	return &Service{repo: repo, metrics: metrics}
}

// Emit は通知を追記する。
// 呼び出し元の状態変更と同一の論理操作内で同期的に呼ばれるが、
// 採用処理のトランザクションには含まれない（コミット後の実行を許容する）。
func (s *Service) Emit(ctx context.Context, userID string, typ model.NotificationType, jobID, offerID *string, message string) error {
	n := &model.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		JobID:     jobID,
		OfferID:   offerID,
		Message:   message,
		Read:      false,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("通知の作成に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordNotificationEmitted(string(typ))
	}

	return nil
}

// ListForUser は指定ユーザーの通知一覧を新しい順に、未読数付きで返す。
func (s *Service) ListForUser(ctx context.Context, userID string) (*ListResult, error) {
	notifications, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("通知一覧の取得に失敗しました: %w", err)
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("未読数の取得に失敗しました: %w", err)
	}

	return &ListResult{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

// MarkRead は指定通知を既読にする。所有者のみが操作できる。
// 既に既読の通知への操作は何もしない成功となる（冪等）。
func (s *Service) MarkRead(ctx context.Context, notificationID, callerID string) (*model.Notification, error) {
	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		return nil, fmt.Errorf("通知の取得に失敗しました: %w", err)
	}
	if n == nil {
		return nil, model.NewNotificationNotFoundError(notificationID)
	}
	if n.UserID != callerID {
		return nil, model.NewForbiddenError()
	}

	if n.Read {
		return n, nil
	}

	if err := s.repo.MarkRead(ctx, notificationID); err != nil {
		return nil, fmt.Errorf("既読化に失敗しました: %w", err)
	}

	n.Read = true
	return n, nil
}

// MarkAllRead は指定ユーザーの全通知を既読にし、更新後の一覧を返す。冪等。
func (s *Service) MarkAllRead(ctx context.Context, userID string) (*ListResult, error) {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return nil, fmt.Errorf("一括既読化に失敗しました: %w", err)
	}

	return s.ListForUser(ctx, userID)
}

// compile-time interface check
var _ Emitter = (*Service)(nil)
