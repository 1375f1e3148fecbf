// Package offer はオファーのライフサイクル管理のドメインロジックを提供する。
package offer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/shigotoba/internal/model"
	"github.com/hitoshi/shigotoba/internal/notification"
	"github.com/hitoshi/shigotoba/internal/repository"
	"github.com/hitoshi/shigotoba/internal/security"
)

// CreateInput はオファー作成リクエストの正規化済み入力。
type CreateInput struct {
	JobID         string
	UserID        string
	ProposedPrice string
	Message       string
}

// MetricsRecorder はオファーの状態遷移メトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordOfferCreated()
	RecordOfferDecided(status string)
}

// Service はオファーのライフサイクルを管理するドメインサービス。
// 状態は pending → {accepted, rejected} の終端遷移のみで、以後変更されない。
// 採用・不採用の決定は仕事の作成者のみが行える。
type Service struct {
	offerRepo repository.OfferRepository
	jobRepo   repository.JobRepository
	userRepo  repository.UserRepository
	emitter   notification.Emitter
	sanitizer security.TextSanitizerService
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilでもよい（テスト用）。
func NewService(
	offerRepo repository.OfferRepository,
	jobRepo repository.JobRepository,
	userRepo repository.UserRepository,
	emitter notification.Emitter,
	sanitizer security.TextSanitizerService,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		offerRepo: offerRepo,
		jobRepo:   jobRepo,
		userRepo:  userRepo,
		emitter:   emitter,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// Create はオファーを作成し、仕事の作成者へNEW_OFFER通知を送る。
// 仕事がopen状態であること、入札者が作成者本人でないこと、
// 同一(仕事, 入札者)のpendingオファーが存在しないことを検証する。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Offer, error) {
	job, err := s.jobRepo.FindByID(ctx, input.JobID)
	if err != nil {
		return nil, fmt.Errorf("仕事の取得に失敗しました: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(input.JobID)
	}

	bidder, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("入札者の取得に失敗しました: %w", err)
	}
	if bidder == nil {
		return nil, model.NewUserNotFoundError(input.UserID)
	}

	if job.Status != model.JobStatusOpen {
		return nil, model.NewInvalidJobStatusError(job.Status)
	}
	if job.CreatedBy == input.UserID {
		return nil, model.NewOwnJobOfferError()
	}

	existing, err := s.offerRepo.FindPendingByJobAndUser(ctx, input.JobID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("既存オファーの確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateOfferError()
	}

	offer := &model.Offer{
		ID:            uuid.NewString(),
		JobID:         input.JobID,
		UserID:        input.UserID,
		ProposedPrice: strings.TrimSpace(input.ProposedPrice),
		Message:       s.sanitizer.Sanitize(input.Message),
		Status:        model.OfferStatusPending,
		CreatedAt:     time.Now(),
	}

	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("オファーの作成に失敗しました: %w", err)
	}

	message := fmt.Sprintf("「%s」に新しいオファーが届きました。", job.Title)
	if err := s.emitter.Emit(ctx, job.CreatedBy, model.NotificationNewOffer, &offer.JobID, &offer.ID, message); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOfferCreated()
	}

	return offer, nil
}

// ListByJob は指定仕事のオファー一覧を入札者情報付きで新しい順に返す。
func (s *Service) ListByJob(ctx context.Context, jobID string) ([]model.OfferWithBidder, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("仕事の取得に失敗しました: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(jobID)
	}

	offers, err := s.offerRepo.ListByJobWithBidder(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("オファー一覧の取得に失敗しました: %w", err)
	}
	return offers, nil
}

// findPendingWithJob はオファーと所属する仕事を取得し、決定操作の共通の
// 前提条件（存在、作成者本人、pending状態）を検証する。
func (s *Service) findPendingWithJob(ctx context.Context, offerID, callerID string) (*model.Offer, *model.Job, error) {
	offer, err := s.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		return nil, nil, fmt.Errorf("オファーの取得に失敗しました: %w", err)
	}
	if offer == nil {
		return nil, nil, model.NewOfferNotFoundError(offerID)
	}

	job, err := s.jobRepo.FindByID(ctx, offer.JobID)
	if err != nil {
		return nil, nil, fmt.Errorf("仕事の取得に失敗しました: %w", err)
	}
	if job == nil {
		return nil, nil, model.NewJobNotFoundError(offer.JobID)
	}

	if job.CreatedBy != callerID {
		return nil, nil, model.NewForbiddenError()
	}
	if offer.Status != model.OfferStatusPending {
		return nil, nil, model.NewInvalidOfferStatusError(offer.Status)
	}

	return offer, job, nil
}

// Accept はオファーを採用する。仕事の作成者のみが実行できる。
// 兄弟オファーの一括rejected、本オファーのaccepted、仕事のreserved化は
// 単一トランザクションで実行され、部分適用された状態は観測されない。
// 採用された入札者へOFFER_ACCEPTED通知を送る。一括で不採用となった
// 兄弟オファーには個別の通知を送らない。
func (s *Service) Accept(ctx context.Context, offerID, callerID string) (*model.Offer, error) {
	offer, job, err := s.findPendingWithJob(ctx, offerID, callerID)
	if err != nil {
		return nil, err
	}

	if err := s.offerRepo.AcceptAndReserve(ctx, offerID, offer.JobID); err != nil {
		// 並行する採用操作に直列化で敗れた場合は、再検証時に観測された
		// 状態を持つ状態エラーとして返す
		var notPending *repository.OfferNotPendingError
		if errors.As(err, &notPending) {
			return nil, model.NewInvalidOfferStatusError(notPending.Status)
		}
		return nil, fmt.Errorf("採用処理に失敗しました: %w", err)
	}

	offer.Status = model.OfferStatusAccepted

	message := fmt.Sprintf("「%s」へのオファーが採用されました。", job.Title)
	if err := s.emitter.Emit(ctx, offer.UserID, model.NotificationOfferAccepted, &offer.JobID, &offer.ID, message); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOfferDecided(string(model.OfferStatusAccepted))
	}

	return offer, nil
}

// Reject はオファーを不採用にする。仕事の作成者のみが実行できる。
// 入札者へOFFER_REJECTED通知を送る。
func (s *Service) Reject(ctx context.Context, offerID, callerID string) (*model.Offer, error) {
	offer, job, err := s.findPendingWithJob(ctx, offerID, callerID)
	if err != nil {
		return nil, err
	}

	if err := s.offerRepo.UpdateStatus(ctx, offerID, model.OfferStatusRejected); err != nil {
		return nil, fmt.Errorf("不採用処理に失敗しました: %w", err)
	}

	offer.Status = model.OfferStatusRejected

	message := fmt.Sprintf("「%s」へのオファーは見送られました。", job.Title)
	if err := s.emitter.Emit(ctx, offer.UserID, model.NotificationOfferRejected, &offer.JobID, &offer.ID, message); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOfferDecided(string(model.OfferStatusRejected))
	}

	return offer, nil
}
