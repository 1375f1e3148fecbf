package job

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/shigotoba/internal/model"
	"github.com/hitoshi/shigotoba/internal/repository"
	"github.com/hitoshi/shigotoba/internal/security"
)

// CreateInput は仕事作成リクエストの正規化済み入力。
type CreateInput struct {
	Title       string
	Description string
	Location    string
	Budget      string
	Images      []string
	Video       *string
	CreatedBy   string
	Latitude    *float64
	Longitude   *float64
	Skills      []string
}

// UserJobs はユーザーに紐づく仕事の2つの側面をまとめた読み取り結果。
// Createdは作成した仕事、WorkingOnはオファーがacceptedとなっている仕事。
type UserJobs struct {
	Created   []*model.Job
	WorkingOn []*model.Job
}

// MetricsRecorder は仕事のライフサイクルイベントのメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordJobCreated()
	RecordJobClosed()
}

// Service は仕事のライフサイクルを管理するドメインサービス。
// 状態遷移は open → reserved → closed の一方向のみ。
// 更新・削除・完了確定は作成者のみ、完了申請は採用された職人のみが行える。
type Service struct {
	jobRepo   repository.JobRepository
	offerRepo repository.OfferRepository
	userRepo  repository.UserRepository
	sanitizer security.TextSanitizerService
	ssrfGuard security.SSRFGuardService
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilでもよい（テスト用）。
func NewService(
	jobRepo repository.JobRepository,
	offerRepo repository.OfferRepository,
	userRepo repository.UserRepository,
	sanitizer security.TextSanitizerService,
	ssrfGuard security.SSRFGuardService,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		jobRepo:   jobRepo,
		offerRepo: offerRepo,
		userRepo:  userRepo,
		sanitizer: sanitizer,
		ssrfGuard: ssrfGuard,
		metrics:   metrics,
	}
}

// validateCoordinates は緯度・経度をそれぞれ独立に範囲検証する。
// 片方のみの指定も許容する（地図表示の対象には両方が必要）。
func validateCoordinates(lat, lng *float64) error {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return model.NewInvalidCoordinatesError("latitude", *lat)
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return model.NewInvalidCoordinatesError("longitude", *lng)
	}
	return nil
}

// validateMediaURLs は画像・動画URLの安全性を検証する。
func (s *Service) validateMediaURLs(images []string, video *string) error {
	for _, u := range images {
		if err := s.ssrfGuard.ValidateURL(u); err != nil {
			return model.NewInvalidMediaURLError(u)
		}
	}
	if video != nil && *video != "" {
		if err := s.ssrfGuard.ValidateURL(*video); err != nil {
			return model.NewInvalidMediaURLError(*video)
		}
	}
	return nil
}

// Create は仕事を作成する。
// 座標の範囲検証、テキストのサニタイズ、メディアURLの検証を行い、
// status=openで永続化する。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Job, error) {
	creator, err := s.userRepo.FindByID(ctx, input.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("作成者の取得に失敗しました: %w", err)
	}
	if creator == nil {
		return nil, model.NewUserNotFoundError(input.CreatedBy)
	}

	title := s.sanitizer.Sanitize(input.Title)
	if title == "" {
		return nil, model.NewInvalidRequestError("タイトルは必須です")
	}

	if err := validateCoordinates(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	if err := s.validateMediaURLs(input.Images, input.Video); err != nil {
		return nil, err
	}

	now := time.Now()
	job := &model.Job{
		ID:          uuid.NewString(),
		Title:       title,
		Description: s.sanitizer.Sanitize(input.Description),
		Location:    s.sanitizer.Sanitize(input.Location),
		Budget:      strings.TrimSpace(input.Budget),
		Images:      input.Images,
		Video:       input.Video,
		Status:      model.JobStatusOpen,
		CreatedBy:   input.CreatedBy,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Skills:      normalizeSkills(input.Skills),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("仕事の作成に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordJobCreated()
	}

	return job, nil
}

// normalizeSkills はスキル一覧の空要素を除いてトリムする。
// フィルタ照合側で小文字に折りたたむため、表示用の表記はここでは保持する。
func normalizeSkills(skills []string) []string {
	if len(skills) == 0 {
		return nil
	}
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill != "" {
			out = append(out, skill)
		}
	}
	return out
}

// Get は指定IDの仕事を取得する。
func (s *Service) Get(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("仕事の取得に失敗しました: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(jobID)
	}
	return job, nil
}

// Update は仕事の部分更新を行う。作成者のみが実行できる。
// チェンジセットに存在しないフィールドは変更されず、
// nullが明示されたフィールドのうちクリア可能なもの（video、座標）はクリアされる。
// ステータスと完了申請の状態はこの操作では変更できない。
func (s *Service) Update(ctx context.Context, jobID, callerID string, update model.JobUpdate) (*model.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("仕事の取得に失敗しました: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(jobID)
	}
	if job.CreatedBy != callerID {
		return nil, model.NewForbiddenError()
	}

	if err := s.applyUpdate(job, update); err != nil {
		return nil, err
	}

	job.UpdatedAt = time.Now()
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("仕事の更新に失敗しました: %w", err)
	}

	return job, nil
}

// applyUpdate はチェンジセットを仕事に適用する。
// クリア不能なフィールドへのnullはバリデーションエラーとする。
func (s *Service) applyUpdate(job *model.Job, update model.JobUpdate) error {
	if update.Title.Set {
		if !update.Title.Valid {
			return model.NewInvalidRequestError("titleはnullにできません")
		}
		title := s.sanitizer.Sanitize(update.Title.Value)
		if title == "" {
			return model.NewInvalidRequestError("タイトルは必須です")
		}
		job.Title = title
	}
	if update.Description.Set {
		if !update.Description.Valid {
			return model.NewInvalidRequestError("descriptionはnullにできません")
		}
		job.Description = s.sanitizer.Sanitize(update.Description.Value)
	}
	if update.Location.Set {
		if !update.Location.Valid {
			return model.NewInvalidRequestError("locationはnullにできません")
		}
		job.Location = s.sanitizer.Sanitize(update.Location.Value)
	}
	if update.Budget.Set {
		if !update.Budget.Valid {
			return model.NewInvalidRequestError("budgetはnullにできません")
		}
		job.Budget = strings.TrimSpace(update.Budget.Value)
	}

	if update.Images.Set {
		if !update.Images.Valid {
			job.Images = nil
		} else {
			if err := s.validateMediaURLs(update.Images.Value, nil); err != nil {
				return err
			}
			job.Images = update.Images.Value
		}
	}
	if update.Video.Set {
		if !update.Video.Valid {
			job.Video = nil
		} else {
			video := update.Video.Value
			if err := s.validateMediaURLs(nil, &video); err != nil {
				return err
			}
			job.Video = &video
		}
	}

	var lat, lng *float64
	if update.Latitude.Set {
		if update.Latitude.Valid {
			v := update.Latitude.Value
			lat = &v
		}
	} else {
		lat = job.Latitude
	}
	if update.Longitude.Set {
		if update.Longitude.Valid {
			v := update.Longitude.Value
			lng = &v
		}
	} else {
		lng = job.Longitude
	}
	if err := validateCoordinates(lat, lng); err != nil {
		return err
	}
	job.Latitude = lat
	job.Longitude = lng

	if update.Skills.Set {
		if !update.Skills.Valid {
			job.Skills = nil
		} else {
			job.Skills = normalizeSkills(update.Skills.Value)
		}
	}

	return nil
}

// Delete は仕事を削除する。作成者のみが実行できる。
// 関連するオファーは参照制約によりCASCADE削除される。
// この仕事を参照する通知はjob_idが宙に浮いたまま残る（許容する）。
func (s *Service) Delete(ctx context.Context, jobID, callerID string) error {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("仕事の取得に失敗しました: %w", err)
	}
	if job == nil {
		return model.NewJobNotFoundError(jobID)
	}
	if job.CreatedBy != callerID {
		return model.NewForbiddenError()
	}

	if err := s.jobRepo.DeleteByID(ctx, jobID); err != nil {
		return fmt.Errorf("仕事の削除に失敗しました: %w", err)
	}

	return nil
}

// RequestClose は受注側からの完了申請を記録する。
// 仕事がreserved状態であり、かつ呼び出し元がその仕事のacceptedオファーの
// 保有者である場合のみ許可される。繰り返しの申請は同じ結果となる（冪等）。
func (s *Service) RequestClose(ctx context.Context, jobID, callerID string) (*model.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("仕事の取得に失敗しました: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusReserved {
		return nil, model.NewInvalidJobStatusError(job.Status)
	}

	accepted, err := s.offerRepo.FindAcceptedByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("採用済みオファーの取得に失敗しました: %w", err)
	}
	if accepted == nil || accepted.UserID != callerID {
		return nil, model.NewForbiddenError()
	}

	requestedBy := model.CloseRequestedByLabour
	if err := s.jobRepo.UpdateCloseRequest(ctx, jobID, &requestedBy); err != nil {
		return nil, fmt.Errorf("完了申請の記録に失敗しました: %w", err)
	}

	job.CloseRequestedBy = &requestedBy
	return job, nil
}

// Close は仕事を完了状態にする。作成者のみが、reserved状態の仕事に対して実行できる。
// status=closed、closed_at、close_requested_by=NULLは単一の更新で原子的に設定される。
func (s *Service) Close(ctx context.Context, jobID, callerID string) (*model.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("仕事の取得に失敗しました: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusReserved {
		return nil, model.NewInvalidJobStatusError(job.Status)
	}
	if job.CreatedBy != callerID {
		return nil, model.NewForbiddenError()
	}

	if err := s.jobRepo.Close(ctx, jobID); err != nil {
		return nil, fmt.Errorf("仕事の完了処理に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordJobClosed()
	}

	return s.Get(ctx, jobID)
}

// RejectCloseRequest は完了申請を却下する。作成者のみが実行でき、
// 仕事の状態は問わない。close_requested_byをNULLに戻すのみで状態遷移は起きない。
func (s *Service) RejectCloseRequest(ctx context.Context, jobID, callerID string) (*model.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("仕事の取得に失敗しました: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(jobID)
	}
	if job.CreatedBy != callerID {
		return nil, model.NewForbiddenError()
	}

	if err := s.jobRepo.UpdateCloseRequest(ctx, jobID, nil); err != nil {
		return nil, fmt.Errorf("完了申請の却下に失敗しました: %w", err)
	}

	job.CloseRequestedBy = nil
	return job, nil
}

// List は指定ステータスの仕事一覧をフィルタ適用後に新しい順で返す。
// statusが空文字列の場合は全件が対象となる。
func (s *Service) List(ctx context.Context, status model.JobStatus, filter model.JobFilter) ([]*model.Job, error) {
	jobs, err := s.jobRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("仕事一覧の取得に失敗しました: %w", err)
	}

	if filter.IsEmpty() {
		return jobs, nil
	}

	matched := make([]*model.Job, 0, len(jobs))
	for _, j := range jobs {
		if Matches(j, filter) {
			matched = append(matched, j)
		}
	}
	return matched, nil
}

// ListForMap は地図表示用の仕事一覧を返す。
// フィルタ適用後、緯度・経度の両方が設定されている仕事のみが対象となる。
func (s *Service) ListForMap(ctx context.Context, status model.JobStatus, filter model.JobFilter) ([]*model.Job, error) {
	jobs, err := s.List(ctx, status, filter)
	if err != nil {
		return nil, err
	}

	withCoords := make([]*model.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.HasCoordinates() {
			withCoords = append(withCoords, j)
		}
	}
	return withCoords, nil
}

// ListByUser は指定ユーザーの仕事を作成分・受注分に分けて返す。
// 受注分はユーザーのオファーがacceptedとなっている仕事。
func (s *Service) ListByUser(ctx context.Context, userID string) (*UserJobs, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	created, err := s.jobRepo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("作成した仕事一覧の取得に失敗しました: %w", err)
	}

	workingOn, err := s.jobRepo.ListByAcceptedBidder(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("受注した仕事一覧の取得に失敗しました: %w", err)
	}

	return &UserJobs{Created: created, WorkingOn: workingOn}, nil
}
