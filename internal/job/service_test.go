package job

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/shigotoba/internal/model"
)

// --- モック ---

type mockJobRepo struct {
	findByIDFn             func(ctx context.Context, id string) (*model.Job, error)
	listFn                 func(ctx context.Context, status model.JobStatus) ([]*model.Job, error)
	listByCreatorFn        func(ctx context.Context, userID string) ([]*model.Job, error)
	listByAcceptedBidderFn func(ctx context.Context, userID string) ([]*model.Job, error)
	createFn               func(ctx context.Context, job *model.Job) error
	updateFn               func(ctx context.Context, job *model.Job) error
	updateCloseRequestFn   func(ctx context.Context, jobID string, requestedBy *string) error
	closeFn                func(ctx context.Context, jobID string) error
	deleteByIDFn           func(ctx context.Context, id string) error
}

func (m *mockJobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockJobRepo) List(ctx context.Context, status model.JobStatus) ([]*model.Job, error) {
	return m.listFn(ctx, status)
}
func (m *mockJobRepo) ListByCreator(ctx context.Context, userID string) ([]*model.Job, error) {
	return m.listByCreatorFn(ctx, userID)
}
func (m *mockJobRepo) ListByAcceptedBidder(ctx context.Context, userID string) ([]*model.Job, error) {
	return m.listByAcceptedBidderFn(ctx, userID)
}
func (m *mockJobRepo) Create(ctx context.Context, job *model.Job) error {
	return m.createFn(ctx, job)
}
func (m *mockJobRepo) Update(ctx context.Context, job *model.Job) error {
	return m.updateFn(ctx, job)
}
func (m *mockJobRepo) UpdateCloseRequest(ctx context.Context, jobID string, requestedBy *string) error {
	return m.updateCloseRequestFn(ctx, jobID, requestedBy)
}
func (m *mockJobRepo) Close(ctx context.Context, jobID string) error {
	return m.closeFn(ctx, jobID)
}
func (m *mockJobRepo) DeleteByID(ctx context.Context, id string) error {
	return m.deleteByIDFn(ctx, id)
}

type mockOfferRepo struct {
	findByIDFn                func(ctx context.Context, id string) (*model.Offer, error)
	findPendingByJobAndUserFn func(ctx context.Context, jobID, userID string) (*model.Offer, error)
	findAcceptedByJobFn       func(ctx context.Context, jobID string) (*model.Offer, error)
	listByJobWithBidderFn     func(ctx context.Context, jobID string) ([]model.OfferWithBidder, error)
	createFn                  func(ctx context.Context, offer *model.Offer) error
	updateStatusFn            func(ctx context.Context, id string, status model.OfferStatus) error
	acceptAndReserveFn        func(ctx context.Context, offerID, jobID string) error
}

func (m *mockOfferRepo) FindByID(ctx context.Context, id string) (*model.Offer, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockOfferRepo) FindPendingByJobAndUser(ctx context.Context, jobID, userID string) (*model.Offer, error) {
	return m.findPendingByJobAndUserFn(ctx, jobID, userID)
}
func (m *mockOfferRepo) FindAcceptedByJob(ctx context.Context, jobID string) (*model.Offer, error) {
	return m.findAcceptedByJobFn(ctx, jobID)
}
func (m *mockOfferRepo) ListByJobWithBidder(ctx context.Context, jobID string) ([]model.OfferWithBidder, error) {
	return m.listByJobWithBidderFn(ctx, jobID)
}
func (m *mockOfferRepo) Create(ctx context.Context, offer *model.Offer) error {
	return m.createFn(ctx, offer)
}
func (m *mockOfferRepo) UpdateStatus(ctx context.Context, id string, status model.OfferStatus) error {
	return m.updateStatusFn(ctx, id, status)
}
func (m *mockOfferRepo) AcceptAndReserve(ctx context.Context, offerID, jobID string) error {
	return m.acceptAndReserveFn(ctx, offerID, jobID)
}

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) FindByNameAndEmail(ctx context.Context, name, email string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) List(ctx context.Context) ([]*model.User, error) { return nil, nil }
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return nil
}
func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	return nil
}

// passthroughSanitizer はトリムのみ行うテスト用サニタイザ。
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(raw string) string { return strings.TrimSpace(raw) }

// allowAllGuard はすべてのURLを許可するテスト用ガード。
type allowAllGuard struct{}

func (allowAllGuard) NewSafeClient(timeout time.Duration) *http.Client { return http.DefaultClient }
func (allowAllGuard) ValidateURL(rawURL string) error                  { return nil }

// denyAllGuard はすべてのURLを拒否するテスト用ガード。
type denyAllGuard struct{}

func (denyAllGuard) NewSafeClient(timeout time.Duration) *http.Client { return http.DefaultClient }
func (denyAllGuard) ValidateURL(rawURL string) error {
	return errors.New("blocked")
}

func ptrFloat(v float64) *float64 { return &v }

func existingUserRepo() *mockUserRepo {
	return &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
	}
}

func assertAPIErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != code {
		t.Fatalf("error code = %q, want %q", apiErr.Code, code)
	}
}

// --- Create ---

// 仕事の作成がstatus=openで永続化されることを検証
func TestService_Create(t *testing.T) {
	var created *model.Job
	jobRepo := &mockJobRepo{
		createFn: func(ctx context.Context, job *model.Job) error {
			created = job
			return nil
		},
	}

	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	job, err := svc.Create(context.Background(), CreateInput{
		Title:       "  浴室のタイル張替え  ",
		Description: "既存タイルの撤去と張替え",
		Location:    "横浜市",
		Budget:      "50000",
		CreatedBy:   "client-1",
		Skills:      []string{"tiling", " ", "plumbing"},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if created == nil {
		t.Fatal("expected job to be persisted")
	}
	if job.Status != model.JobStatusOpen {
		t.Errorf("Status = %q, want open", job.Status)
	}
	if job.Title != "浴室のタイル張替え" {
		t.Errorf("Title = %q, want trimmed title", job.Title)
	}
	if job.ClosedAt != nil || job.CloseRequestedBy != nil {
		t.Error("new job must have no close state")
	}
	if len(job.Skills) != 2 {
		t.Errorf("Skills = %v, want empty entries dropped", job.Skills)
	}
	if job.ID == "" {
		t.Error("expected generated ID")
	}
}

// 緯度・経度の範囲外がそれぞれ独立に検出されることを検証
func TestService_Create_InvalidCoordinates(t *testing.T) {
	svc := NewService(&mockJobRepo{}, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	tests := []struct {
		name string
		lat  *float64
		lng  *float64
	}{
		{"緯度が範囲外", ptrFloat(91), ptrFloat(139.7)},
		{"緯度が下限未満", ptrFloat(-90.5), nil},
		{"経度が範囲外", ptrFloat(35.6), ptrFloat(180.1)},
		{"経度が下限未満", nil, ptrFloat(-181)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), CreateInput{
				Title:     "test",
				Budget:    "100",
				CreatedBy: "client-1",
				Latitude:  tt.lat,
				Longitude: tt.lng,
			})
			assertAPIErrorCode(t, err, model.ErrCodeInvalidCoordinates)
		})
	}
}

// 境界値の座標が許可されることを検証
func TestService_Create_BoundaryCoordinates(t *testing.T) {
	jobRepo := &mockJobRepo{
		createFn: func(ctx context.Context, job *model.Job) error { return nil },
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	_, err := svc.Create(context.Background(), CreateInput{
		Title:     "test",
		Budget:    "100",
		CreatedBy: "client-1",
		Latitude:  ptrFloat(-90),
		Longitude: ptrFloat(180),
	})
	if err != nil {
		t.Fatalf("boundary coordinates should be accepted: %v", err)
	}
}

// 危険なメディアURLが拒否されることを検証
func TestService_Create_InvalidMediaURL(t *testing.T) {
	svc := NewService(&mockJobRepo{}, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, denyAllGuard{}, nil)

	_, err := svc.Create(context.Background(), CreateInput{
		Title:     "test",
		Budget:    "100",
		CreatedBy: "client-1",
		Images:    []string{"http://169.254.169.254/latest/meta-data"},
	})
	assertAPIErrorCode(t, err, model.ErrCodeInvalidMediaURL)
}

// 存在しない作成者での作成が失敗することを検証
func TestService_Create_UnknownCreator(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}
	svc := NewService(&mockJobRepo{}, &mockOfferRepo{}, userRepo, passthroughSanitizer{}, allowAllGuard{}, nil)

	_, err := svc.Create(context.Background(), CreateInput{
		Title:     "test",
		Budget:    "100",
		CreatedBy: "ghost",
	})
	assertAPIErrorCode(t, err, model.ErrCodeUserNotFound)
}

// --- Update ---

// 部分更新で指定フィールドのみが変更されることを検証
func TestService_Update_PartialFields(t *testing.T) {
	existing := &model.Job{
		ID:        "job-1",
		Title:     "元のタイトル",
		Budget:    "100",
		Status:    model.JobStatusOpen,
		CreatedBy: "client-1",
	}
	var saved *model.Job
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			copied := *existing
			return &copied, nil
		},
		updateFn: func(ctx context.Context, job *model.Job) error {
			saved = job
			return nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	update := model.JobUpdate{
		Budget: model.Field[string]{Set: true, Valid: true, Value: "150"},
	}
	job, err := svc.Update(context.Background(), "job-1", "client-1", update)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if job.Budget != "150" {
		t.Errorf("Budget = %q, want 150", job.Budget)
	}
	if job.Title != "元のタイトル" {
		t.Errorf("Title = %q, should be untouched", job.Title)
	}
	if saved == nil {
		t.Fatal("expected update to be persisted")
	}
}

// nullが指定されたクリア可能フィールドがクリアされることを検証
func TestService_Update_NullClearsVideo(t *testing.T) {
	video := "https://media.example.com/v.mp4"
	existing := &model.Job{
		ID:        "job-1",
		Title:     "test",
		Video:     &video,
		Latitude:  ptrFloat(35.6),
		Longitude: ptrFloat(139.7),
		Status:    model.JobStatusOpen,
		CreatedBy: "client-1",
	}
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			copied := *existing
			return &copied, nil
		},
		updateFn: func(ctx context.Context, job *model.Job) error { return nil },
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	update := model.JobUpdate{
		Video:     model.Field[string]{Set: true, Valid: false},
		Latitude:  model.Field[float64]{Set: true, Valid: false},
		Longitude: model.Field[float64]{Set: true, Valid: false},
	}
	job, err := svc.Update(context.Background(), "job-1", "client-1", update)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if job.Video != nil {
		t.Error("Video should be cleared")
	}
	if job.Latitude != nil || job.Longitude != nil {
		t.Error("coordinates should be cleared")
	}
	if job.Title != "test" {
		t.Error("Title should be untouched")
	}
}

// クリア不能フィールドへのnullがバリデーションエラーとなることを検証
func TestService_Update_NullTitleRejected(t *testing.T) {
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			return &model.Job{ID: id, Title: "test", CreatedBy: "client-1"}, nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	update := model.JobUpdate{
		Title: model.Field[string]{Set: true, Valid: false},
	}
	_, err := svc.Update(context.Background(), "job-1", "client-1", update)
	assertAPIErrorCode(t, err, model.ErrCodeInvalidRequest)
}

// 作成者以外の更新が拒否されることを検証
func TestService_Update_Forbidden(t *testing.T) {
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			return &model.Job{ID: id, CreatedBy: "client-1"}, nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	_, err := svc.Update(context.Background(), "job-1", "intruder", model.JobUpdate{})
	assertAPIErrorCode(t, err, model.ErrCodeForbidden)
}

// 存在しない仕事の更新がNotFoundとなることを検証
func TestService_Update_NotFound(t *testing.T) {
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			return nil, nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	_, err := svc.Update(context.Background(), "missing", "client-1", model.JobUpdate{})
	assertAPIErrorCode(t, err, model.ErrCodeJobNotFound)
}

// --- Delete ---

// 作成者による削除が成功することを検証
func TestService_Delete(t *testing.T) {
	deleted := false
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			return &model.Job{ID: id, CreatedBy: "client-1"}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	if err := svc.Delete(context.Background(), "job-1", "client-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !deleted {
		t.Error("expected job deletion")
	}
}

// 作成者以外の削除が拒否されることを検証
func TestService_Delete_Forbidden(t *testing.T) {
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			return &model.Job{ID: id, CreatedBy: "client-1"}, nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	err := svc.Delete(context.Background(), "job-1", "intruder")
	assertAPIErrorCode(t, err, model.ErrCodeForbidden)
}

// --- RequestClose ---

// 採用された職人による完了申請が成功することを検証
func TestService_RequestClose(t *testing.T) {
	var savedRequestedBy *string
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			return &model.Job{ID: id, Status: model.JobStatusReserved, CreatedBy: "client-1"}, nil
		},
		updateCloseRequestFn: func(ctx context.Context, jobID string, requestedBy *string) error {
			savedRequestedBy = requestedBy
			return nil
		},
	}
	offerRepo := &mockOfferRepo{
		findAcceptedByJobFn: func(ctx context.Context, jobID string) (*model.Offer, error) {
			return &model.Offer{ID: "offer-1", JobID: jobID, UserID: "labour-1", Status: model.OfferStatusAccepted}, nil
		},
	}
	svc := NewService(jobRepo, offerRepo, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	job, err := svc.RequestClose(context.Background(), "job-1", "labour-1")
	if err != nil {
		t.Fatalf("RequestClose returned error: %v", err)
	}
	if job.CloseRequestedBy == nil || *job.CloseRequestedBy != model.CloseRequestedByLabour {
		t.Errorf("CloseRequestedBy = %v, want labour", job.CloseRequestedBy)
	}
	if savedRequestedBy == nil || *savedRequestedBy != model.CloseRequestedByLabour {
		t.Error("close request was not persisted")
	}
}

// reserved以外の仕事への完了申請が拒否されることを検証
func TestService_RequestClose_NotReserved(t *testing.T) {
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			return &model.Job{ID: id, Status: model.JobStatusOpen, CreatedBy: "client-1"}, nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	_, err := svc.RequestClose(context.Background(), "job-1", "labour-1")
	assertAPIErrorCode(t, err, model.ErrCodeInvalidJobStatus)
}

// acceptedオファーの保有者以外の完了申請が拒否されることを検証
// 仕事がreservedであっても権限は採用者に限られる
func TestService_RequestClose_NotAcceptedBidder(t *testing.T) {
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			return &model.Job{ID: id, Status: model.JobStatusReserved, CreatedBy: "client-1"}, nil
		},
	}
	offerRepo := &mockOfferRepo{
		findAcceptedByJobFn: func(ctx context.Context, jobID string) (*model.Offer, error) {
			return &model.Offer{ID: "offer-1", JobID: jobID, UserID: "labour-1", Status: model.OfferStatusAccepted}, nil
		},
	}
	svc := NewService(jobRepo, offerRepo, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	_, err := svc.RequestClose(context.Background(), "job-1", "labour-2")
	assertAPIErrorCode(t, err, model.ErrCodeForbidden)
}

// --- Close ---

// 作成者による完了確定が成功することを検証
func TestService_Close(t *testing.T) {
	closed := false
	now := time.Now()
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			if closed {
				return &model.Job{ID: id, Status: model.JobStatusClosed, ClosedAt: &now, CreatedBy: "client-1"}, nil
			}
			requestedBy := model.CloseRequestedByLabour
			return &model.Job{ID: id, Status: model.JobStatusReserved, CloseRequestedBy: &requestedBy, CreatedBy: "client-1"}, nil
		},
		closeFn: func(ctx context.Context, jobID string) error {
			closed = true
			return nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	job, err := svc.Close(context.Background(), "job-1", "client-1")
	if err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if job.Status != model.JobStatusClosed {
		t.Errorf("Status = %q, want closed", job.Status)
	}
	if job.ClosedAt == nil {
		t.Error("ClosedAt should be set")
	}
	if job.CloseRequestedBy != nil {
		t.Error("CloseRequestedBy should be cleared")
	}
}

// reserved以外の仕事の完了確定が拒否されることを検証
func TestService_Close_NotReserved(t *testing.T) {
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			return &model.Job{ID: id, Status: model.JobStatusOpen, CreatedBy: "client-1"}, nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	_, err := svc.Close(context.Background(), "job-1", "client-1")
	assertAPIErrorCode(t, err, model.ErrCodeInvalidJobStatus)
}

// 作成者以外の完了確定が拒否されることを検証
func TestService_Close_Forbidden(t *testing.T) {
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			return &model.Job{ID: id, Status: model.JobStatusReserved, CreatedBy: "client-1"}, nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	_, err := svc.Close(context.Background(), "job-1", "labour-1")
	assertAPIErrorCode(t, err, model.ErrCodeForbidden)
}

// 作成者以外がreservedでない仕事を完了確定しようとした場合、
// 状態チェックが先に適用されることを検証
func TestService_Close_StatusCheckedBeforeOwnership(t *testing.T) {
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			return &model.Job{ID: id, Status: model.JobStatusOpen, CreatedBy: "client-1"}, nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	_, err := svc.Close(context.Background(), "job-1", "labour-1")
	assertAPIErrorCode(t, err, model.ErrCodeInvalidJobStatus)
}

// --- RejectCloseRequest ---

// 完了申請の却下がclose_requested_byのみを戻すことを検証
func TestService_RejectCloseRequest(t *testing.T) {
	var savedRequestedBy *string
	set := true
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			requestedBy := model.CloseRequestedByLabour
			return &model.Job{ID: id, Status: model.JobStatusReserved, CloseRequestedBy: &requestedBy, CreatedBy: "client-1"}, nil
		},
		updateCloseRequestFn: func(ctx context.Context, jobID string, requestedBy *string) error {
			savedRequestedBy = requestedBy
			set = requestedBy != nil
			return nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	job, err := svc.RejectCloseRequest(context.Background(), "job-1", "client-1")
	if err != nil {
		t.Fatalf("RejectCloseRequest returned error: %v", err)
	}
	if job.CloseRequestedBy != nil {
		t.Error("CloseRequestedBy should be cleared")
	}
	if job.Status != model.JobStatusReserved {
		t.Errorf("Status = %q, should remain reserved", job.Status)
	}
	if set || savedRequestedBy != nil {
		t.Error("close request should be persisted as NULL")
	}
}

// --- 一覧 ---

// フィルタ適用済みの一覧が返ることを検証
func TestService_List_WithFilter(t *testing.T) {
	jobRepo := &mockJobRepo{
		listFn: func(ctx context.Context, status model.JobStatus) ([]*model.Job, error) {
			return []*model.Job{
				{ID: "job-1", Title: "配管修理", Budget: "100"},
				{ID: "job-2", Title: "壁の塗装", Budget: "300"},
			}, nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	max := 200.0
	jobs, err := svc.List(context.Background(), "", model.JobFilter{MaxBudget: &max})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "job-1" {
		t.Fatalf("expected only job-1, got %v", jobs)
	}
}

// 地図表示の一覧が座標設定済みの仕事に限られることを検証
func TestService_ListForMap(t *testing.T) {
	jobRepo := &mockJobRepo{
		listFn: func(ctx context.Context, status model.JobStatus) ([]*model.Job, error) {
			return []*model.Job{
				{ID: "job-1", Latitude: ptrFloat(35.6), Longitude: ptrFloat(139.7)},
				{ID: "job-2", Latitude: ptrFloat(35.6)},
				{ID: "job-3"},
			}, nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	jobs, err := svc.ListForMap(context.Background(), "", model.JobFilter{})
	if err != nil {
		t.Fatalf("ListForMap returned error: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "job-1" {
		t.Fatalf("expected only the fully-located job, got %v", jobs)
	}
}

// 作成分・受注分に分かれたユーザーの仕事一覧を検証
func TestService_ListByUser(t *testing.T) {
	jobRepo := &mockJobRepo{
		listByCreatorFn: func(ctx context.Context, userID string) ([]*model.Job, error) {
			return []*model.Job{{ID: "created-1"}}, nil
		},
		listByAcceptedBidderFn: func(ctx context.Context, userID string) ([]*model.Job, error) {
			return []*model.Job{{ID: "working-1"}, {ID: "working-2"}}, nil
		},
	}
	svc := NewService(jobRepo, &mockOfferRepo{}, existingUserRepo(), passthroughSanitizer{}, allowAllGuard{}, nil)

	result, err := svc.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(result.Created) != 1 {
		t.Errorf("Created = %d jobs, want 1", len(result.Created))
	}
	if len(result.WorkingOn) != 2 {
		t.Errorf("WorkingOn = %d jobs, want 2", len(result.WorkingOn))
	}
}
