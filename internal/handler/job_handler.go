package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/shigotoba/internal/job"
	"github.com/hitoshi/shigotoba/internal/model"
)

// JobServiceInterface は仕事ハンドラーが必要とするサービスインターフェース。
type JobServiceInterface interface {
	Create(ctx context.Context, input job.CreateInput) (*model.Job, error)
	Get(ctx context.Context, jobID string) (*model.Job, error)
	Update(ctx context.Context, jobID, callerID string, update model.JobUpdate) (*model.Job, error)
	Delete(ctx context.Context, jobID, callerID string) error
	RequestClose(ctx context.Context, jobID, callerID string) (*model.Job, error)
	Close(ctx context.Context, jobID, callerID string) (*model.Job, error)
	RejectCloseRequest(ctx context.Context, jobID, callerID string) (*model.Job, error)
	List(ctx context.Context, status model.JobStatus, filter model.JobFilter) ([]*model.Job, error)
	ListForMap(ctx context.Context, status model.JobStatus, filter model.JobFilter) ([]*model.Job, error)
	ListByUser(ctx context.Context, userID string) (*job.UserJobs, error)
}

// JobHandler は仕事管理のHTTPハンドラー。
type JobHandler struct {
	service JobServiceInterface
}

// NewJobHandler はJobHandlerを生成する。
func NewJobHandler(service JobServiceInterface) *JobHandler {
	return &JobHandler{service: service}
}

// createJobRequest は仕事作成リクエストのボディ。
type createJobRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Budget      string   `json:"budget"`
	Images      []string `json:"images"`
	Video       *string  `json:"video"`
	CreatedBy   string   `json:"createdBy"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Skills      []string `json:"skills"`
}

// updateJobRequest は仕事の部分更新リクエストのボディ。
// 省略されたフィールドは変更されず、nullはクリアを意味する。
type updateJobRequest struct {
	Title       model.Field[string]   `json:"title"`
	Description model.Field[string]   `json:"description"`
	Location    model.Field[string]   `json:"location"`
	Budget      model.Field[string]   `json:"budget"`
	Images      model.Field[[]string] `json:"images"`
	Video       model.Field[string]   `json:"video"`
	Latitude    model.Field[float64]  `json:"latitude"`
	Longitude   model.Field[float64]  `json:"longitude"`
	Skills      model.Field[[]string] `json:"skills"`
}

// toJobUpdate はリクエストボディをチェンジセットに変換する。
func (req *updateJobRequest) toJobUpdate() model.JobUpdate {
	return model.JobUpdate{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Budget:      req.Budget,
		Images:      req.Images,
		Video:       req.Video,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Skills:      req.Skills,
	}
}

// jobResponse は仕事情報のAPIレスポンス。
type jobResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	Budget           string     `json:"budget"`
	Images           []string   `json:"images"`
	Video            *string    `json:"video,omitempty"`
	Status           string     `json:"status"`
	CloseRequestedBy *string    `json:"closeRequestedBy,omitempty"`
	ClosedAt         *time.Time `json:"closedAt,omitempty"`
	CreatedBy        string     `json:"createdBy"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	Skills           []string   `json:"skills"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// jobMapResponse は地図表示用の最小ペイロード。
type jobMapResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Budget    string  `json:"budget"`
	Status    string  `json:"status"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// toJobResponse はmodel.JobからAPIレスポンスに変換する。
func toJobResponse(j *model.Job) jobResponse {
	images := j.Images
	if images == nil {
		images = []string{}
	}
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	return jobResponse{
		ID:               j.ID,
		Title:            j.Title,
		Description:      j.Description,
		Location:         j.Location,
		Budget:           j.Budget,
		Images:           images,
		Video:            j.Video,
		Status:           string(j.Status),
		CloseRequestedBy: j.CloseRequestedBy,
		ClosedAt:         j.ClosedAt,
		CreatedBy:        j.CreatedBy,
		Latitude:         j.Latitude,
		Longitude:        j.Longitude,
		Skills:           skills,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

// toJobResponses は仕事一覧をAPIレスポンスに変換する。
func toJobResponses(jobs []*model.Job) []jobResponse {
	out := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobResponse(j))
	}
	return out
}

// CreateJob は仕事作成を処理する。
// POST /jobs
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		// ボディ省略時はヘッダの呼び出し元IDを使用
		if headerID, err := callerIDFrom(r); err == nil {
			createdBy = headerID
		}
	}
	if createdBy == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("createdByは必須です"))
		return
	}

	created, err := h.service.Create(r.Context(), job.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Budget:      req.Budget,
		Images:      req.Images,
		Video:       req.Video,
		CreatedBy:   createdBy,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Skills:      req.Skills,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toJobResponse(created))
}

// ListJobs は仕事一覧を取得する。
// GET /jobs?status&minBudget&maxBudget&q&location&skills
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	status := job.ParseStatusFilter(r.URL.Query().Get("status"))
	filter := job.ParseJobFilter(r.URL.Query())

	jobs, err := h.service.List(r.Context(), status, filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponses(jobs))
}

// ListJobsForMap は地図表示用の仕事一覧を取得する。
// GET /jobs/map
func (h *JobHandler) ListJobsForMap(w http.ResponseWriter, r *http.Request) {
	status := job.ParseStatusFilter(r.URL.Query().Get("status"))
	filter := job.ParseJobFilter(r.URL.Query())

	jobs, err := h.service.ListForMap(r.Context(), status, filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]jobMapResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, jobMapResponse{
			ID:        j.ID,
			Title:     j.Title,
			Budget:    j.Budget,
			Status:    string(j.Status),
			Latitude:  *j.Latitude,
			Longitude: *j.Longitude,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// GetJob は仕事詳細を取得する。
// GET /jobs/:id
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	j, err := h.service.Get(r.Context(), jobID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(j))
}

// UpdateJob は仕事の部分更新を処理する。作成者のみが実行できる。
// PUT /jobs/:id
func (h *JobHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	callerID, ok := requireCallerID(w, r)
	if !ok {
		return
	}

	var req updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	updated, err := h.service.Update(r.Context(), jobID, callerID, req.toJobUpdate())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(updated))
}

// DeleteJob は仕事削除を処理する。作成者のみが実行できる。
// DELETE /jobs/:id
func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	callerID, ok := requireCallerID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), jobID, callerID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RequestClose は受注側からの完了申請を処理する。
// POST /jobs/:id/request-close
func (h *JobHandler) RequestClose(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	callerID, ok := requireCallerID(w, r)
	if !ok {
		return
	}

	j, err := h.service.RequestClose(r.Context(), jobID, callerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(j))
}

// CloseJob は仕事の完了確定を処理する。作成者のみが実行できる。
// POST /jobs/:id/close
func (h *JobHandler) CloseJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	callerID, ok := requireCallerID(w, r)
	if !ok {
		return
	}

	j, err := h.service.Close(r.Context(), jobID, callerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(j))
}

// RejectClose は完了申請の却下を処理する。作成者のみが実行できる。
// POST /jobs/:id/reject-close
func (h *JobHandler) RejectClose(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	callerID, ok := requireCallerID(w, r)
	if !ok {
		return
	}

	j, err := h.service.RejectCloseRequest(r.Context(), jobID, callerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(j))
}

// ListUserJobs はユーザーの仕事一覧（作成分・受注分）を取得する。
// GET /users/:id/jobs
func (h *JobHandler) ListUserJobs(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	result, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]jobResponse{
		"created":   toJobResponses(result.Created),
		"workingOn": toJobResponses(result.WorkingOn),
	})
}
