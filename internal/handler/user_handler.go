package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/shigotoba/internal/model"
	"github.com/hitoshi/shigotoba/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	SignUp(ctx context.Context, input user.SignUpInput) (*model.User, error)
	SignIn(ctx context.Context, name, email string) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	UpdateProfile(ctx context.Context, userID, callerID string, update model.UserUpdate) (*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// signUpRequest はユーザー登録リクエストのボディ。
type signUpRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// signInRequest はサインインリクエストのボディ。
type signInRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// updateProfileRequest はプロフィールの部分更新リクエストのボディ。
type updateProfileRequest struct {
	Name              model.Field[string]   `json:"name"`
	AvatarURL         model.Field[string]   `json:"avatarUrl"`
	Location          model.Field[string]   `json:"location"`
	Bio               model.Field[string]   `json:"bio"`
	Skills            model.Field[[]string] `json:"skills"`
	YearsOfExperience model.Field[int]      `json:"yearsOfExperience"`
	CompanyName       model.Field[string]   `json:"companyName"`
}

// toUserUpdate はリクエストボディをチェンジセットに変換する。
func (req *updateProfileRequest) toUserUpdate() model.UserUpdate {
	return model.UserUpdate{
		Name:              req.Name,
		AvatarURL:         req.AvatarURL,
		Location:          req.Location,
		Bio:               req.Bio,
		Skills:            req.Skills,
		YearsOfExperience: req.YearsOfExperience,
		CompanyName:       req.CompanyName,
	}
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	AvatarURL         string    `json:"avatarUrl"`
	Location          string    `json:"location"`
	Bio               string    `json:"bio"`
	Skills            []string  `json:"skills"`
	YearsOfExperience int       `json:"yearsOfExperience"`
	CompanyName       string    `json:"companyName"`
	ProfileCompleted  bool      `json:"profileCompleted"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(u *model.User) userResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return userResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              string(u.Role),
		AvatarURL:         u.AvatarURL,
		Location:          u.Location,
		Bio:               u.Bio,
		Skills:            skills,
		YearsOfExperience: u.YearsOfExperience,
		CompanyName:       u.CompanyName,
		ProfileCompleted:  u.ProfileCompleted,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// SignUp はユーザー登録を処理する。
// POST /users
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	created, err := h.service.SignUp(r.Context(), user.SignUpInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(created))
}

// SignIn は名前とメールアドレスの照合によるサインインを処理する。
// POST /users/sign-in
func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	u, err := h.service.SignIn(r.Context(), req.Name, req.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// ListUsers は全ユーザー一覧を取得する。
// GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}

	writeJSON(w, http.StatusOK, out)
}

// GetUser はユーザー詳細を取得する。
// GET /users/:id
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	u, err := h.service.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// UpdateProfile はプロフィールの部分更新を処理する。本人のみが実行できる。
// PUT /users/:id
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	callerID, ok := requireCallerID(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), userID, callerID, req.toUserUpdate())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}
