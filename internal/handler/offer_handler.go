package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/shigotoba/internal/model"
	"github.com/hitoshi/shigotoba/internal/offer"
)

// OfferServiceInterface はオファーハンドラーが必要とするサービスインターフェース。
type OfferServiceInterface interface {
	Create(ctx context.Context, input offer.CreateInput) (*model.Offer, error)
	ListByJob(ctx context.Context, jobID string) ([]model.OfferWithBidder, error)
	Accept(ctx context.Context, offerID, callerID string) (*model.Offer, error)
	Reject(ctx context.Context, offerID, callerID string) (*model.Offer, error)
}

// OfferHandler はオファー管理のHTTPハンドラー。
type OfferHandler struct {
	service OfferServiceInterface
}

// NewOfferHandler はOfferHandlerを生成する。
func NewOfferHandler(service OfferServiceInterface) *OfferHandler {
	return &OfferHandler{service: service}
}

// createOfferRequest はオファー作成リクエストのボディ。
type createOfferRequest struct {
	UserID        string `json:"userId"`
	ProposedPrice string `json:"proposedPrice"`
	Message       string `json:"message"`
}

// offerResponse はオファー情報のAPIレスポンス。
type offerResponse struct {
	ID            string    `json:"id"`
	JobID         string    `json:"jobId"`
	UserID        string    `json:"userId"`
	ProposedPrice string    `json:"proposedPrice"`
	Message       string    `json:"message"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// offerWithBidderResponse は入札者情報付きのオファーレスポンス。
type offerWithBidderResponse struct {
	offerResponse
	BidderName      string   `json:"bidderName"`
	BidderAvatarURL string   `json:"bidderAvatarUrl"`
	BidderSkills    []string `json:"bidderSkills"`
}

// toOfferResponse はmodel.OfferからAPIレスポンスに変換する。
func toOfferResponse(o *model.Offer) offerResponse {
	return offerResponse{
		ID:            o.ID,
		JobID:         o.JobID,
		UserID:        o.UserID,
		ProposedPrice: o.ProposedPrice,
		Message:       o.Message,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
}

// CreateOffer はオファー作成を処理する。
// POST /jobs/:id/offers
func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	var req createOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	userID := req.UserID
	if userID == "" {
		// ボディ省略時はヘッダの呼び出し元IDを使用
		if headerID, err := callerIDFrom(r); err == nil {
			userID = headerID
		}
	}
	if userID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("userIdは必須です"))
		return
	}

	created, err := h.service.Create(r.Context(), offer.CreateInput{
		JobID:         jobID,
		UserID:        userID,
		ProposedPrice: req.ProposedPrice,
		Message:       req.Message,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOfferResponse(created))
}

// ListOffers は仕事のオファー一覧を入札者情報付きで取得する。
// GET /jobs/:id/offers
func (h *OfferHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	offers, err := h.service.ListByJob(r.Context(), jobID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]offerWithBidderResponse, 0, len(offers))
	for _, o := range offers {
		skills := o.BidderSkills
		if skills == nil {
			skills = []string{}
		}
		out = append(out, offerWithBidderResponse{
			offerResponse:   toOfferResponse(&o.Offer),
			BidderName:      o.BidderName,
			BidderAvatarURL: o.BidderAvatarURL,
			BidderSkills:    skills,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// AcceptOffer はオファーの採用を処理する。仕事の作成者のみが実行できる。
// POST /offers/:id/accept
func (h *OfferHandler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	offerID := chi.URLParam(r, "id")

	callerID, ok := requireCallerID(w, r)
	if !ok {
		return
	}

	accepted, err := h.service.Accept(r.Context(), offerID, callerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOfferResponse(accepted))
}

// RejectOffer はオファーの不採用を処理する。仕事の作成者のみが実行できる。
// POST /offers/:id/reject
func (h *OfferHandler) RejectOffer(w http.ResponseWriter, r *http.Request) {
	offerID := chi.URLParam(r, "id")

	callerID, ok := requireCallerID(w, r)
	if !ok {
		return
	}

	rejected, err := h.service.Reject(r.Context(), offerID, callerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOfferResponse(rejected))
}
