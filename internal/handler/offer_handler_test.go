package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/shigotoba/internal/model"
	"github.com/hitoshi/shigotoba/internal/offer"
)

// mockOfferService はOfferServiceInterfaceのモック実装。
type mockOfferService struct {
	createFn    func(ctx context.Context, input offer.CreateInput) (*model.Offer, error)
	listByJobFn func(ctx context.Context, jobID string) ([]model.OfferWithBidder, error)
	acceptFn    func(ctx context.Context, offerID, callerID string) (*model.Offer, error)
	rejectFn    func(ctx context.Context, offerID, callerID string) (*model.Offer, error)
}

func (m *mockOfferService) Create(ctx context.Context, input offer.CreateInput) (*model.Offer, error) {
	if m.createFn != nil {
		return m.createFn(ctx, input)
	}
	return nil, nil
}

func (m *mockOfferService) ListByJob(ctx context.Context, jobID string) ([]model.OfferWithBidder, error) {
	if m.listByJobFn != nil {
		return m.listByJobFn(ctx, jobID)
	}
	return nil, nil
}

func (m *mockOfferService) Accept(ctx context.Context, offerID, callerID string) (*model.Offer, error) {
	if m.acceptFn != nil {
		return m.acceptFn(ctx, offerID, callerID)
	}
	return nil, nil
}

func (m *mockOfferService) Reject(ctx context.Context, offerID, callerID string) (*model.Offer, error) {
	if m.rejectFn != nil {
		return m.rejectFn(ctx, offerID, callerID)
	}
	return nil, nil
}

// --- POST /jobs/{id}/offers テスト ---

func TestOfferHandler_CreateOffer_Success(t *testing.T) {
	svc := &mockOfferService{
		createFn: func(ctx context.Context, input offer.CreateInput) (*model.Offer, error) {
			if input.JobID != "job-1" {
				t.Errorf("JobID = %q, want job-1", input.JobID)
			}
			if input.UserID != "labour-1" {
				t.Errorf("UserID = %q, want labour-1", input.UserID)
			}
			return &model.Offer{
				ID:            "offer-1",
				JobID:         input.JobID,
				UserID:        input.UserID,
				ProposedPrice: input.ProposedPrice,
				Message:       input.Message,
				Status:        model.OfferStatusPending,
			}, nil
		},
	}
	h := NewOfferHandler(svc)

	body, _ := json.Marshal(map[string]any{
		"userId":        "labour-1",
		"proposedPrice": "45000",
		"message":       "ぜひやらせてください",
	})
	req := httptest.NewRequest(http.MethodPost, "/jobs/job-1/offers", bytes.NewReader(body))
	req = withChiURLParam(req, "id", "job-1")
	w := httptest.NewRecorder()

	h.CreateOffer(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	var resp offerResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "pending" {
		t.Errorf("Status = %q, want pending", resp.Status)
	}
}

func TestOfferHandler_CreateOffer_BidderFromHeader(t *testing.T) {
	svc := &mockOfferService{
		createFn: func(ctx context.Context, input offer.CreateInput) (*model.Offer, error) {
			if input.UserID != "labour-2" {
				t.Errorf("UserID = %q, want labour-2 from header", input.UserID)
			}
			return &model.Offer{ID: "offer-1", JobID: input.JobID, UserID: input.UserID, Status: model.OfferStatusPending}, nil
		},
	}
	h := NewOfferHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/jobs/job-1/offers", bytes.NewReader([]byte(`{"proposedPrice":"100"}`)))
	req = withChiURLParam(req, "id", "job-1")
	req = withCallerID(req, "labour-2")
	w := httptest.NewRecorder()

	h.CreateOffer(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
}

func TestOfferHandler_CreateOffer_MissingBidder(t *testing.T) {
	h := NewOfferHandler(&mockOfferService{})

	req := httptest.NewRequest(http.MethodPost, "/jobs/job-1/offers", bytes.NewReader([]byte(`{}`)))
	req = withChiURLParam(req, "id", "job-1")
	w := httptest.NewRecorder()

	h.CreateOffer(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestOfferHandler_CreateOffer_OwnJob(t *testing.T) {
	svc := &mockOfferService{
		createFn: func(ctx context.Context, input offer.CreateInput) (*model.Offer, error) {
			return nil, model.NewOwnJobOfferError()
		},
	}
	h := NewOfferHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/jobs/job-1/offers", bytes.NewReader([]byte(`{"userId":"client-1"}`)))
	req = withChiURLParam(req, "id", "job-1")
	w := httptest.NewRecorder()

	h.CreateOffer(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := parseAPIErrorResponse(t, w)
	if resp["code"] != model.ErrCodeOwnJobOffer {
		t.Errorf("code = %q, want OWN_JOB_OFFER", resp["code"])
	}
}

func TestOfferHandler_CreateOffer_Duplicate(t *testing.T) {
	svc := &mockOfferService{
		createFn: func(ctx context.Context, input offer.CreateInput) (*model.Offer, error) {
			return nil, model.NewDuplicateOfferError()
		},
	}
	h := NewOfferHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/jobs/job-1/offers", bytes.NewReader([]byte(`{"userId":"labour-1"}`)))
	req = withChiURLParam(req, "id", "job-1")
	w := httptest.NewRecorder()

	h.CreateOffer(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

// --- GET /jobs/{id}/offers テスト ---

func TestOfferHandler_ListOffers_WithBidders(t *testing.T) {
	svc := &mockOfferService{
		listByJobFn: func(ctx context.Context, jobID string) ([]model.OfferWithBidder, error) {
			return []model.OfferWithBidder{
				{
					Offer:           model.Offer{ID: "offer-1", JobID: jobID, UserID: "labour-1", Status: model.OfferStatusPending},
					BidderName:      "山田太郎",
					BidderAvatarURL: "https://example.com/avatar.png",
					BidderSkills:    []string{"Plumbing"},
				},
			}, nil
		},
	}
	h := NewOfferHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/jobs/job-1/offers", nil)
	req = withChiURLParam(req, "id", "job-1")
	w := httptest.NewRecorder()

	h.ListOffers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp []offerWithBidderResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].BidderName != "山田太郎" {
		t.Errorf("unexpected payload: %+v", resp)
	}
}

func TestOfferHandler_ListOffers_JobNotFound(t *testing.T) {
	svc := &mockOfferService{
		listByJobFn: func(ctx context.Context, jobID string) ([]model.OfferWithBidder, error) {
			return nil, model.NewJobNotFoundError(jobID)
		},
	}
	h := NewOfferHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/jobs/missing/offers", nil)
	req = withChiURLParam(req, "id", "missing")
	w := httptest.NewRecorder()

	h.ListOffers(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

// --- POST /offers/{id}/accept テスト ---

func TestOfferHandler_AcceptOffer_Success(t *testing.T) {
	svc := &mockOfferService{
		acceptFn: func(ctx context.Context, offerID, callerID string) (*model.Offer, error) {
			if callerID != "client-1" {
				t.Errorf("callerID = %q, want client-1", callerID)
			}
			return &model.Offer{ID: offerID, Status: model.OfferStatusAccepted}, nil
		},
	}
	h := NewOfferHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/offers/offer-1/accept", nil)
	req = withChiURLParam(req, "id", "offer-1")
	req = withCallerID(req, "client-1")
	w := httptest.NewRecorder()

	h.AcceptOffer(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp offerResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "accepted" {
		t.Errorf("Status = %q, want accepted", resp.Status)
	}
}

func TestOfferHandler_AcceptOffer_MissingCaller(t *testing.T) {
	h := NewOfferHandler(&mockOfferService{})

	req := httptest.NewRequest(http.MethodPost, "/offers/offer-1/accept", nil)
	req = withChiURLParam(req, "id", "offer-1")
	w := httptest.NewRecorder()

	h.AcceptOffer(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestOfferHandler_AcceptOffer_BadState(t *testing.T) {
	svc := &mockOfferService{
		acceptFn: func(ctx context.Context, offerID, callerID string) (*model.Offer, error) {
			return nil, model.NewInvalidOfferStatusError(model.OfferStatusRejected)
		},
	}
	h := NewOfferHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/offers/offer-1/accept", nil)
	req = withChiURLParam(req, "id", "offer-1")
	req = withCallerID(req, "client-1")
	w := httptest.NewRecorder()

	h.AcceptOffer(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := parseAPIErrorResponse(t, w)
	if resp["code"] != model.ErrCodeInvalidOfferStatus {
		t.Errorf("code = %q, want INVALID_OFFER_STATUS", resp["code"])
	}
}

// --- POST /offers/{id}/reject テスト ---

func TestOfferHandler_RejectOffer_Success(t *testing.T) {
	svc := &mockOfferService{
		rejectFn: func(ctx context.Context, offerID, callerID string) (*model.Offer, error) {
			return &model.Offer{ID: offerID, Status: model.OfferStatusRejected}, nil
		},
	}
	h := NewOfferHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/offers/offer-1/reject", nil)
	req = withChiURLParam(req, "id", "offer-1")
	req = withCallerID(req, "client-1")
	w := httptest.NewRecorder()

	h.RejectOffer(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestOfferHandler_RejectOffer_Forbidden(t *testing.T) {
	svc := &mockOfferService{
		rejectFn: func(ctx context.Context, offerID, callerID string) (*model.Offer, error) {
			return nil, model.NewForbiddenError()
		},
	}
	h := NewOfferHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/offers/offer-1/reject", nil)
	req = withChiURLParam(req, "id", "offer-1")
	req = withCallerID(req, "intruder")
	w := httptest.NewRecorder()

	h.RejectOffer(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}
