package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/shigotoba/internal/model"
	"github.com/hitoshi/shigotoba/internal/notification"
)

// NotificationServiceInterface は通知ハンドラーが必要とするサービスインターフェース。
type NotificationServiceInterface interface {
	ListForUser(ctx context.Context, userID string) (*notification.ListResult, error)
	MarkRead(ctx context.Context, notificationID, callerID string) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (*notification.ListResult, error)
}

// NotificationHandler は通知のHTTPハンドラー。
type NotificationHandler struct {
	service NotificationServiceInterface
}

// NewNotificationHandler はNotificationHandlerを生成する。
func NewNotificationHandler(service NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// notificationResponse は通知1件のAPIレスポンス。
type notificationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	JobID     *string   `json:"jobId,omitempty"`
	OfferID   *string   `json:"offerId,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// notificationListResponse は通知一覧と未読数のAPIレスポンス。
type notificationListResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

// toNotificationResponse はmodel.NotificationからAPIレスポンスに変換する。
func toNotificationResponse(n *model.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		JobID:     n.JobID,
		OfferID:   n.OfferID,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// toNotificationListResponse は一覧結果をAPIレスポンスに変換する。
func toNotificationListResponse(result *notification.ListResult) notificationListResponse {
	out := make([]notificationResponse, 0, len(result.Notifications))
	for _, n := range result.Notifications {
		out = append(out, toNotificationResponse(n))
	}
	return notificationListResponse{
		Notifications: out,
		UnreadCount:   result.UnreadCount,
	}
}

// ListNotifications はユーザーの通知一覧を未読数付きで取得する。
// GET /users/:id/notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	result, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNotificationListResponse(result))
}

// MarkRead は通知の既読化を処理する。所有者のみが実行できる。
// POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID := chi.URLParam(r, "id")

	callerID, ok := requireCallerID(w, r)
	if !ok {
		return
	}

	n, err := h.service.MarkRead(r.Context(), notificationID, callerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNotificationResponse(n))
}

// MarkAllRead はユーザーの全通知の一括既読化を処理する。
// POST /users/:id/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	result, err := h.service.MarkAllRead(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNotificationListResponse(result))
}
