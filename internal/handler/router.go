package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/shigotoba/internal/metrics"
	"github.com/hitoshi/shigotoba/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// メトリクス公開と記録
	MetricsGatherer prometheus.Gatherer
	MetricsRecorder middleware.HTTPMetricsRecorder

	// ドメインサービス
	JobService          JobServiceInterface
	OfferService        OfferServiceInterface
	UserService         UserServiceInterface
	NotificationService NotificationServiceInterface
	MediaUploader       MediaUploaderInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Identity → Logging → Metrics → RateLimit(General)
//
// /healthと/metricsはレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewIdentityMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}

	jobHandler := NewJobHandler(deps.JobService)
	offerHandler := NewOfferHandler(deps.OfferService)
	userHandler := NewUserHandler(deps.UserService)
	notificationHandler := NewNotificationHandler(deps.NotificationService)
	uploadHandler := NewUploadHandler(deps.MediaUploader)

	// --- 運用ルート（レート制限の外） ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- APIルート ---

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 仕事管理
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jobHandler.ListJobs)
			r.Get("/map", jobHandler.ListJobsForMap)

			// POST /jobs - 仕事作成（作成専用レート制限を追加）
			r.With(deps.RateLimiter.JobCreationMiddleware()).Post("/", jobHandler.CreateJob)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", jobHandler.GetJob)
				r.Put("/", jobHandler.UpdateJob)
				r.Delete("/", jobHandler.DeleteJob)

				// 完了フロー
				r.Post("/request-close", jobHandler.RequestClose)
				r.Post("/close", jobHandler.CloseJob)
				r.Post("/reject-close", jobHandler.RejectClose)

				// オファー
				r.Post("/offers", offerHandler.CreateOffer)
				r.Get("/offers", offerHandler.ListOffers)
			})
		})

		// オファーの決定
		r.Route("/offers/{id}", func(r chi.Router) {
			r.Post("/accept", offerHandler.AcceptOffer)
			r.Post("/reject", offerHandler.RejectOffer)
		})

		// ユーザー管理
		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.SignUp)
			r.Post("/sign-in", userHandler.SignIn)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)
				r.Put("/", userHandler.UpdateProfile)
				r.Get("/jobs", jobHandler.ListUserJobs)
				r.Get("/notifications", notificationHandler.ListNotifications)
				r.Post("/notifications/read-all", notificationHandler.MarkAllRead)
			})
		})

		// 通知の既読化
		r.Post("/notifications/{id}/read", notificationHandler.MarkRead)

		// メディアアップロード
		r.Post("/upload", uploadHandler.Upload)
	})

	return r
}
