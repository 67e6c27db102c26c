package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/woodbine/internal/middleware"
	"github.com/hitoshi/woodbine/internal/repository"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	StatusObserver    middleware.StatusObserver

	// 運用
	Storage        repository.Pinger
	MetricsHandler http.Handler

	// ドメイン
	EventService   EventServiceInterface
	AlbumService   AlbumServiceInterface
	ProfileService ProfileServiceInterface
	QuestSessions  QuestSessionManager
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → RateLimit
//
// /healthと/metricsはレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(logger, deps.StatusObserver))

	healthHandler := NewHealthHandler(deps.Storage)
	eventHandler := NewEventHandler(deps.EventService)
	albumHandler := NewAlbumHandler(deps.AlbumService)
	profileHandler := NewProfileHandler(deps.ProfileService)
	questHandler := NewQuestHandler(deps.QuestSessions)

	// --- 運用エンドポイント ---
	r.Get("/health", healthHandler.Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- API ---
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		// イベント
		r.Route("/api/events", func(r chi.Router) {
			r.Get("/", eventHandler.ListEvents)
			r.Post("/", eventHandler.AddEvent)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", eventHandler.GetEvent)
				r.Post("/booking", eventHandler.BookEvent)
			})
		})

		// アルバム
		r.Route("/api/albums", func(r chi.Router) {
			r.Get("/", albumHandler.ListAlbums)
			r.Post("/", albumHandler.AddAlbum)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", albumHandler.GetAlbum)
				r.Post("/photos", albumHandler.AddPhoto)
			})
		})

		// プロフィール
		r.Route("/api/profile", func(r chi.Router) {
			r.Get("/", profileHandler.GetProfile)
			r.Put("/", profileHandler.UpdateProfile)
			r.Put("/avatar", profileHandler.UpdateAvatar)
			r.Post("/logout", profileHandler.Logout)
		})
		r.Delete("/api/storage", profileHandler.ClearStorage)

		// クエスト
		r.Get("/api/quests", questHandler.ListQuests)
		r.Route("/api/quest-sessions", func(r chi.Router) {
			r.Post("/", questHandler.CreateSession)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", questHandler.GetSession)
				r.Delete("/", questHandler.DeleteSession)
				r.Post("/select", questHandler.SelectQuest)
				r.Post("/answer", questHandler.SubmitAnswer)
				r.Post("/speed-tap", questHandler.StartSpeedTap)
				r.Post("/reset", questHandler.ResetSession)
			})
		})
	})

	return r
}
