package handlers

import (
	"ClipSync/internal/config"
	"ClipSync/internal/middleware"
	"ClipSync/internal/ratelimit"
	"ClipSync/internal/service"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	Router  chi.Router
	Limiter *ratelimit.KeyedLimiter
}

// NewHandler разводящий для хендлеров
func NewHandler(
	clipService *service.ClipService,
	deviceService *service.DeviceService,
	telemetry *service.TelemetryService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"chrome-extension://*", "moz-extension://*", "http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	burst := int(config.RateLimitRPS * 2)
	limiter := ratelimit.New(config.RateLimitRPS, burst, 10*time.Minute)
	limited := middleware.WithRateLimit(limiter)

	// Handlers
	healthHandler := NewHealthHandler(time.Now())
	clipHandler := NewClipHandler(clipService, logger, config)
	deviceHandler := NewDeviceHandler(deviceService, logger, config)
	telemetryHandler := NewTelemetryHandler(telemetry, logger)

	r.Get("/health", healthHandler.Health)

	// Clip routes
	r.Route("/api/clips", func(r chi.Router) {
		if deviceService.Protected() {
			r.Use(requireDevice)
		}
		r.Post("/", clipHandler.Create)
		r.Post("/batch", clipHandler.Batch)
		r.Get("/", clipHandler.List)
		r.Get("/stats/summary", clipHandler.Stats)
		r.Get("/{id}", clipHandler.Get)
		r.Put("/{id}", clipHandler.Update)
		r.Delete("/{id}", clipHandler.Delete)
	})

	// Device routes
	r.With(limited).Post("/api/devices/register", deviceHandler.Register)

	// Telemetry routes
	r.Route("/api/telemetry", func(r chi.Router) {
		r.Use(limited)
		r.Post("/clip-saved", telemetryHandler.ClipSaved)
		r.Post("/error", telemetryHandler.Error)
		r.Post("/heartbeat", telemetryHandler.Heartbeat)
		r.Post("/batch", telemetryHandler.Batch)
		r.Get("/stats", telemetryHandler.Stats)
	})

	return &Handler{Router: r, Limiter: limiter}
}

// requireDevice пропускает только запросы с валидным токеном устройства.
func requireDevice(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetDeviceIDFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "device is not registered")
			return
		}
		next.ServeHTTP(w, r)
	})
}
