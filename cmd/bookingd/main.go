package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nayan-ray/bookingd/internal/booking"
	"github.com/nayan-ray/bookingd/internal/captcha"
	"github.com/nayan-ray/bookingd/internal/console"
	"github.com/nayan-ray/bookingd/internal/handlers"
	"github.com/nayan-ray/bookingd/internal/mailer"
	"github.com/nayan-ray/bookingd/internal/nonce"
	"github.com/nayan-ray/bookingd/internal/settings"
	"github.com/nayan-ray/bookingd/internal/storage"
	"github.com/nayan-ray/bookingd/libs/config"
	"github.com/nayan-ray/bookingd/libs/db"
	"github.com/nayan-ray/bookingd/libs/httpx"
	otelx "github.com/nayan-ray/bookingd/libs/otel"
	"github.com/nayan-ray/bookingd/libs/runtime"
)

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "bookingd")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL, int32(config.Int("DB_MAX_CONNS", 5)))
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	if err := storage.Migrate(ctx, pool); err != nil {
		logger.Error("migrations failed", "err", err)
		panic(err)
	}

	nonceSecret, err := config.RequiredString("NONCE_SECRET")
	if err != nil {
		panic(err)
	}
	nonces := nonce.New(nonceSecret, time.Duration(config.Int("NONCE_LIFETIME_HOURS", 12))*time.Hour)

	repo := storage.NewAppointmentRepository(pool)
	settingsStore := settings.NewStore(pool)

	verifier := captcha.NewVerifierForEndpoint(config.String("RECAPTCHA_VERIFY_URL", ""), logger)

	sender := mailer.NewSMTPSender(
		config.String("SMTP_HOST", "localhost"),
		config.String("SMTP_PORT", "25"),
		config.String("SMTP_FROM", "no-reply@bookingd.local"),
		config.String("SMTP_USERNAME", ""),
		config.String("SMTP_PASSWORD", ""),
	)
	dispatcher := mailer.NewDispatcher(sender, config.String("ADMIN_FALLBACK_EMAIL", ""))

	pipeline := booking.NewPipeline(repo, settingsStore, verifier, dispatcher, nonces, logger)
	listing := console.NewService(repo)

	publicHandler := handlers.NewPublicHandler(pipeline, settingsStore, nonces, logger)
	adminHandler := handlers.NewAdminHandler(listing, settingsStore, nonces, config.String("ADMIN_TOKEN", ""), logger)

	// Submissions are the only write path reachable by anonymous clients,
	// so they get their own limiter. Multi-replica deployments point
	// REDIS_ADDR at a shared instance; otherwise the in-memory window
	// applies per replica.
	submitLimit := config.Int("SUBMIT_RATE_LIMIT", 10)
	submitWindow := time.Duration(config.Int("SUBMIT_RATE_WINDOW_SECONDS", 60)) * time.Second
	var submitLimiter httpx.Middleware
	var readyChecks []runtime.ReadyCheck
	readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)})

	if addr := strings.TrimSpace(config.String("REDIS_ADDR", "")); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		submitLimiter = httpx.NewRedisRateLimiter(rdb, submitLimit, submitWindow, "submit").Middleware(logger, true)
		readyChecks = append(readyChecks, runtime.ReadyCheck{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		})
	} else {
		submitLimiter = httpx.NewRateLimiter(submitLimit, submitWindow).Middleware()
	}

	mux := runtime.NewBaseMuxWithReady(readyChecks...)
	mux.HandleFunc("/api/v1/public/form-config", publicHandler.FormConfig)
	mux.Handle("/api/v1/public/appointments", submitLimiter(http.HandlerFunc(publicHandler.Submit)))
	mux.HandleFunc("/api/v1/admin/appointments", adminHandler.Require(adminHandler.List))
	mux.HandleFunc("/api/v1/admin/appointments/delete", adminHandler.Require(adminHandler.Delete))
	mux.HandleFunc("/api/v1/admin/settings", adminHandler.Require(adminHandler.Settings))

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: strings.Split(config.String("CORS_ALLOWED_ORIGINS", "*"), ","),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Admin-Token"},
			MaxAge:         10 * time.Minute,
		}),
		httpx.WithBodyLimit(64<<10),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, service)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
