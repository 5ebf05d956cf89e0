package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"yanoback/cache"
	"yanoback/config"
	"yanoback/logger"
	"yanoback/security"
	"yanoback/spotify"
)

// Start initializes and starts the HTTP server. It is the composition root:
// one cache store per process, wired explicitly into every component.
func Start(cfg *config.Config) {
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	cipher := security.NewCipher(cfg.EncryptionKey)

	// 本地开发模式跳过Redis，缓存退化为仅进程内
	var cacheService *cache.Service
	store := cache.NewStore()
	if cfg.LocalDevelopment() {
		logger.Info("no durable store configured, running with in-process cache only")
		cacheService = cache.NewService(store, nil, cipher, cfg.CacheTTL)
	} else {
		rdb, err := cache.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("failed to connect to Redis", logger.ErrorField(err))
		}
		defer rdb.Close()
		logger.Info("connected to Redis", logger.String("addr", cfg.RedisAddr()))
		cacheService = cache.NewService(store, rdb, cipher, cfg.CacheTTL)
	}

	oauthService := spotify.NewOAuthService(cfg, cacheService)
	apiClient := spotify.NewAPIClient(oauthService, cacheService)
	trackHandler := NewTrackHandler(apiClient)

	router := mux.NewRouter()
	router.Use(requestLogMiddleware)

	router.HandleFunc("/spotify/now-playing", trackHandler.GetNowPlayingHandler).Methods(http.MethodGet)
	router.HandleFunc("/spotify/last-played", trackHandler.GetLastPlayedHandler).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeNotFound(w)
	})

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("server stopped")
}

// requestLogMiddleware 为每个请求生成请求ID并记录访问日志
func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		logger.Info("request",
			logger.String("requestId", requestID),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rw.status),
			logger.Duration("duration", time.Since(start)),
		)
	})
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
