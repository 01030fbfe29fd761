//	@title			Wanderlog API
//	@version		1.0
//	@description	Travel journal backend: albums, photos, stories and expiring share links.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/wanderlog/service/internal/album"
	"github.com/wanderlog/service/internal/config"
	"github.com/wanderlog/service/internal/db"
	"github.com/wanderlog/service/internal/logger"
	appMiddleware "github.com/wanderlog/service/internal/middleware"
	"github.com/wanderlog/service/internal/photo"
	"github.com/wanderlog/service/internal/sharelink"
	"github.com/wanderlog/service/internal/storage"
	"github.com/wanderlog/service/internal/story"
	"github.com/wanderlog/service/internal/user"

	_ "github.com/wanderlog/service/docs/swagger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	pool, err := db.Connect(ctx, log, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(log, cfg.DatabaseURL); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	var (
		blobs storage.Storage
		media http.Handler
	)
	switch cfg.StorageDriver {
	case config.StorageDriverS3:
		s, err := storage.NewMinioStorage(ctx, log.Named("storage"), storage.MinioConfig{
			Endpoint:   cfg.StorageEndpoint,
			AccessKey:  cfg.StorageAccessKey,
			SecretKey:  cfg.StorageSecretKey,
			Bucket:     cfg.StorageBucket,
			UseSSL:     cfg.StorageUseSSL,
			PublicBase: cfg.StoragePublicBase,
		})
		if err != nil {
			log.Fatal("object storage init failed", zap.Error(err))
		}
		blobs = s
	case config.StorageDriverLocal:
		s, err := storage.NewBucketStorage(afero.NewOsFs(), cfg.StorageLocalRoot, cfg.StoragePublicBase)
		if err != nil {
			log.Fatal("bucket storage init failed", zap.Error(err))
		}
		blobs = s
		media = http.StripPrefix("/media", s.Handler())
	default:
		log.Fatal("unknown storage driver", zap.String("driver", cfg.StorageDriver))
	}
	log.Info("blob storage ready", zap.String("driver", cfg.StorageDriver))

	var linkCache sharelink.Cache
	if cfg.RedisURL != "" {
		if rc := connectRedis(ctx, log, cfg.RedisURL); rc != nil {
			defer rc.Close()
			linkCache = sharelink.NewRedisCache(rc)
		}
	}

	// Wire dependencies: repository → service → handler
	userRepo := user.NewRepository(pool)
	albumRepo := album.NewRepository(pool)
	photoRepo := photo.NewRepository(pool)
	storyRepo := story.NewRepository(pool)
	linkRepo := sharelink.NewRepository(pool)

	userSvc := user.NewService(userRepo)
	albumSvc := album.NewService(albumRepo, blobs, log.Named("album"))
	photoSvc := photo.NewService(photoRepo, albumRepo, blobs, log.Named("photo"))
	storySvc := story.NewService(storyRepo, albumRepo)
	linkSvc := sharelink.NewService(linkRepo, albumRepo, photoRepo, storyRepo, linkCache, log.Named("sharelink"))

	userHandler := user.NewHandler(userSvc)
	albumHandler := album.NewHandler(albumSvc)
	photoHandler := photo.NewHandler(photoSvc)
	storyHandler := story.NewHandler(storySvc)
	linkHandler := sharelink.NewHandler(linkSvc)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	if media != nil {
		r.Handle("/media/*", media)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Anonymous access through a share token
		r.Get("/shared/{token}", linkHandler.Resolve)

		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.RequireAuth(cfg.JWTSecret))

			r.Get("/users/me", userHandler.GetMe)

			r.Route("/albums", func(r chi.Router) {
				r.Post("/", albumHandler.Create)
				r.Get("/", albumHandler.List)

				r.Route("/{albumID}", func(r chi.Router) {
					r.Get("/", albumHandler.Get)
					r.Patch("/", albumHandler.Update)
					r.Delete("/", albumHandler.Delete)

					r.Post("/photos", photoHandler.Upload)
					r.Get("/photos", photoHandler.List)

					r.Post("/stories", storyHandler.Create)
					r.Get("/stories", storyHandler.List)

					r.Post("/share-links", linkHandler.Create)
					r.Get("/share-links", linkHandler.List)
				})
			})

			r.Delete("/photos/{photoID}", photoHandler.Delete)
			r.Patch("/stories/{storyID}", storyHandler.Update)
			r.Delete("/stories/{storyID}", storyHandler.Delete)
			r.Delete("/share-links/{linkID}", linkHandler.Revoke)
		})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
		// Uploads carry up to 5 MiB, so reads get more headroom than writes.
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	log.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
		return
	}

	log.Info("server stopped")
}

// connectRedis returns nil when Redis is unreachable; share links then
// resolve straight from the database.
func connectRedis(ctx context.Context, log *zap.Logger, url string) *redis.Client {
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("invalid REDIS_URL, share link cache disabled", zap.Error(err))
		return nil
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, share link cache disabled", zap.Error(err))
		_ = client.Close()
		return nil
	}
	log.Info("share link cache enabled")
	return client
}
