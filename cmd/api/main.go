//	@title			Akanis Studio API
//	@version		1.0
//	@description	Backend for the studio website: gallery records, media uploads, operator sessions and contact leads.
//
//	@host		localhost:8080
//	@BasePath	/api
//
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						auth_token
//	@description				Session cookie set by POST /api/auth.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akanis/studio/internal/auth"
	"github.com/akanis/studio/internal/config"
	"github.com/akanis/studio/internal/contact"
	"github.com/akanis/studio/internal/db"
	"github.com/akanis/studio/internal/gallery"
	"github.com/akanis/studio/internal/media"
	"github.com/akanis/studio/internal/notify"
	"github.com/akanis/studio/internal/ratelimit"
	"github.com/akanis/studio/internal/server"
	"github.com/akanis/studio/internal/upload"

	_ "github.com/akanis/studio/docs/swagger"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if cfg.IsProduction() && cfg.JWTSecret == "change_me_in_production" {
		log.Fatal("JWT_SECRET must be set in production")
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	host, direct, err := newMediaHost(ctx, cfg)
	if err != nil {
		log.Fatalf("media host init failed: %v", err)
	}

	var limiter auth.Limiter
	if cfg.LoginRateLimitPerMinute > 0 {
		l, err := ratelimit.New(ratelimit.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Limit:    cfg.LoginRateLimitPerMinute,
			Window:   time.Minute,
		})
		if err != nil {
			log.Fatalf("login rate limiter init failed: %v", err)
		}
		defer l.Close()
		if err := l.Ping(ctx); err != nil {
			log.Printf("login rate limiter: redis unreachable, logins will be refused until it recovers: %v", err)
		}
		limiter = l
	}

	var sender notify.Sender = notify.LogSender{}
	if cfg.SMTPHost != "" {
		s, err := notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
		if err != nil {
			log.Fatalf("smtp init failed: %v", err)
		}
		sender = s
	} else {
		log.Println("SMTP_HOST not set, contact mails are logged only")
	}

	// Wire dependencies: repository → service → handler
	pipeline := upload.NewPipeline(host, upload.Config{
		TempDir:      cfg.TempDir,
		Folder:       cfg.UploadFolder,
		ChunkSize:    cfg.ChunkSize,
		MaxBodyBytes: cfg.ProxyMaxBodyBytes,
		Policy:       media.DefaultPolicy,
	})
	var uploadHandler *upload.Handler
	if direct != nil {
		uploadHandler = upload.NewHandler(pipeline, direct.Signer(), direct)
	} else {
		uploadHandler = upload.NewHandler(pipeline, nil, nil)
	}

	galleryHandler := gallery.NewHandler(gallery.NewService(gallery.NewRepository(pool), host), pipeline)

	notifier := notify.NewNotifier(sender, cfg.OwnerEmail, cfg.StudioName)
	contactHandler := contact.NewHandler(contact.NewService(contact.NewRepository(pool), notifier))

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.SessionTTL)
	authSvc := auth.NewService(auth.Admin{
		Email:        cfg.AdminEmail,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
	}, tokens)
	authHandler := auth.NewHandler(authSvc, cfg.IsProduction(), limiter)

	router := server.NewRouter(server.Deps{
		Auth:           authHandler,
		Sessions:       tokens,
		Gallery:        galleryHandler,
		Contact:        contactHandler,
		Upload:         uploadHandler,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s, media=%s)", cfg.Port, cfg.AppEnv, cfg.MediaBackend)
		log.Printf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	// proxy uploads can take minutes; give them time to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}

// newMediaHost builds the configured media backend. The Cloudinary backend also accepts direct
// signed uploads and is returned as the second value; MinIO does not.
func newMediaHost(ctx context.Context, cfg *config.Config) (media.Host, *media.Cloudinary, error) {
	switch cfg.MediaBackend {
	case "cloudinary":
		c, err := media.NewCloudinary(media.CloudinaryConfig{
			UploadPrefix: cfg.MediaPrefix,
			CloudName:    cfg.CloudName,
			APIKey:       cfg.MediaAPIKey,
			APISecret:    cfg.MediaAPISecret,
			ChunkSize:    cfg.ChunkSize,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	case "minio":
		h, err := media.NewMinioHost(ctx, media.MinioConfig{
			Endpoint:   cfg.StorageEndpoint,
			AccessKey:  cfg.StorageAccessKey,
			SecretKey:  cfg.StorageSecretKey,
			Bucket:     cfg.StorageBucket,
			PublicBase: cfg.StoragePublicBase,
			UseSSL:     cfg.StorageUseSSL,
			PartSize:   cfg.ChunkSize,
		})
		if err != nil {
			return nil, nil, err
		}
		return h, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown MEDIA_BACKEND %q (want cloudinary or minio)", cfg.MediaBackend)
	}
}
