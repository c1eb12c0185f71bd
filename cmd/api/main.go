package main

import (
	"log"
	"time"

	"github.com/streamnest/streamnest-backend/internal/config"
	"github.com/streamnest/streamnest-backend/internal/repository/localfs"
	minioStore "github.com/streamnest/streamnest-backend/internal/repository/minio"
	"github.com/streamnest/streamnest-backend/internal/repository/ports"
	"github.com/streamnest/streamnest-backend/internal/repository/postgres"
	"github.com/streamnest/streamnest-backend/internal/service"
	transporthttp "github.com/streamnest/streamnest-backend/internal/transport/http"
	"github.com/streamnest/streamnest-backend/internal/transport/mail"
	"github.com/streamnest/streamnest-backend/internal/util"
)

func main() {
	cfg := config.Load()

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	var files ports.FileStore
	uploadsDir := ""
	switch cfg.StorageDriver {
	case config.StorageMinIO:
		client, err := minioStore.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			log.Fatalf("connect minio: %v", err)
		}
		files = minioStore.NewStore(client, cfg.MinIOBucket)
	case config.StorageLocal:
		files = localfs.New(cfg.UploadBaseDir, "uploads")
		uploadsDir = cfg.UploadBaseDir
	default:
		log.Fatalf("unknown storage driver %q", cfg.StorageDriver)
	}

	mailer := mail.NewResetMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	tokens := util.NewJWTManager(cfg.JWTSecret, parseTTL(cfg.SessionTTL, 24*time.Hour))

	auth := service.NewAuthService(
		postgres.NewUserRepo(db),
		postgres.NewSessionRepo(db),
		mailer,
		tokens,
		parseTTL(cfg.SessionTTL, 24*time.Hour),
		parseTTL(cfg.PasswordResetTTL, 10*time.Minute),
	)
	genreRepo := postgres.NewGenreRepo(db)
	contents := service.NewContentService(postgres.NewContentRepo(db), genreRepo, files)
	genres := service.NewGenreService(genreRepo, files)

	limits := transporthttp.UploadLimits{
		VideoMaxBytes: cfg.VideoMaxBytes,
		ImageMaxBytes: cfg.ImageMaxBytes,
	}

	e := transporthttp.NewRouter(cfg.AllowOrigins, uploadsDir)
	transporthttp.RegisterSwagger(e, "docs")
	transporthttp.RegisterAuth(e, transporthttp.NewAuthHandler(auth))
	transporthttp.RegisterContents(e, transporthttp.NewContentHandler(contents, limits, cfg.DefaultPageSize), auth)
	transporthttp.RegisterGenres(e, transporthttp.NewGenreHandler(genres, limits, cfg.DefaultPageSize), auth)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

func parseTTL(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid duration %q, using %s", raw, fallback)
		return fallback
	}
	return d
}
