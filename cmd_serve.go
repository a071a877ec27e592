package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/auth"
	"github.com/junaidrashid-git/farmfresh-api/cache"
	"github.com/junaidrashid-git/farmfresh-api/database"
	"github.com/junaidrashid-git/farmfresh-api/metrics"
	"github.com/junaidrashid-git/farmfresh-api/realtime"
	"github.com/junaidrashid-git/farmfresh-api/routes"
	"github.com/junaidrashid-git/farmfresh-api/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1️⃣ Database
	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	// 2️⃣ Catalog cache (optional)
	collector := metrics.New()
	var redisClient cache.RedisClient
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer client.Close()
		redisClient = client
	} else {
		zlog.Warn("REDIS_ADDR not set, catalog reads go straight to the database")
	}
	catalog := cache.NewCatalog(redisClient, cache.Options{
		Prefix:  "farmfresh:",
		TTL:     cfg.CatalogCacheTTL,
		Metrics: collector,
		Logger:  zlog,
	})

	// 3️⃣ Image storage
	var images storage.ImageStore
	uploadDir := ""
	switch cfg.ImageStore {
	case "s3":
		s3Store, err := storage.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL)
		if err != nil {
			return err
		}
		images = s3Store
	default:
		images = storage.NewLocalStore(cfg.UploadDir, cfg.PublicUploadPath)
		uploadDir = cfg.UploadDir
	}

	// 4️⃣ Login
	var verifier auth.IdentityVerifier
	if cfg.FirebaseProjectID != "" || cfg.FirebaseCredentialsJSON != "" {
		fv, err := auth.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsJSON)
		if err != nil {
			return err
		}
		verifier = fv
	} else {
		zlog.Warn("firebase not configured, /auth/login will answer 503")
	}

	hub := realtime.NewHub(zlog)
	env := &app.Env{
		DB:      db,
		Catalog: catalog,
		Events:  hub,
		Images:  images,
		Metrics: collector,
		Log:     zlog,
	}

	router := routes.NewRouter(routes.Deps{
		Env:              env,
		Tokens:           auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		Verifier:         verifier,
		AdminAPIKey:      cfg.AdminAPIKey,
		Hub:              hub,
		CORSOrigins:      cfg.CORSOrigins,
		UploadDir:        uploadDir,
		PublicUploadPath: cfg.PublicUploadPath,
	})
	router.MaxMultipartMemory = 8 << 20

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Info("🚀 server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zlog.Info("shutting down")
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// 5️⃣ Nightly upload backup, local images only
	if cfg.BackupDir != "" && uploadDir != "" {
		backup := storage.NewBackup(uploadDir, cfg.BackupDir, cfg.BackupRetention, cfg.BackupHour, zlog)
		g.Go(func() error { return backup.Run(gctx) })
	}

	return g.Wait()
}

func openDB() (*gorm.DB, error) {
	db, err := database.Open(cfg.DSN(), zlog)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}
