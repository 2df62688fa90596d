package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/inkdraft/internal/assist"
	"github.com/debemdeboas/inkdraft/internal/assist/gemini"
	"github.com/debemdeboas/inkdraft/internal/config"
	"github.com/debemdeboas/inkdraft/internal/db"
	"github.com/debemdeboas/inkdraft/internal/export"
	"github.com/debemdeboas/inkdraft/internal/keys"
	"github.com/debemdeboas/inkdraft/internal/logger"
	"github.com/debemdeboas/inkdraft/internal/notify"
	"github.com/debemdeboas/inkdraft/internal/render"
	"github.com/debemdeboas/inkdraft/internal/repository"
	"github.com/debemdeboas/inkdraft/internal/richtext"
	"github.com/debemdeboas/inkdraft/internal/server"
	"github.com/debemdeboas/inkdraft/internal/session"
	"github.com/debemdeboas/inkdraft/internal/storage"
	"github.com/debemdeboas/inkdraft/internal/upload"
	"github.com/debemdeboas/inkdraft/internal/util/compression"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	configPath := flag.String("config", envOr("CONFIG_PATH", config.DefaultConfigFile), "Path to the YAML config file")
	flag.Parse()

	if err := config.LoadConfig(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.AppConfig

	log := logger.New(cfg.Logging.Level)
	setLoggers(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setLoggers(l zerolog.Logger) {
	config.SetLogger(l.With().Str("component", "config").Logger())
	db.SetLogger(l.With().Str("component", "db").Logger())
	storage.SetLogger(l.With().Str("component", "storage").Logger())
	repository.SetLogger(l.With().Str("component", "repository").Logger())
	render.SetLogger(l.With().Str("component", "render").Logger())
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	codec, err := compression.New(cfg.Storage.Compression)
	if err != nil {
		return err
	}
	database, kv, err := storage.Open(cfg.Storage, codec)
	if err != nil {
		return err
	}
	defer database.Close()

	gateway, err := newGateway(ctx, cfg.AI, log)
	if err != nil {
		return fmt.Errorf(config.ErrCreateGatewayFmt, err)
	}

	uploader, uploadDir, err := newUploader(ctx, cfg.Uploads)
	if err != nil {
		return err
	}

	posts := repository.NewDBPostRepository(database, codec)
	hub := notify.NewHub()

	sessions := session.NewManager(sessionConfig(cfg.Editor), session.Deps{
		KV:       kv,
		Gateway:  gateway,
		Uploader: uploader,
		Posts:    posts,
		Exporter: export.New(),
		Logger:   log.With().Str("component", "session").Logger(),
	}, hub)
	defer sessions.CloseAll()
	go sessions.Run(ctx, cfg.Editor.SessionSweepInterval)

	srv := server.New(server.Options{
		Sessions:        sessions,
		Hub:             hub,
		Posts:           posts,
		Logger:          log.With().Str("component", "http").Logger(),
		AITimeout:       cfg.AI.Timeout,
		MaxUploadBytes:  cfg.Uploads.MaxSizeBytes(),
		UploadDir:       uploadDir,
		UploadURLPrefix: cfg.Uploads.URLPrefix,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Str("site", cfg.Site.Name).Msg("Server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// newGateway returns nil when AI assist is disabled or has no API key.
func newGateway(ctx context.Context, cfg config.AIConfig, log zerolog.Logger) (assist.Gateway, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set, AI assist is disabled")
		return nil, nil
	}
	if cfg.Provider != "gemini" {
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}

	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:            cfg.APIKey,
		Model:             cfg.Model,
		Temperature:       cfg.Temperature,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}, log.With().Str("component", "gemini").Logger())
	if err != nil {
		return nil, err
	}
	return client, nil
}

// newUploader returns the configured uploader and, for the file driver, the
// directory the server must serve.
func newUploader(ctx context.Context, cfg config.UploadConfig) (upload.Uploader, string, error) {
	switch cfg.Driver {
	case "file":
		u, err := upload.NewFileUploader(cfg.Dir, cfg.URLPrefix, cfg.MaxSizeBytes())
		if err != nil {
			return nil, "", err
		}
		return u, u.Dir(), nil
	case "s3":
		u, err := upload.NewS3Uploader(ctx, upload.S3Config{
			Bucket:          cfg.Bucket,
			Endpoint:        cfg.Endpoint,
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			PublicBaseURL:   cfg.PublicBaseURL,
			MaxSize:         cfg.MaxSizeBytes(),
		})
		if err != nil {
			return nil, "", err
		}
		return u, "", nil
	case "none", "":
		return nil, "", nil
	default:
		return nil, "", fmt.Errorf(config.ErrUnknownUploadDriverFmt, cfg.Driver)
	}
}

func sessionConfig(cfg config.EditorConfig) session.Config {
	return session.Config{
		DraftKey:       cfg.DraftKey,
		AutosaveDelay:  cfg.AutosaveDelay,
		EmptyDocument:  cfg.EmptyDocument,
		WordsPerMinute: cfg.WordsPerMinute,
		History: richtext.HistoryOptions{
			Delay:    cfg.HistoryDelay,
			MaxStack: cfg.HistoryMaxStack,
			UserOnly: cfg.HistoryUserOnly,
		},
		KeyMap:      keys.DefaultKeyMap(),
		IdleTimeout: cfg.SessionIdleTimeout,
	}
}
